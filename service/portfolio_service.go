package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"loan-payoff/domain"
)

const (
	StrategySnowball  = "snowball"
	StrategyAvalanche = "avalanche"
)

type PortfolioService struct {
	projections *ProjectionService
	explainer   *ExplanationService
}

func NewPortfolioService(projections *ProjectionService, explainer *ExplanationService) *PortfolioService {
	return &PortfolioService{
		projections: projections,
		explainer:   explainer,
	}
}

// PlanPayoff projects every debt on its own payment and orders them by
// strategy: snowball pays the smallest balance first, avalanche the highest
// rate first.
func (s *PortfolioService) PlanPayoff(
	ctx context.Context,
	input domain.PortfolioInput,
) (domain.PortfolioResult, error) {

	if err := validatePortfolio(input); err != nil {
		return domain.PortfolioResult{}, err
	}

	strategy := input.Strategy
	if strategy == "" {
		strategy = StrategyAvalanche
	}

	start, err := s.projections.parseStart(input.StartDate)
	if err != nil {
		return domain.PortfolioResult{}, err
	}

	debts := make([]domain.PortfolioDebt, len(input.Debts))
	copy(debts, input.Debts)

	if strategy == StrategySnowball {
		sort.SliceStable(debts, func(i, j int) bool {
			return debts[i].Balance < debts[j].Balance
		})
	} else {
		sort.SliceStable(debts, func(i, j int) bool {
			return debts[i].InterestRate > debts[j].InterestRate
		})
	}

	totalDebt := decimal.Zero
	totalOutlay := decimal.Zero
	totalInterest := decimal.Zero
	var debtFree *string
	allPaidOff := true

	plan := make([]domain.DebtPayoff, 0, len(debts))
	for i, debt := range debts {
		projection := s.projections.Build(debt.Balance, debt.InterestRate, debt.MonthlyPayment, start, 0)

		plan = append(plan, domain.DebtPayoff{
			Name:           debt.Name,
			Priority:       i + 1,
			Balance:        projection.CurrentBalance,
			InterestRate:   debt.InterestRate,
			MonthlyPayment: projection.MonthlyPayment,
			PayoffDate:     projection.ProjectedPayoffDate,
			MonthsToPayoff: projection.MonthsToPayoff,
			TotalInterest:  projection.TotalInterestToPay,
			Validation:     projection.Validation,
		})

		totalDebt = totalDebt.Add(decimal.NewFromFloat(debt.Balance))
		totalOutlay = totalOutlay.Add(decimal.NewFromFloat(debt.MonthlyPayment))
		totalInterest = totalInterest.Add(decimal.NewFromFloat(projection.TotalInterestToPay))

		// Las fechas YYYY-MM-DD se comparan como texto
		switch {
		case projection.ProjectedPayoffDate == nil:
			allPaidOff = false
		case debtFree == nil || *projection.ProjectedPayoffDate > *debtFree:
			debtFree = projection.ProjectedPayoffDate
		}
	}
	if !allPaidOff {
		debtFree = nil
	}

	result := domain.PortfolioResult{
		Strategy:           strategy,
		TotalDebt:          totalDebt.Round(2).InexactFloat64(),
		TotalMonthlyOutlay: totalOutlay.Round(2).InexactFloat64(),
		TotalInterest:      totalInterest.Round(2).InexactFloat64(),
		DebtFreeDate:       debtFree,
		Debts:              plan,
	}
	result.Explanation = s.explainer.ExplainPortfolio(ctx, result)

	return result, nil
}

func validatePortfolio(input domain.PortfolioInput) error {
	if len(input.Debts) == 0 {
		return fmt.Errorf("%w: no debts provided", ErrInvalidInput)
	}
	if len(input.Debts) > MaxDebtsPerRequest {
		return fmt.Errorf("%w: number of debts exceeds the maximum of %d", ErrInvalidInput, MaxDebtsPerRequest)
	}

	switch input.Strategy {
	case "", StrategySnowball, StrategyAvalanche:
	default:
		return fmt.Errorf("%w: strategy must be %q or %q", ErrInvalidInput, StrategySnowball, StrategyAvalanche)
	}

	// Validar nombres únicos
	names := make(map[string]bool)
	for _, debt := range input.Debts {
		if debt.Name == "" {
			return fmt.Errorf("%w: debt name cannot be empty", ErrInvalidInput)
		}
		if names[debt.Name] {
			return fmt.Errorf("%w: duplicate debt name: %s", ErrInvalidInput, debt.Name)
		}
		names[debt.Name] = true

		if err := validateAmounts(debt.Balance, debt.InterestRate, debt.MonthlyPayment); err != nil {
			return fmt.Errorf("debt %s: %w", debt.Name, err)
		}
		if debt.Balance <= 0 {
			return fmt.Errorf("%w: debt %s must have a positive balance", ErrInvalidInput, debt.Name)
		}
	}

	return nil
}
