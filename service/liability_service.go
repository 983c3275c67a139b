package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"loan-payoff/amortization"
	"loan-payoff/domain"
	"loan-payoff/repository"
)

type LiabilityService struct {
	repo        repository.LiabilityRepository
	projections *ProjectionService
	explainer   *ExplanationService
	now         func() time.Time
	newID       func() string
}

// NewLiabilityService creates a new LiabilityService with the given repository.
func NewLiabilityService(
	repo repository.LiabilityRepository,
	projections *ProjectionService,
	explainer *ExplanationService,
) *LiabilityService {
	return &LiabilityService{
		repo:        repo,
		projections: projections,
		explainer:   explainer,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Create validates and stores a new liability.
func (s *LiabilityService) Create(ctx context.Context, l domain.Liability) (domain.Liability, error) {
	l.Name = strings.TrimSpace(l.Name)
	if l.Name == "" {
		return domain.Liability{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	switch l.Kind {
	case "":
		l.Kind = domain.KindOther
	case domain.KindLoan, domain.KindMortgage, domain.KindCreditCard, domain.KindOther:
	default:
		return domain.Liability{}, fmt.Errorf("%w: unknown liability kind %q", ErrInvalidInput, l.Kind)
	}
	if err := validateAmounts(l.CurrentBalance, l.InterestRate, l.MinimumPayment); err != nil {
		return domain.Liability{}, err
	}
	if l.CurrentBalance < 0 {
		return domain.Liability{}, fmt.Errorf("%w: balance cannot be negative", ErrInvalidInput)
	}
	if l.MinimumPayment < 0 {
		return domain.Liability{}, fmt.Errorf("%w: minimum payment cannot be negative", ErrInvalidInput)
	}
	if l.TermMonths < 0 || l.TermMonths > MaxTermMonths {
		return domain.Liability{}, fmt.Errorf("%w: term must be between 0 and %d months", ErrInvalidInput, MaxTermMonths)
	}

	l.ID = s.newID()
	l.CurrentBalance = amortization.Round2(l.CurrentBalance)
	if l.StartDate.IsZero() {
		l.StartDate = today(s.now())
	}

	if err := s.repo.Save(ctx, l); err != nil {
		return domain.Liability{}, fmt.Errorf("save liability: %w", err)
	}

	log.Info().Str("id", l.ID).Str("kind", string(l.Kind)).Msg("liability created")
	return l, nil
}

func (s *LiabilityService) Get(ctx context.Context, id string) (domain.Liability, error) {
	return s.repo.Get(ctx, id)
}

func (s *LiabilityService) List(ctx context.Context) ([]domain.Liability, error) {
	return s.repo.List(ctx)
}

// AddTransaction records a transaction and moves the liability's current
// balance: payments reduce it (never below zero), interest and charges add
// to it.
func (s *LiabilityService) AddTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) || amortization.Round2(tx.Amount) <= 0 {
		return domain.Transaction{}, fmt.Errorf("%w: transaction amount must be positive", ErrInvalidInput)
	}
	switch tx.Kind {
	case domain.TransactionPayment, domain.TransactionInterest, domain.TransactionCharge:
	default:
		return domain.Transaction{}, fmt.Errorf("%w: unknown transaction kind %q", ErrInvalidInput, tx.Kind)
	}

	tx.ID = s.newID()
	tx.Amount = amortization.Round2(tx.Amount)
	if tx.Date.IsZero() {
		tx.Date = today(s.now())
	}

	l, err := s.repo.AddTransaction(ctx, tx)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	log.Debug().
		Str("liability", l.ID).
		Str("kind", string(tx.Kind)).
		Float64("balance", l.CurrentBalance).
		Msg("transaction recorded")

	return tx, nil
}

// Project folds the liability's history into its payoff projection. A
// customPayment <= 0 falls back to the derived payment.
func (s *LiabilityService) Project(
	ctx context.Context,
	id string,
	customPayment float64,
) (domain.EnhancedProjection, error) {

	if math.IsNaN(customPayment) || math.IsInf(customPayment, 0) {
		return domain.EnhancedProjection{}, fmt.Errorf("%w: payment must be a finite number", ErrInvalidInput)
	}

	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.EnhancedProjection{}, err
	}
	history, err := s.repo.Transactions(ctx, id)
	if err != nil {
		return domain.EnhancedProjection{}, err
	}

	now := s.now()
	start := today(now)
	summary := summarizeHistory(history, now)

	payment := customPayment
	if payment <= 0 {
		payment = s.projections.DerivePayment(l, now)
	}

	planned := s.projections.Build(l.CurrentBalance, l.InterestRate, payment, start, 0)

	result := domain.EnhancedProjection{
		Liability:             l,
		Planned:               planned,
		PaymentsToDate:        summary.payments,
		InterestChargedToDate: summary.interest,
		AverageMonthlyPayment: summary.averagePayment,
	}

	pacePayment := payment
	if summary.averagePayment > 0 {
		actual := s.projections.Build(l.CurrentBalance, l.InterestRate, summary.averagePayment, start, 0)
		result.ActualPace = &actual
		pacePayment = summary.averagePayment
	}

	if l.TermMonths > 0 && !l.StartDate.IsZero() {
		termEnd := l.StartDate.AddDate(0, l.TermMonths, 0)
		formatted := termEnd.Format(amortization.DateLayout)
		result.TermEndDate = &formatted

		payoff, ok := amortization.PayoffDate(l.CurrentBalance, l.InterestRate, pacePayment, start)
		onTrack := ok && !payoff.After(termEnd)
		result.OnTrack = &onTrack
	}

	result.Explanation = s.explainer.ExplainProjection(ctx, l.Name, planned)

	return result, nil
}

type historySummary struct {
	payments       float64
	interest       float64
	averagePayment float64
}

// summarizeHistory totals the history up to now. The average payment is
// taken over the most recent RecentPaymentMonths calendar months that have
// at least one payment.
func summarizeHistory(history []domain.Transaction, now time.Time) historySummary {
	payments := decimal.Zero
	interest := decimal.Zero
	byMonth := make(map[string]decimal.Decimal)

	for _, tx := range history {
		if tx.Date.After(now) {
			continue
		}
		amount := decimal.NewFromFloat(tx.Amount)
		switch tx.Kind {
		case domain.TransactionPayment:
			payments = payments.Add(amount)
			month := tx.Date.Format("2006-01")
			byMonth[month] = byMonth[month].Add(amount)
		case domain.TransactionInterest:
			interest = interest.Add(amount)
		}
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	if len(months) > RecentPaymentMonths {
		months = months[:RecentPaymentMonths]
	}

	average := decimal.Zero
	if len(months) > 0 {
		sum := decimal.Zero
		for _, month := range months {
			sum = sum.Add(byMonth[month])
		}
		average = sum.Div(decimal.NewFromInt(int64(len(months))))
	}

	return historySummary{
		payments:       payments.Round(2).InexactFloat64(),
		interest:       interest.Round(2).InexactFloat64(),
		averagePayment: average.Round(2).InexactFloat64(),
	}
}
