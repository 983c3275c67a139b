package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"loan-payoff/amortization"
	"loan-payoff/domain"
	"loan-payoff/repository"
)

type ProjectionService struct {
	cache repository.CacheRepository
	ttl   time.Duration
	now   func() time.Time
}

// NewProjectionService creates a ProjectionService that caches results in cache.
func NewProjectionService(cache repository.CacheRepository, ttl time.Duration) *ProjectionService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ProjectionService{cache: cache, ttl: ttl, now: time.Now}
}

// Project builds the payoff projection for raw inputs.
func (s *ProjectionService) Project(
	ctx context.Context,
	input domain.ProjectionInput,
) (domain.Projection, error) {

	if err := validateAmounts(input.CurrentBalance, input.InterestRate, input.MonthlyPayment); err != nil {
		return domain.Projection{}, err
	}
	if input.Months < 0 || input.Months > amortization.MaxScheduleMonths {
		return domain.Projection{}, fmt.Errorf("%w: months must be between 0 and %d", ErrInvalidInput, amortization.MaxScheduleMonths)
	}

	start, err := s.parseStart(input.StartDate)
	if err != nil {
		return domain.Projection{}, err
	}

	key := projectionKey(input, start)
	if cached, ok := s.cache.Get(ctx, key); ok {
		var projection domain.Projection
		if err := json.Unmarshal([]byte(cached), &projection); err == nil {
			return projection, nil
		}
		log.Warn().Str("key", key).Msg("discarding undecodable cached projection")
	}

	projection := s.Build(input.CurrentBalance, input.InterestRate, input.MonthlyPayment, start, input.Months)

	// Guardar en caché (no crítico si falla)
	if data, err := json.Marshal(projection); err == nil {
		if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache projection")
		}
	}

	return projection, nil
}

// Build runs the engine. months > 0 truncates the returned schedule; the
// totals always cover the whole schedule.
func (s *ProjectionService) Build(
	balance, annualRatePercent, payment float64,
	start time.Time,
	months int,
) domain.Projection {

	schedule := amortization.AmortizationSchedule(balance, annualRatePercent, payment, start)

	projection := domain.Projection{
		CurrentBalance:     amortization.Round2(balance),
		InterestRate:       annualRatePercent,
		MonthlyPayment:     amortization.Round2(payment),
		TotalInterestToPay: amortization.SumInterest(schedule),
		Validation:         amortization.ValidateMinimumPayment(balance, annualRatePercent, payment),
		Schedule:           schedule,
	}

	if date, ok := amortization.PayoffDate(balance, annualRatePercent, payment, start); ok {
		formatted := date.Format(amortization.DateLayout)
		projection.ProjectedPayoffDate = &formatted
		projection.MonthsToPayoff, _ = amortization.MonthsToPayoff(balance, annualRatePercent, payment)
	}

	projection.PayoffReached = balance <= 0 ||
		(len(schedule) > 0 && schedule[len(schedule)-1].Balance == 0)

	if months > 0 && months < len(schedule) {
		projection.Schedule = schedule[:months]
	}

	return projection
}

// Validate runs the minimum-payment check.
func (s *ProjectionService) Validate(balance, annualRatePercent, payment float64) (domain.PaymentValidation, error) {
	if err := validateAmounts(balance, annualRatePercent, payment); err != nil {
		return domain.PaymentValidation{}, err
	}
	return amortization.ValidateMinimumPayment(balance, annualRatePercent, payment), nil
}

// DerivePayment picks the payment to project for a stored liability: its
// minimum payment when set, otherwise the annuity payment that clears a
// fixed-term liability by the end of its term.
func (s *ProjectionService) DerivePayment(l domain.Liability, now time.Time) float64 {
	if l.MinimumPayment > 0 {
		return l.MinimumPayment
	}
	if l.TermMonths <= 0 {
		return 0
	}

	remaining := l.TermMonths - monthsElapsed(l.StartDate, now)
	if remaining < 1 {
		remaining = 1
	}
	return amortization.RequiredPayment(l.CurrentBalance, l.InterestRate, remaining)
}

func (s *ProjectionService) parseStart(value string) (time.Time, error) {
	if value == "" {
		return today(s.now()), nil
	}
	start, err := time.Parse(amortization.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: start date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return start, nil
}

func validateAmounts(balance, annualRatePercent, payment float64) error {
	amounts := []struct {
		name  string
		value float64
	}{
		{"current balance", balance},
		{"interest rate", annualRatePercent},
		{"monthly payment", payment},
	}
	for _, a := range amounts {
		if math.IsNaN(a.value) || math.IsInf(a.value, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidInput, a.name)
		}
	}
	if payment > 0 && payment < MinPayment {
		return fmt.Errorf("%w: monthly payment must be at least %.2f", ErrInvalidInput, MinPayment)
	}
	if balance > MaxBalance {
		return fmt.Errorf("%w: balance exceeds the maximum of %.2f", ErrInvalidInput, MaxBalance)
	}
	if annualRatePercent < 0 {
		return fmt.Errorf("%w: interest rate cannot be negative", ErrInvalidInput)
	}
	if annualRatePercent > MaxInterestRate {
		return fmt.Errorf("%w: interest rate exceeds the maximum of %.2f%%", ErrInvalidInput, MaxInterestRate)
	}
	return nil
}

func projectionKey(input domain.ProjectionInput, start time.Time) string {
	return fmt.Sprintf("projection:%s:%s:%s:%s:%d",
		strconv.FormatFloat(input.CurrentBalance, 'f', -1, 64),
		strconv.FormatFloat(input.InterestRate, 'f', -1, 64),
		strconv.FormatFloat(input.MonthlyPayment, 'f', -1, 64),
		start.Format(amortization.DateLayout),
		input.Months,
	)
}

func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// monthsElapsed counts whole calendar months from start to now.
func monthsElapsed(start, now time.Time) int {
	if start.IsZero() || now.Before(start) {
		return 0
	}
	months := (now.Year()-start.Year())*12 + int(now.Month()-start.Month())
	if now.Day() < start.Day() {
		months--
	}
	return months
}
