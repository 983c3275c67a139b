package amortization

import (
	"math"
	"time"
)

// MonthsToPayoff returns how many monthly payments clear balance. The flag is
// false when payment never reduces the balance or would need more than
// MaxPayoffMonths payments.
func MonthsToPayoff(balance, annualRatePercent, payment float64) (int, bool) {
	if !finite(balance, annualRatePercent, payment) {
		return 0, false
	}
	if balance <= 0 {
		return 0, true
	}
	if payment <= 0 {
		return 0, false
	}

	monthlyRate := annualRatePercent / percent / monthsPerYear
	if annualRatePercent <= 0 || math.Log1p(monthlyRate) == 0 {
		return boundedMonths(balance / payment)
	}

	interest := MonthlyInterest(balance, annualRatePercent)
	// payment == interest leaves the principal untouched forever
	if payment <= interest {
		return 0, false
	}

	// log(p/(p-i)) / log(1+r), con log1p para tasas muy pequeñas
	n := math.Log1p(interest/(payment-interest)) / math.Log1p(monthlyRate)

	return boundedMonths(n)
}

func boundedMonths(n float64) (int, bool) {
	if math.IsNaN(n) || math.IsInf(n, 0) || n > MaxPayoffMonths {
		return 0, false
	}
	return int(math.Ceil(n)), true
}

// PayoffDate returns the date the balance reaches zero, solved in closed form.
// The flag is false when the payment is non-positive, does not exceed the
// monthly interest, or needs more than MaxPayoffMonths payments.
func PayoffDate(balance, annualRatePercent, payment float64, start time.Time) (time.Time, bool) {
	if balance <= 0 {
		return start, true
	}

	months, ok := MonthsToPayoff(balance, annualRatePercent, payment)
	if !ok {
		return time.Time{}, false
	}

	return start.AddDate(0, months, 0), true
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
