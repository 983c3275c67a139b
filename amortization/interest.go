package amortization

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds a money amount to cents, half away from zero. NaN and
// infinities come back unchanged.
func Round2(value float64) float64 {
	if !finite(value) {
		return value
	}
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

// MonthlyInterest returns one month of simple interest on balance. The result
// is not rounded.
func MonthlyInterest(balance, annualRatePercent float64) float64 {
	if balance <= 0 || annualRatePercent <= 0 {
		return 0
	}
	return balance * (annualRatePercent / percent) / monthsPerYear
}

// RequiredPayment returns the fixed monthly payment that clears balance in
// months months, rounded up to the cent so the last payment never overruns
// the term.
func RequiredPayment(balance, annualRatePercent float64, months int) float64 {
	if !finite(balance, annualRatePercent) || balance <= 0 || months <= 0 {
		return 0
	}
	if annualRatePercent <= 0 {
		return ceil2(balance / float64(months))
	}

	monthlyRate := annualRatePercent / percent / monthsPerYear
	n := float64(months)

	return ceil2(balance * (monthlyRate / (1 - math.Pow(1+monthlyRate, -n))))
}

func ceil2(value float64) float64 {
	if !finite(value) {
		return value
	}
	return decimal.NewFromFloat(value).RoundCeil(2).InexactFloat64()
}
