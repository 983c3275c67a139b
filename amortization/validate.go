package amortization

import (
	"fmt"

	"loan-payoff/domain"
)

// ValidateMinimumPayment reports whether payment makes progress against
// balance. The message is meant to be shown to the end user as is.
func ValidateMinimumPayment(balance, annualRatePercent, payment float64) domain.PaymentValidation {
	if balance <= 0 {
		return domain.PaymentValidation{IsValid: true}
	}
	if payment <= 0 {
		return domain.PaymentValidation{
			IsValid: false,
			Message: "Monthly payment must be greater than zero",
		}
	}
	if annualRatePercent <= 0 {
		return domain.PaymentValidation{IsValid: true}
	}

	interest := MonthlyInterest(balance, annualRatePercent)
	if payment <= interest {
		return domain.PaymentValidation{
			IsValid: false,
			Message: fmt.Sprintf("Minimum payment must exceed £%.2f to cover the monthly interest", interest),
		}
	}

	return domain.PaymentValidation{IsValid: true}
}
