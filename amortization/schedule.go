package amortization

import (
	"time"

	"github.com/shopspring/decimal"

	"loan-payoff/domain"
)

// AmortizationSchedule simulates the balance month by month until it is paid
// off, the payment stops covering interest, or MaxScheduleMonths rows exist.
// A schedule of exactly MaxScheduleMonths rows means payoff was not reached.
func AmortizationSchedule(
	balance, annualRatePercent, payment float64,
	start time.Time,
) []domain.MonthlyEntry {

	schedule := []domain.MonthlyEntry{}
	if !finite(balance, annualRatePercent, payment) || balance <= 0 || payment <= 0 {
		return schedule
	}

	remaining := balance

	for month := 1; month <= MaxScheduleMonths; month++ {
		interest := MonthlyInterest(remaining, annualRatePercent)
		principal := payment - interest
		if principal <= 0 {
			break
		}

		// Última cuota: se ajusta al saldo pendiente
		if principal >= remaining-BalanceTolerance {
			schedule = append(schedule, newEntry(month, start, interest+remaining, interest, 0))
			break
		}

		remaining -= principal
		schedule = append(schedule, newEntry(month, start, payment, interest, remaining))
	}

	return schedule
}

// newEntry rounds a ledger row. Principal is derived from the rounded payment
// and interest so the two always add back up to the payment.
func newEntry(month int, start time.Time, payment, interest, balance float64) domain.MonthlyEntry {
	roundedPayment := decimal.NewFromFloat(payment).Round(2)
	roundedInterest := decimal.NewFromFloat(interest).Round(2)

	return domain.MonthlyEntry{
		Month:     month,
		Date:      start.AddDate(0, month, 0).Format(DateLayout),
		Payment:   roundedPayment.InexactFloat64(),
		Interest:  roundedInterest.InexactFloat64(),
		Principal: roundedPayment.Sub(roundedInterest).InexactFloat64(),
		Balance:   Round2(balance),
	}
}

// TotalInterest sums the rounded interest of every row of the schedule.
func TotalInterest(balance, annualRatePercent, payment float64) float64 {
	return SumInterest(AmortizationSchedule(balance, annualRatePercent, payment, time.Time{}))
}

// SumInterest adds up the interest column of an existing schedule.
func SumInterest(schedule []domain.MonthlyEntry) float64 {
	total := decimal.Zero
	for _, entry := range schedule {
		total = total.Add(decimal.NewFromFloat(entry.Interest))
	}
	return total.Round(2).InexactFloat64()
}

// MonthlyBreakdown returns the first months rows of the schedule.
func MonthlyBreakdown(
	balance, annualRatePercent, payment float64,
	months int,
	start time.Time,
) []domain.MonthlyEntry {

	if months <= 0 {
		return []domain.MonthlyEntry{}
	}

	schedule := AmortizationSchedule(balance, annualRatePercent, payment, start)
	if months < len(schedule) {
		return schedule[:months]
	}
	return schedule
}
