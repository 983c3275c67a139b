package amortization

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jan2025 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestMonthlyInterest(t *testing.T) {
	tests := []struct {
		name     string
		balance  float64
		rate     float64
		expected float64
	}{
		{name: "five percent on ten thousand", balance: 10000, rate: 5, expected: 41.6667},
		{name: "twenty four percent on five thousand", balance: 5000, rate: 24, expected: 100},
		{name: "zero balance", balance: 0, rate: 5, expected: 0},
		{name: "negative balance", balance: -100, rate: 5, expected: 0},
		{name: "zero rate", balance: 1000, rate: 0, expected: 0},
		{name: "negative rate", balance: 1000, rate: -3, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, MonthlyInterest(tt.balance, tt.rate), 0.0001)
		})
	}

	assert.Equal(t, 41.67, Round2(MonthlyInterest(10000, 5)))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.01, Round2(1.005))
	assert.Equal(t, 2.68, Round2(2.675))
	assert.Equal(t, -1.01, Round2(-1.005))
	assert.Equal(t, 100.0, Round2(99.999))
}

func TestPayoffDate(t *testing.T) {
	tests := []struct {
		name     string
		balance  float64
		rate     float64
		payment  float64
		expected time.Time
		ok       bool
	}{
		{name: "zero interest, exact division", balance: 10000, rate: 0, payment: 500, expected: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "zero interest, rounds months up", balance: 10000, rate: 0, payment: 300, expected: time.Date(2027, 11, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "already paid off", balance: 0, rate: 12, payment: 0, expected: jan2025, ok: true},
		{name: "negative balance", balance: -50, rate: 12, payment: 100, expected: jan2025, ok: true},
		{name: "zero payment", balance: 1000, rate: 12, payment: 0, ok: false},
		{name: "negative payment", balance: 1000, rate: 12, payment: -10, ok: false},
		{name: "payment equals monthly interest", balance: 10000, rate: 12, payment: 100, ok: false},
		{name: "payment below monthly interest", balance: 10000, rate: 12, payment: 50, ok: false},
		{name: "rate too small to move the log", balance: 1000, rate: 1e-15, payment: 300, expected: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "zero interest, longest payable term", balance: 1_200_000, rate: 0, payment: 100, expected: time.Date(3025, 1, 1, 0, 0, 0, 0, time.UTC), ok: true},
		{name: "zero interest, past the longest term", balance: 1e9, rate: 0, payment: 0.0001, ok: false},
		{name: "zero interest, tiny payment", balance: 1e9, rate: 0, payment: 1e-12, ok: false},
		{name: "infinite balance", balance: math.Inf(1), rate: 5, payment: 100, ok: false},
		{name: "NaN rate", balance: 1000, rate: math.NaN(), payment: 100, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, ok := PayoffDate(tt.balance, tt.rate, tt.payment, jan2025)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.expected.Equal(date), "expected %s, got %s", tt.expected, date)
			} else {
				assert.True(t, date.IsZero())
			}
		})
	}
}

func TestPayoffDate_WithInterest(t *testing.T) {
	// 1000 al 12% con 200 mensuales: 6 pagos
	date, ok := PayoffDate(1000, 12, 200, jan2025)
	require.True(t, ok)
	assert.Equal(t, "2025-07-01", date.Format(DateLayout))

	months, ok := MonthsToPayoff(1000, 12, 200)
	require.True(t, ok)
	assert.Equal(t, 6, months)
}

func TestAmortizationSchedule_ZeroInterest(t *testing.T) {
	schedule := AmortizationSchedule(1000, 0, 300, jan2025)

	require.Len(t, schedule, 4)
	for i, entry := range schedule[:3] {
		assert.Equal(t, i+1, entry.Month)
		assert.Equal(t, 300.0, entry.Payment)
		assert.Equal(t, 0.0, entry.Interest)
		assert.Equal(t, 300.0, entry.Principal)
	}
	assert.Equal(t, 100.0, schedule[3].Payment)
	assert.Equal(t, 100.0, schedule[3].Principal)
	assert.Equal(t, 0.0, schedule[3].Balance)
	assert.Equal(t, "2025-05-01", schedule[3].Date)
}

func TestAmortizationSchedule_FirstRow(t *testing.T) {
	schedule := AmortizationSchedule(1000, 12, 200, jan2025)

	require.NotEmpty(t, schedule)
	first := schedule[0]
	assert.Equal(t, 1, first.Month)
	assert.Equal(t, "2025-02-01", first.Date)
	assert.Equal(t, 200.0, first.Payment)
	assert.Equal(t, 10.0, first.Interest)
	assert.Equal(t, 190.0, first.Principal)
	assert.Equal(t, 810.0, first.Balance)

	last := schedule[len(schedule)-1]
	assert.Equal(t, 0.0, last.Balance)
	assert.Less(t, last.Payment, 200.0)
}

func TestAmortizationSchedule_EmptyCases(t *testing.T) {
	tests := []struct {
		name    string
		balance float64
		rate    float64
		payment float64
	}{
		{name: "zero balance", balance: 0, rate: 5, payment: 100},
		{name: "negative balance", balance: -10, rate: 5, payment: 100},
		{name: "zero payment", balance: 1000, rate: 5, payment: 0},
		{name: "negative payment", balance: 1000, rate: 5, payment: -100},
		{name: "debt trap from the first month", balance: 10000, rate: 12, payment: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := AmortizationSchedule(tt.balance, tt.rate, tt.payment, jan2025)
			assert.NotNil(t, schedule)
			assert.Empty(t, schedule)
		})
	}
}

func TestAmortizationSchedule_Cap(t *testing.T) {
	// el interés mensual es 416.67, el pago apenas lo supera
	schedule := AmortizationSchedule(100000, 5, 450, jan2025)

	assert.Len(t, schedule, MaxScheduleMonths)
	assert.Greater(t, schedule[len(schedule)-1].Balance, 0.0)

	_, ok := PayoffDate(100000, 5, 450, jan2025)
	assert.True(t, ok)
}

func TestAmortizationSchedule_Deterministic(t *testing.T) {
	first := AmortizationSchedule(25000, 6.5, 489.15, jan2025)
	second := AmortizationSchedule(25000, 6.5, 489.15, jan2025)

	assert.Equal(t, first, second)
	assert.Equal(t, TotalInterest(25000, 6.5, 489.15), TotalInterest(25000, 6.5, 489.15))
}

var propertyCases = []struct {
	name    string
	balance float64
	rate    float64
	payment float64
}{
	{name: "car loan", balance: 18500, rate: 7.9, payment: 375},
	{name: "credit card", balance: 4321.99, rate: 22.9, payment: 150},
	{name: "mortgage", balance: 250000, rate: 4.25, payment: 1500},
	{name: "small balance", balance: 73.41, rate: 19.99, payment: 25},
	{name: "interest free", balance: 999.99, rate: 0, payment: 33.33},
	{name: "single payment", balance: 500, rate: 10, payment: 600},
	{name: "odd rate", balance: 12345.67, rate: 3.333, payment: 111.11},
}

func TestAmortizationSchedule_Properties(t *testing.T) {
	for _, tt := range propertyCases {
		t.Run(tt.name, func(t *testing.T) {
			schedule := AmortizationSchedule(tt.balance, tt.rate, tt.payment, jan2025)
			require.NotEmpty(t, schedule)
			require.LessOrEqual(t, len(schedule), MaxScheduleMonths)

			principalPaid := 0.0
			for i, entry := range schedule {
				assert.Equal(t, i+1, entry.Month)
				assert.Equal(t, entry.Payment, Round2(entry.Interest+entry.Principal), "row %d", entry.Month)
				assert.Equal(t, jan2025.AddDate(0, i+1, 0).Format(DateLayout), entry.Date)
				if i > 0 {
					assert.LessOrEqual(t, entry.Balance, schedule[i-1].Balance)
				}
				principalPaid += entry.Principal
			}

			last := schedule[len(schedule)-1]
			assert.Equal(t, 0.0, last.Balance)
			assert.InDelta(t, tt.balance, principalPaid, 0.01*float64(len(schedule)))
		})
	}
}

func TestPayoffDate_AgreesWithSchedule(t *testing.T) {
	for _, tt := range propertyCases {
		t.Run(tt.name, func(t *testing.T) {
			schedule := AmortizationSchedule(tt.balance, tt.rate, tt.payment, jan2025)
			months, ok := MonthsToPayoff(tt.balance, tt.rate, tt.payment)
			require.True(t, ok)
			assert.InDelta(t, len(schedule), months, 1)

			date, ok := PayoffDate(tt.balance, tt.rate, tt.payment, jan2025)
			require.True(t, ok)
			assert.Equal(t, jan2025.AddDate(0, months, 0), date)
		})
	}
}

func TestDebtTrapAgreement(t *testing.T) {
	balances := []float64{100, 2500, 10000, 75000}
	rates := []float64{0, 3.5, 12, 24, 39.9}
	payments := []float64{0.01, 5, 25, 100, 250, 1000}

	for _, b := range balances {
		for _, r := range rates {
			for _, p := range payments {
				validation := ValidateMinimumPayment(b, r, p)
				_, ok := PayoffDate(b, r, p, jan2025)
				assert.Equal(t, validation.IsValid, ok, "balance=%v rate=%v payment=%v", b, r, p)
				if !validation.IsValid {
					assert.Empty(t, AmortizationSchedule(b, r, p, jan2025))
				}
			}
		}
	}
}

func TestTotalInterest(t *testing.T) {
	schedule := AmortizationSchedule(1000, 12, 200, jan2025)
	sum := 0.0
	for _, entry := range schedule {
		sum += entry.Interest
	}

	assert.Equal(t, Round2(sum), TotalInterest(1000, 12, 200))
	assert.Equal(t, 0.0, TotalInterest(1000, 0, 300))
	assert.Equal(t, 0.0, TotalInterest(0, 12, 300))
	assert.Equal(t, 0.0, TotalInterest(10000, 12, 100))
	assert.Greater(t, TotalInterest(18500, 7.9, 375), 0.0)
}

func TestMonthlyBreakdown(t *testing.T) {
	full := AmortizationSchedule(1000, 12, 200, jan2025)

	assert.Equal(t, full[:3], MonthlyBreakdown(1000, 12, 200, 3, jan2025))
	assert.Equal(t, full, MonthlyBreakdown(1000, 12, 200, 500, jan2025))
	assert.Empty(t, MonthlyBreakdown(1000, 12, 200, 0, jan2025))
	assert.Empty(t, MonthlyBreakdown(0, 12, 200, 12, jan2025))
}

func TestValidateMinimumPayment(t *testing.T) {
	tests := []struct {
		name        string
		balance     float64
		rate        float64
		payment     float64
		valid       bool
		wantMessage string
	}{
		{name: "nothing to pay", balance: 0, rate: 20, payment: 0, valid: true},
		{name: "zero payment", balance: 1000, rate: 20, payment: 0, valid: false, wantMessage: "greater than zero"},
		{name: "negative payment", balance: 1000, rate: 0, payment: -5, valid: false, wantMessage: "greater than zero"},
		{name: "interest free", balance: 1000, rate: 0, payment: 0.01, valid: true},
		{name: "payment equals interest", balance: 10000, rate: 12, payment: 100, valid: false, wantMessage: "100.00"},
		{name: "payment below interest", balance: 5000, rate: 24, payment: 60, valid: false, wantMessage: "100.00"},
		{name: "payment above interest", balance: 10000, rate: 12, payment: 100.01, valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateMinimumPayment(tt.balance, tt.rate, tt.payment)
			assert.Equal(t, tt.valid, result.IsValid)
			if tt.valid {
				assert.Empty(t, result.Message)
			} else {
				assert.Contains(t, result.Message, tt.wantMessage)
			}
		})
	}
}

func TestRequiredPayment(t *testing.T) {
	assert.Equal(t, 100.0, RequiredPayment(1200, 0, 12))
	assert.Equal(t, 470.74, RequiredPayment(10000, 12, 24))
	assert.Equal(t, 333.34, RequiredPayment(1000, 0, 3))
	assert.Equal(t, 0.0, RequiredPayment(0, 12, 24))
	assert.Equal(t, 0.0, RequiredPayment(10000, 12, 0))

	months, ok := MonthsToPayoff(10000, 12, RequiredPayment(10000, 12, 24))
	require.True(t, ok)
	assert.Equal(t, 24, months)
	assert.Len(t, AmortizationSchedule(10000, 12, RequiredPayment(10000, 12, 24), jan2025), 24)
	assert.False(t, math.IsNaN(RequiredPayment(1, 1000, 1)))
}

func TestMonthsToPayoff_NeverNegative(t *testing.T) {
	inputs := [][3]float64{
		{1000, 1e-15, 100},
		{1000, 1e-300, 100},
		{1e9, 0, 1e-12},
		{math.MaxFloat64, 0, 1},
		{1e9, 1e-10, 1e-3},
	}

	for _, in := range inputs {
		months, ok := MonthsToPayoff(in[0], in[1], in[2])
		assert.GreaterOrEqual(t, months, 0, "%v", in)
		if ok {
			assert.LessOrEqual(t, months, MaxPayoffMonths, "%v", in)
			date, _ := PayoffDate(in[0], in[1], in[2], jan2025)
			assert.False(t, date.Before(jan2025), "%v gave %s", in, date)
		}
	}
}

func TestEngine_NonFiniteInputs(t *testing.T) {
	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		assert.NotPanics(t, func() {
			assert.Empty(t, AmortizationSchedule(v, 5, 100, jan2025))
			assert.Empty(t, AmortizationSchedule(1000, v, 100, jan2025))
			assert.Empty(t, AmortizationSchedule(1000, 5, v, jan2025))
			assert.Equal(t, 0.0, TotalInterest(v, 5, 100))
			assert.Empty(t, MonthlyBreakdown(1000, 5, v, 12, jan2025))
			assert.Equal(t, 0.0, RequiredPayment(v, 5, 12))
			Round2(v)
		})
	}
}

func TestAmortizationSchedule_FinalRowWithinTolerance(t *testing.T) {
	// el residuo de medio céntimo se cobra en la última cuota
	schedule := AmortizationSchedule(100.005, 0, 100, jan2025)
	require.Len(t, schedule, 1)
	assert.Equal(t, 100.01, schedule[0].Payment)
	assert.Equal(t, 100.01, schedule[0].Principal)
	assert.Equal(t, 0.0, schedule[0].Balance)

	// cuota final exacta sin tolerancia
	schedule = AmortizationSchedule(1000, 0, 300, jan2025)
	require.Len(t, schedule, 4)
	last := schedule[3]
	assert.Equal(t, 100.0, last.Payment)
	assert.Equal(t, 0.0, last.Balance)
	for _, row := range schedule[:3] {
		assert.Equal(t, 300.0, row.Payment)
	}
}
