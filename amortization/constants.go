package amortization

const (
	MaxScheduleMonths = 360    // 30 años
	MaxPayoffMonths   = 12_000 // 1000 años; más allá se considera impagable
	BalanceTolerance  = 0.01   // residuo considerado saldado
	DateLayout        = "2006-01-02"
	monthsPerYear     = 12.0
	percent           = 100.0
)
