package domain

// MonthlyEntry is one row of an amortization ledger.
type MonthlyEntry struct {
	Month     int     `json:"month"`
	Date      string  `json:"date"`
	Payment   float64 `json:"payment"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}

type PaymentValidation struct {
	IsValid bool   `json:"isValid"`
	Message string `json:"message,omitempty"`
}

type ProjectionInput struct {
	CurrentBalance float64 `json:"currentBalance"`
	InterestRate   float64 `json:"interestRate"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	StartDate      string  `json:"startDate,omitempty"` // YYYY-MM-DD, defaults to today
	Months         int     `json:"months,omitempty"`    // 0 returns the whole schedule
}

type Projection struct {
	CurrentBalance      float64           `json:"currentBalance"`
	InterestRate        float64           `json:"interestRate"`
	ProjectedPayoffDate *string           `json:"projectedPayoffDate"`
	MonthsToPayoff      int               `json:"monthsToPayoff"`
	TotalInterestToPay  float64           `json:"totalInterestToPay"`
	MonthlyPayment      float64           `json:"monthlyPayment"`
	PayoffReached       bool              `json:"payoffReached"`
	Validation          PaymentValidation `json:"validation"`
	Schedule            []MonthlyEntry    `json:"schedule"`
}
