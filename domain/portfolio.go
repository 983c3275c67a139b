package domain

type PortfolioDebt struct {
	Name           string  `json:"name"`
	Balance        float64 `json:"balance"`
	InterestRate   float64 `json:"interestRate"`
	MonthlyPayment float64 `json:"monthlyPayment"`
}

type PortfolioInput struct {
	Debts     []PortfolioDebt `json:"debts"`
	Strategy  string          `json:"strategy"` // "snowball", "avalanche"
	StartDate string          `json:"startDate,omitempty"`
}

type DebtPayoff struct {
	Name           string            `json:"name"`
	Priority       int               `json:"priority"`
	Balance        float64           `json:"balance"`
	InterestRate   float64           `json:"interestRate"`
	MonthlyPayment float64           `json:"monthlyPayment"`
	PayoffDate     *string           `json:"payoffDate"`
	MonthsToPayoff int               `json:"monthsToPayoff"`
	TotalInterest  float64           `json:"totalInterest"`
	Validation     PaymentValidation `json:"validation"`
}

type PortfolioResult struct {
	Strategy           string       `json:"strategy"`
	TotalDebt          float64      `json:"totalDebt"`
	TotalMonthlyOutlay float64      `json:"totalMonthlyOutlay"`
	TotalInterest      float64      `json:"totalInterest"`
	DebtFreeDate       *string      `json:"debtFreeDate"`
	Debts              []DebtPayoff `json:"debts"`
	Explanation        string       `json:"explanation,omitempty"`
}
