package domain

import "time"

type LiabilityKind string

const (
	KindLoan       LiabilityKind = "loan"
	KindMortgage   LiabilityKind = "mortgage"
	KindCreditCard LiabilityKind = "credit_card"
	KindOther      LiabilityKind = "other"
)

type Liability struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Kind           LiabilityKind `json:"kind"`
	CurrentBalance float64       `json:"currentBalance"`
	InterestRate   float64       `json:"interestRate"`
	MinimumPayment float64       `json:"minimumPayment,omitempty"`
	TermMonths     int           `json:"termMonths,omitempty"`
	StartDate      time.Time     `json:"startDate"`
}

type TransactionKind string

const (
	TransactionPayment  TransactionKind = "payment"
	TransactionInterest TransactionKind = "interest"
	TransactionCharge   TransactionKind = "charge"
)

type Transaction struct {
	ID          string          `json:"id"`
	LiabilityID string          `json:"liabilityId"`
	Date        time.Time       `json:"date"`
	Amount      float64         `json:"amount"`
	Kind        TransactionKind `json:"kind"`
}

// EnhancedProjection folds a liability's transaction history into its
// payoff projection.
type EnhancedProjection struct {
	Liability             Liability   `json:"liability"`
	Planned               Projection  `json:"planned"`
	ActualPace            *Projection `json:"actualPace,omitempty"`
	PaymentsToDate        float64     `json:"paymentsToDate"`
	InterestChargedToDate float64     `json:"interestChargedToDate"`
	AverageMonthlyPayment float64     `json:"averageMonthlyPayment"`
	TermEndDate           *string     `json:"termEndDate,omitempty"`
	OnTrack               *bool       `json:"onTrack,omitempty"`
	Explanation           string      `json:"explanation,omitempty"`
}
