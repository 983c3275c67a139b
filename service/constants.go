package service

import "time"

const (
	MaxBalance          = 1_000_000_000.0 // 1 billón
	MaxInterestRate     = 1000.0          // 1000% anual
	MinPayment          = 0.01            // un céntimo
	MaxTermMonths       = 600             // 50 años
	MaxDebtsPerRequest  = 50              // máximo de deudas por request
	RecentPaymentMonths = 3               // meses usados para el ritmo real de pago
	DefaultCacheTTL     = 10 * time.Minute
)
