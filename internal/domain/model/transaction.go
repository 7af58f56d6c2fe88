package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an ephemeral provider transaction. It is never persisted;
// it exists only while a cash-flow request is being computed.
//
// Amount is signed: positive means a credit/deposit into the account,
// negative means a debit/withdrawal. Provider sign conventions are normalized
// to this at the adapter boundary.
type Transaction struct {
	ProviderTransactionID string
	ProviderAccountID     string
	Amount                decimal.Decimal
	Date                  time.Time
	Name                  string
}
