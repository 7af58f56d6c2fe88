// Package service holds pure domain services with no I/O.
package service

import (
	"github.com/shopspring/decimal"

	"github.com/cashlens/cashlens/internal/domain/model"
	"github.com/cashlens/cashlens/pkg/money"
)

// CategoryFlags is the pair of user-assigned classification flags for one
// account, keyed by provider account id in classifier input.
type CategoryFlags struct {
	Inflow  bool
	Outflow bool
}

// CashflowTotals is the classifier output, rounded to cent precision.
type CashflowTotals struct {
	TotalInflow  decimal.Decimal
	TotalOutflow decimal.Decimal
}

// ClassifyCashflow computes total inflow and outflow for a batch of
// transactions given the category flags of their owning accounts.
//
// Transactions whose account is absent from the flags map belong to accounts
// outside the current scope and are ignored. A positive amount on an
// inflow-flagged account counts as inflow. A negative amount counts as
// outflow when the account is flagged outflow — or flagged inflow, since
// money leaving an inflow-designated account is still money spent. The two
// buckets depend on disjoint amount signs, so one transaction contributes to
// at most one of them.
//
// Sums are accumulated at full precision and rounded once at the end.
func ClassifyCashflow(txns []model.Transaction, flags map[string]CategoryFlags) CashflowTotals {
	inflow := decimal.Zero
	outflow := decimal.Zero

	for _, txn := range txns {
		f, ok := flags[txn.ProviderAccountID]
		if !ok {
			continue
		}

		switch {
		case f.Inflow && txn.Amount.IsPositive():
			inflow = inflow.Add(txn.Amount)
		case (f.Outflow || f.Inflow) && txn.Amount.IsNegative():
			outflow = outflow.Add(txn.Amount.Abs())
		}
	}

	return CashflowTotals{
		TotalInflow:  money.RoundCents(inflow),
		TotalOutflow: money.RoundCents(outflow),
	}
}
