package account

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceDelta is a signed change to one account's balance, expressed in the
// account's own currency.
type BalanceDelta struct {
	AccountID uuid.UUID
	Amount    decimal.Decimal
}

// Reverse returns deltas that exactly undo ds
func Reverse(ds []BalanceDelta) []BalanceDelta {
	out := make([]BalanceDelta, len(ds))
	for i, d := range ds {
		out[i] = BalanceDelta{AccountID: d.AccountID, Amount: d.Amount.Neg()}
	}
	return out
}

// Merge sums deltas per account and drops the ones that cancel out, keeping
// first-seen order so updates are applied deterministically.
func Merge(groups ...[]BalanceDelta) []BalanceDelta {
	sums := make(map[uuid.UUID]decimal.Decimal)
	var order []uuid.UUID
	for _, g := range groups {
		for _, d := range g {
			if _, ok := sums[d.AccountID]; !ok {
				order = append(order, d.AccountID)
				sums[d.AccountID] = decimal.Zero
			}
			sums[d.AccountID] = sums[d.AccountID].Add(d.Amount)
		}
	}
	out := make([]BalanceDelta, 0, len(order))
	for _, id := range order {
		if sums[id].IsZero() {
			continue
		}
		out = append(out, BalanceDelta{AccountID: id, Amount: sums[id]})
	}
	return out
}
