// Package ledger merges a customer's credit sales and payments into one
// chronological feed.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	// KindSale is a credit sale; it raises what the customer owes.
	KindSale Kind = "sale"
	// KindPayment lowers what the customer owes.
	KindPayment Kind = "payment"
)

type Entry struct {
	Kind         Kind            `json:"kind"`
	SourceID     int64           `json:"source_id"`
	Reference    string          `json:"reference"`
	Amount       decimal.Decimal `json:"amount"`
	Timestamp    time.Time       `json:"timestamp"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

func (e Entry) signed() decimal.Decimal {
	if e.Kind == KindPayment {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Merge returns sales and payments as one list, newest first. Entries with
// equal timestamps keep fetch order, sales before payments. BalanceAfter is
// the running balance after each entry, accumulated oldest to newest.
func Merge(sales, payments []Entry) []Entry {
	merged := make([]Entry, 0, len(sales)+len(payments))
	for _, s := range sales {
		s.Kind = KindSale
		merged = append(merged, s)
	}
	for _, p := range payments {
		p.Kind = KindPayment
		merged = append(merged, p)
	}

	// Oldest first, stable, to accumulate the running balance.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.Before(merged[j].Timestamp)
	})
	running := decimal.Zero
	for i := range merged {
		running = running.Add(merged[i].signed())
		merged[i].BalanceAfter = running
	}

	// Equal timestamps keep their relative order.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})
	return merged
}

// Balance is the amount owed implied by the entries: debits minus credits.
func Balance(entries []Entry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.signed())
	}
	return sum
}
