package sales

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Ledger maps product names to their running totals. A Ledger is a snapshot
// built by Fold; it is not shared with the Service that produced it.
type Ledger struct {
	entries map[string]*LedgerEntry
}

// Fold replays records into a fresh Ledger. Only named Record-kind sales with
// a positive unit price contribute.
//
// On a repeat name the quantity is increased first and the price delta is
// taken from the increased quantity, so totals grow with cumulative quantity.
// Reports depend on this order; see DESIGN.md before changing it.
func Fold(records []SaleRecord) *Ledger {
	l := &Ledger{entries: make(map[string]*LedgerEntry)}
	for _, r := range records {
		if r.Kind != KindRecord || r.ProductName == "" || !r.UnitPrice.IsPositive() {
			continue
		}
		e, ok := l.entries[r.ProductName]
		if !ok {
			l.entries[r.ProductName] = &LedgerEntry{
				Name:       r.ProductName,
				Quantity:   r.Quantity,
				TotalPrice: r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity))),
			}
			continue
		}
		e.Quantity += r.Quantity
		e.TotalPrice = e.TotalPrice.Add(r.UnitPrice.Mul(decimal.NewFromInt(int64(e.Quantity))))
	}
	return l
}

// Entry returns a copy of the entry for name.
func (l *Ledger) Entry(name string) (LedgerEntry, bool) {
	e, ok := l.entries[name]
	if !ok {
		return LedgerEntry{}, false
	}
	return *e, true
}

// QuantityOf returns the folded quantity for name, or 0 if it has no entry.
func (l *Ledger) QuantityOf(name string) int {
	if e, ok := l.entries[name]; ok {
		return e.Quantity
	}
	return 0
}

// TotalSalesOf returns the folded total for name, or zero if it has no entry.
func (l *Ledger) TotalSalesOf(name string) decimal.Decimal {
	if e, ok := l.entries[name]; ok {
		return e.TotalPrice
	}
	return decimal.Zero
}

// Len is the number of products with an entry.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns copies of all named entries sorted by name.
func (l *Ledger) Entries() []LedgerEntry {
	out := make([]LedgerEntry, 0, len(l.entries))
	for _, e := range l.entries {
		if e.Name == "" {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
