package sales

import "github.com/shopspring/decimal"

// AdjustmentStep records one adjustment applied to a ledger entry.
type AdjustmentStep struct {
	Adjustment SaleRecord
	Before     LedgerEntry
	After      LedgerEntry
}

// ApplyAdjustments applies queue, in order, to l and returns one step per
// adjustment that matched an entry. Adjustments without a product name or
// without a matching entry are skipped. Adjustments to the same product
// compound.
func ApplyAdjustments(l *Ledger, queue []SaleRecord) []AdjustmentStep {
	var steps []AdjustmentStep
	for _, adj := range queue {
		if !adj.Kind.IsAdjustment() || adj.ProductName == "" {
			continue
		}
		e, ok := l.entries[adj.ProductName]
		if !ok {
			continue
		}
		before := *e
		applyAdjustment(e, adj)
		steps = append(steps, AdjustmentStep{Adjustment: adj, Before: before, After: *e})
	}
	return steps
}

func applyAdjustment(e *LedgerEntry, adj SaleRecord) {
	qty := decimal.NewFromInt(int64(e.Quantity))
	switch adj.Kind {
	case KindAdd:
		e.TotalPrice = e.TotalPrice.Add(qty.Mul(adj.AdjustmentAmount))
	case KindSubtract:
		e.TotalPrice = e.TotalPrice.Sub(qty.Mul(adj.AdjustmentAmount))
	case KindMultiply:
		// Rescales the average unit price: q * ((total / q) * amount).
		// The quantities cancel, which keeps the result exact.
		if e.Quantity == 0 {
			return
		}
		e.TotalPrice = e.TotalPrice.Mul(adj.AdjustmentAmount)
	}
}
