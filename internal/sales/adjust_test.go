package sales

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adjustment(kind Kind, name, amount string) SaleRecord {
	return SaleRecord{Kind: kind, ProductName: name, AdjustmentAmount: decimal.RequireFromString(amount)}
}

// threeApples folds to quantity 3 and total 60.
func threeApples() *Ledger {
	return Fold([]SaleRecord{sale("apple", 1, 10), sale("apple", 1, 10), sale("apple", 1, 10)})
}

func TestApplyAdjustmentsOperations(t *testing.T) {
	tests := []struct {
		name string
		adj  SaleRecord
		want string
	}{
		{"add", adjustment(KindAdd, "apple", "5"), "75"},
		{"subtract", adjustment(KindSubtract, "apple", "5"), "45"},
		{"multiply", adjustment(KindMultiply, "apple", "2"), "120"},
		{"multiply fraction", adjustment(KindMultiply, "apple", "0.5"), "30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := threeApples()
			steps := ApplyAdjustments(l, []SaleRecord{tt.adj})

			require.Len(t, steps, 1)
			assert.Equal(t, "60", steps[0].Before.TotalPrice.String())
			assert.Equal(t, tt.want, steps[0].After.TotalPrice.String())
			assert.Equal(t, tt.want, l.TotalSalesOf("apple").String())
			assert.Equal(t, 3, l.QuantityOf("apple"), "adjustments never change quantity")
		})
	}
}

func TestApplyAdjustmentsCompoundInOrder(t *testing.T) {
	l := threeApples()
	steps := ApplyAdjustments(l, []SaleRecord{
		adjustment(KindAdd, "apple", "1"),
		adjustment(KindMultiply, "apple", "2"),
	})

	require.Len(t, steps, 2)
	assert.Equal(t, "63", steps[0].After.TotalPrice.String())
	assert.Equal(t, "63", steps[1].Before.TotalPrice.String())
	assert.Equal(t, "126", l.TotalSalesOf("apple").String())
}

func TestApplyAdjustmentsSkipsUnmatched(t *testing.T) {
	l := threeApples()
	steps := ApplyAdjustments(l, []SaleRecord{
		adjustment(KindAdd, "", "1"),
		adjustment(KindAdd, "kiwi", "1"),
		adjustment(KindAdd, "apples", "1"),
		{Kind: KindRecord, ProductName: "apple", AdjustmentAmount: decimal.NewFromInt(1)},
	})

	assert.Empty(t, steps)
	assert.Equal(t, "60", l.TotalSalesOf("apple").String())
}

func TestApplyMultiplyZeroQuantityIsNoop(t *testing.T) {
	l := &Ledger{entries: map[string]*LedgerEntry{
		"apple": {Name: "apple", Quantity: 0, TotalPrice: decimal.NewFromInt(40)},
	}}

	steps := ApplyAdjustments(l, []SaleRecord{adjustment(KindMultiply, "apple", "3")})

	require.Len(t, steps, 1)
	assert.Equal(t, "40", steps[0].After.TotalPrice.String())
	assert.Equal(t, "40", l.TotalSalesOf("apple").String())
}
