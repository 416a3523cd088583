package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags what a classified message line represents.
type Kind int

const (
	KindUnknown Kind = iota
	// KindAdd, KindSubtract and KindMultiply are price adjustments.
	KindAdd
	KindSubtract
	KindMultiply
	// KindRecord is a sale event carrying quantity, product and unit price.
	KindRecord
	// KindLog is a valid message that is neither a sale nor an adjustment.
	KindLog
	// KindProcess is never produced by Classify; it stays representable for callers
	// building records by hand.
	KindProcess
)

var kindNames = map[Kind]string{
	KindUnknown:  "Unknown",
	KindAdd:      "Add",
	KindSubtract: "Subtract",
	KindMultiply: "Multiply",
	KindRecord:   "Record",
	KindLog:      "Log",
	KindProcess:  "Process",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// IsAdjustment reports whether k is one of the three adjustment operations.
func (k Kind) IsAdjustment() bool {
	return k == KindAdd || k == KindSubtract || k == KindMultiply
}

// MarshalText lets Kind render by name in JSON payloads.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// SaleRecord is one accepted message line. It is not modified after Classify returns it.
type SaleRecord struct {
	ID               string          `json:"id"`
	Kind             Kind            `json:"kind"`
	ProductName      string          `json:"product_name"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Quantity         int             `json:"quantity"`
	AdjustmentAmount decimal.Decimal `json:"adjustment_amount"`
	Raw              string          `json:"raw"`
	ReceivedAt       time.Time       `json:"received_at"`
}

// LedgerEntry is the running aggregate for one product name.
type LedgerEntry struct {
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}
