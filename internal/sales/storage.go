package sales

import "errors"

// ErrEmptyID is returned when trying to store a record with an empty ID.
var ErrEmptyID = errors.New("empty record ID")

// Storage holds the message history and the adjustment queue. Both are
// append-only. Implementations need not be safe for concurrent use; the
// Service serializes access.
type Storage interface {
	// Append adds rec to the history, and to the adjustment queue when it is an adjustment.
	Append(rec SaleRecord) error
	// Records returns the history in arrival order.
	Records() []SaleRecord
	// Adjustments returns the adjustment queue in arrival order.
	Adjustments() []SaleRecord
	MessageCount() int
	AdjustmentCount() int
}

// LocalStorage keeps the history in memory for the lifetime of the process.
type LocalStorage struct {
	history     []SaleRecord
	adjustments []SaleRecord
}

// NewLocalStorage instantiates an empty LocalStorage.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{}
}

// Returns ErrEmptyID if the record has an empty ID.
func (l *LocalStorage) Append(rec SaleRecord) error {
	if rec.ID == "" {
		return ErrEmptyID
	}
	l.history = append(l.history, rec)
	if rec.Kind.IsAdjustment() {
		l.adjustments = append(l.adjustments, rec)
	}
	return nil
}

// Records returns a copy of the history.
func (l *LocalStorage) Records() []SaleRecord {
	return append([]SaleRecord(nil), l.history...)
}

// Adjustments returns a copy of the adjustment queue.
func (l *LocalStorage) Adjustments() []SaleRecord {
	return append([]SaleRecord(nil), l.adjustments...)
}

func (l *LocalStorage) MessageCount() int {
	return len(l.history)
}

func (l *LocalStorage) AdjustmentCount() int {
	return len(l.adjustments)
}
