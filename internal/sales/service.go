package sales

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sales_messages/internal/config"
)

// Report types passed to Observer.ReportEmitted.
const (
	ReportPeriodic   = "periodic"
	ReportAdjustment = "adjustment"
)

// Observer is notified of ingestion events. Calls happen while the Service
// lock is held, so implementations must not call back into the Service.
type Observer interface {
	MessageAccepted(kind Kind)
	MessageRejected(reason string)
	ReportEmitted(report string)
	Paused()
}

type nopObserver struct{}

func (nopObserver) MessageAccepted(Kind)   {}
func (nopObserver) MessageRejected(string) {}
func (nopObserver) ReportEmitted(string)   {}
func (nopObserver) Paused()                {}

// Settings are the thresholds and grammar knobs of a Service.
type Settings struct {
	Period       int
	PauseCeiling int
	Classifier   ClassifierOptions
}

// SettingsFrom maps the service configuration onto Settings.
func SettingsFrom(cfg config.Config) Settings {
	return Settings{
		Period:       cfg.Report.Period,
		PauseCeiling: cfg.Report.PauseCeiling,
		Classifier: ClassifierOptions{
			MinLength:       cfg.Message.MinLength,
			Keywords:        cfg.Message.Keywords,
			CurrencySymbols: cfg.Message.CurrencySymbols,
		},
	}
}

// Option customizes a Service.
type Option func(*Service)

// WithReportWriter sends reports to w instead of stdout.
func WithReportWriter(w io.Writer) Option {
	return func(s *Service) { s.out = w }
}

// WithObserver registers o for ingestion events.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithClock overrides the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service ingests message lines, keeps the history and drives reporting.
// All methods are safe for concurrent use; ingestion of one line is atomic.
type Service struct {
	mu         sync.RWMutex
	storage    Storage
	classifier *Classifier
	logger     *zap.Logger
	settings   Settings
	paused     bool

	out      io.Writer
	observer Observer
	now      func() time.Time
}

// NewService creates a new Service.
func NewService(storage Storage, logger *zap.Logger, settings Settings, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if storage == nil {
		storage = NewLocalStorage()
	}
	s := &Service{
		storage:    storage,
		classifier: NewClassifier(settings.Classifier),
		logger:     logger,
		settings:   settings,
		out:        os.Stdout,
		observer:   nopObserver{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Receive classifies line and, if accepted, records it and runs the
// threshold checks. Rejected lines leave the Service untouched and return an
// error for which IsRejected is true.
func (s *Service) Receive(line string) (SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Debug("message received", zap.String("message", line))

	rec, err := s.classifier.Classify(line)
	if err != nil {
		s.logger.Warn("message rejected", zap.String("message", line), zap.Error(err))
		s.observer.MessageRejected(RejectReason(err))
		return SaleRecord{}, err
	}

	rec.ID = uuid.NewString()
	rec.ReceivedAt = s.now()
	if err := s.storage.Append(rec); err != nil {
		s.logger.Error("failed to record message", zap.String("record_id", rec.ID), zap.Error(err))
		return SaleRecord{}, fmt.Errorf("failed to record message: %w", err)
	}
	s.observer.MessageAccepted(rec.Kind)

	s.logger.Info("message recorded",
		zap.String("record_id", rec.ID),
		zap.Stringer("kind", rec.Kind),
		zap.String("product", rec.ProductName),
		zap.Int("quantity", rec.Quantity),
		zap.Stringer("unit_price", rec.UnitPrice),
		zap.Stringer("adjustment_amount", rec.AdjustmentAmount),
		zap.Int("message_count", s.storage.MessageCount()),
	)

	s.checkThresholds()
	return rec, nil
}

// HandleLine is Receive without results, for transports that only deliver lines.
func (s *Service) HandleLine(line string) {
	_, _ = s.Receive(line)
}

// checkThresholds must be called with s.mu held.
func (s *Service) checkThresholds() {
	n := s.storage.MessageCount()

	if s.settings.Period > 0 && n%s.settings.Period == 0 && !s.paused {
		entries := Fold(s.storage.Records()).Entries()
		if err := WritePeriodicReport(s.out, s.settings.Period, entries); err != nil {
			s.logger.Error("failed to write periodic report", zap.Error(err))
		}
		s.observer.ReportEmitted(ReportPeriodic)
	}

	if n == s.settings.PauseCeiling && !s.paused {
		s.pause()
		s.replayAdjustments()
	}
}

func (s *Service) pause() {
	s.paused = true
	s.observer.Paused()
	s.logger.Info(fmt.Sprintf("Reached today quota of %d messages. Pausing", s.settings.PauseCeiling),
		zap.Int("message_count", s.storage.MessageCount()))
}

func (s *Service) replayAdjustments() {
	queue := s.storage.Adjustments()
	s.logger.Info("applying adjustments", zap.Int("adjustment_count", len(queue)))

	ledger := Fold(s.storage.Records())
	steps := ApplyAdjustments(ledger, queue)
	if err := WriteAdjustmentReport(s.out, s.settings.PauseCeiling, steps, ledger.Entries()); err != nil {
		s.logger.Error("failed to write adjustment report", zap.Error(err))
	}
	s.observer.ReportEmitted(ReportAdjustment)
}

// QuantityOf returns the total quantity sold for name.
func (s *Service) QuantityOf(name string) int {
	return s.ledger().QuantityOf(name)
}

// TotalSalesOf returns the total sales value for name, in minor units.
func (s *Service) TotalSalesOf(name string) decimal.Decimal {
	return s.ledger().TotalSalesOf(name)
}

// Product returns the ledger entry for name.
func (s *Service) Product(name string) (LedgerEntry, bool) {
	return s.ledger().Entry(name)
}

// Snapshot returns the current unadjusted ledger sorted by name.
func (s *Service) Snapshot() []LedgerEntry {
	return s.ledger().Entries()
}

// MessageCount is the number of accepted messages of any kind.
func (s *Service) MessageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.storage.MessageCount()
}

// AdjustmentCount is the number of queued adjustment messages.
func (s *Service) AdjustmentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.storage.AdjustmentCount()
}

// Paused reports whether the pause ceiling has been reached.
func (s *Service) Paused() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paused
}

func (s *Service) ledger() *Ledger {
	s.mu.RLock()
	records := s.storage.Records()
	s.mu.RUnlock()
	return Fold(records)
}
