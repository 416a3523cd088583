package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sales_messages/internal/config"
	"sales_messages/internal/sales"
)

func TestRecorderCountsServiceEvents(t *testing.T) {
	rec := NewRecorder()
	settings := sales.SettingsFrom(config.Default())
	settings.Period = 2
	settings.PauseCeiling = 2
	svc := sales.NewService(sales.NewLocalStorage(), zaptest.NewLogger(t), settings,
		sales.WithReportWriter(io.Discard), sales.WithObserver(rec))

	_, _ = svc.Receive("5 apples at 10p")
	_, _ = svc.Receive("Add apples 2p")
	_, _ = svc.Receive("short")

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.accepted.WithLabelValues("Record")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.accepted.WithLabelValues("Add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.rejected.WithLabelValues("too_short")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.reports.WithLabelValues(sales.ReportPeriodic)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.reports.WithLabelValues(sales.ReportAdjustment)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.paused))
}

func TestHandlerExposesMetrics(t *testing.T) {
	rec := NewRecorder()
	rec.MessageAccepted(sales.KindLog)

	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `sales_messages_accepted_total{kind="Log"} 1`)
}
