package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sales_messages/api"
	"sales_messages/internal/config"
	"sales_messages/internal/metrics"
	"sales_messages/internal/sales"
)

func InitRoutesTests(t *testing.T, ceiling int) (*gin.Engine, *sales.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	settings := sales.SettingsFrom(config.Default())
	settings.PauseCeiling = ceiling
	rec := metrics.NewRecorder()
	svc := sales.NewService(sales.NewLocalStorage(), zaptest.NewLogger(t), settings,
		sales.WithReportWriter(io.Discard), sales.WithObserver(rec))

	return api.NewRouter(svc, rec.Handler(), zaptest.NewLogger(t)), svc
}

func postMessage(t *testing.T, router *gin.Engine, message string) *httptest.ResponseRecorder {
	t.Helper()
	bodyBytes, err := json.Marshal(map[string]string{"message": message})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestMessagesHappyPath_FullFlow covers POST /messages -> GET /products -> GET /stats.
func TestMessagesHappyPath_FullFlow(t *testing.T) {
	router, svc := InitRoutesTests(t, 50)

	t.Run("POST_Messages", func(t *testing.T) {
		for _, line := range []string{"5 apples $2.", "3 apples $2.", "Add apples $1."} {
			w := postMessage(t, router, line)
			assert.Equal(t, http.StatusAccepted, w.Code, "Expected HTTP 202 for %q", line)
		}

		w := postMessage(t, router, "2 oranges at 15p")
		require.Equal(t, http.StatusAccepted, w.Code)

		var created map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.NotEmpty(t, created["id"], "Expected record ID to be generated")
		assert.Equal(t, "Record", created["kind"])
		assert.Equal(t, "orange", created["product_name"])
		assert.Equal(t, float64(2), created["quantity"])
		assert.Equal(t, "15", created["unit_price"])
	})

	t.Run("GET_Product", func(t *testing.T) {
		w := get(router, "/products/apple")
		require.Equal(t, http.StatusOK, w.Code)

		var product struct {
			Name       string `json:"name"`
			Quantity   int    `json:"quantity"`
			TotalSales string `json:"total_sales"`
			Display    string `json:"display"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &product))
		assert.Equal(t, "apple", product.Name)
		assert.Equal(t, 8, product.Quantity)
		assert.Equal(t, "26", product.TotalSales)
		assert.Equal(t, "£0.26", product.Display)
	})

	t.Run("GET_Products", func(t *testing.T) {
		w := get(router, "/products")
		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Results []struct {
				Name string `json:"name"`
			} `json:"results"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Results, 2)
		assert.Equal(t, "apple", response.Results[0].Name)
		assert.Equal(t, "orange", response.Results[1].Name)
	})

	t.Run("GET_Stats", func(t *testing.T) {
		w := get(router, "/stats")
		require.Equal(t, http.StatusOK, w.Code)

		var stats api.StatsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
		assert.Equal(t, api.StatsResponse{MessageCount: 4, AdjustmentCount: 1, Paused: false}, stats)
		assert.Equal(t, svc.MessageCount(), stats.MessageCount)
	})

	t.Run("GET_Report", func(t *testing.T) {
		w := get(router, "/report")
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
		assert.Contains(t, w.Body.String(), "|apple")
		assert.Contains(t, w.Body.String(), "£0.26")
	})

	t.Run("GET_Metrics", func(t *testing.T) {
		w := get(router, "/metrics")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `sales_messages_accepted_total{kind="Record"} 3`)
	})
}

func TestPostMessageRejected(t *testing.T) {
	router, svc := InitRoutesTests(t, 50)

	w := postMessage(t, router, "2 kiwis at 3p each")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "no_keyword", body["reason"])
	assert.Zero(t, svc.MessageCount())
}

func TestPostMessageInvalidBody(t *testing.T) {
	router, _ := InitRoutesTests(t, 50)

	req := httptest.NewRequest(http.MethodPost, "/messages", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProductNotFound(t *testing.T) {
	router, _ := InitRoutesTests(t, 50)

	w := get(router, "/products/kiwi")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsReportsPause(t *testing.T) {
	router, _ := InitRoutesTests(t, 2)

	postMessage(t, router, "1 mangos at 5p")
	postMessage(t, router, "Multiply mangos 2x")

	var stats api.StatsResponse
	w := get(router, "/stats")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.True(t, stats.Paused)
	assert.Equal(t, 2, stats.MessageCount)
}

func TestPing(t *testing.T) {
	router, _ := InitRoutesTests(t, 50)

	w := get(router, "/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}
