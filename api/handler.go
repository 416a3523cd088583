package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_messages/internal/sales"
)

// salesHandler holds the sales service and implements HTTP handlers for it.
type salesHandler struct {
	salesService *sales.Service
	logger       *zap.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesService *sales.Service, logger *zap.Logger) *salesHandler {
	return &salesHandler{
		salesService: salesService,
		logger:       logger,
	}
}

// ProductResponse is the JSON view of a ledger entry.
type ProductResponse struct {
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	TotalSales string `json:"total_sales"`
	Display    string `json:"display"`
}

func toProductResponse(e sales.LedgerEntry) ProductResponse {
	return ProductResponse{
		Name:       e.Name,
		Quantity:   e.Quantity,
		TotalSales: e.TotalPrice.String(),
		Display:    sales.FormatTotal(e.TotalPrice),
	}
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	MessageCount    int  `json:"message_count"`
	AdjustmentCount int  `json:"adjustment_count"`
	Paused          bool `json:"paused"`
}

// handleCreateMessage handles the POST /messages endpoint.
func (h *salesHandler) handleCreateMessage(ctx *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	rec, err := h.salesService.Receive(req.Message)
	if err != nil {
		if sales.IsRejected(err) {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "reason": sales.RejectReason(err)})
			return
		}
		h.logger.Error("failed to record message", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record message"})
		return
	}

	ctx.JSON(http.StatusAccepted, rec)
}

func (h *salesHandler) handleGetProduct(ctx *gin.Context) {
	name := ctx.Param("name")

	entry, ok := h.salesService.Product(name)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	ctx.JSON(http.StatusOK, toProductResponse(entry))
}

func (h *salesHandler) handleListProducts(ctx *gin.Context) {
	entries := h.salesService.Snapshot()
	results := make([]ProductResponse, 0, len(entries))
	for _, e := range entries {
		results = append(results, toProductResponse(e))
	}
	ctx.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *salesHandler) handleStats(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, StatsResponse{
		MessageCount:    h.salesService.MessageCount(),
		AdjustmentCount: h.salesService.AdjustmentCount(),
		Paused:          h.salesService.Paused(),
	})
}

// handleReport renders the current ledger as the plain-text report table.
func (h *salesHandler) handleReport(ctx *gin.Context) {
	ctx.Header("Content-Type", "text/plain; charset=utf-8")
	ctx.Status(http.StatusOK)
	if err := sales.WriteTable(ctx.Writer, h.salesService.Snapshot()); err != nil {
		h.logger.Error("failed to write report", zap.Error(err))
		_ = ctx.Error(err)
	}
}
