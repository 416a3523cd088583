package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_messages/internal/sales"
)

// InitRoutes registers the message and query endpoints on the given Gin
// engine. metrics may be nil, in which case /metrics is not served.
func InitRoutes(e *gin.Engine, salesService *sales.Service, metrics http.Handler, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	salesHandler := NewSalesHandler(salesService, logger)

	e.POST("/messages", salesHandler.handleCreateMessage)
	e.GET("/products", salesHandler.handleListProducts)
	e.GET("/products/:name", salesHandler.handleGetProduct)
	e.GET("/stats", salesHandler.handleStats)
	e.GET("/report", salesHandler.handleReport)

	if metrics != nil {
		e.GET("/metrics", gin.WrapH(metrics))
	}

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}

// NewRouter returns a Gin engine with recovery and request logging through logger.
func NewRouter(salesService *sales.Service, metrics http.Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	InitRoutes(r, salesService, metrics, logger)
	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Int("bytes", c.Writer.Size()),
		)
	}
}
