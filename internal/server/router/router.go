package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/freightledger/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted by the router. Metrics is optional.
type Handlers struct {
	Records *handlers.RecordsHandler
	Reports *handlers.ReportsHandler
	Stream  *handlers.StreamHandler
	Notify  *handlers.NotifyHandler
	Metrics http.Handler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics))
	}

	records := r.Group("/records")
	records.GET("", h.Records.List)
	records.POST("", h.Records.Create)
	records.GET("/:id", h.Records.Get)
	records.PUT("/:id", h.Records.Update)
	records.DELETE("/:id", h.Records.Delete)

	reports := r.Group("/reports")
	reports.GET("/monthly", h.Reports.Monthly)
	reports.GET("/yearly", h.Reports.Yearly)
	reports.GET("/unpaid", h.Reports.Unpaid)
	reports.GET("/trend", h.Reports.Trend)
	reports.GET("/stream", h.Stream.Stream)

	r.POST("/notify/send", h.Notify.SendMessage)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
