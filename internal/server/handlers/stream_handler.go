package handlers

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/freightledger/internal/domain/models"
	"github.com/mamadbah2/freightledger/internal/live"
)

// ViewWatcher streams recomputed live views.
type ViewWatcher interface {
	Watch(ctx context.Context) <-chan live.Views
}

// StreamHandler pushes live views to browsers as server-sent events.
type StreamHandler struct {
	views  ViewWatcher
	logger *zap.Logger
}

// NewStreamHandler constructs the SSE adapter.
func NewStreamHandler(views ViewWatcher, logger *zap.Logger) *StreamHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamHandler{views: views, logger: logger}
}

// Stream emits one "views" event per recomputation until the client leaves.
// The list filter (startDate, endDate, paidStatus, sortOrder), month and year
// query parameters select this connection's projections; without them the
// controller's defaults are streamed.
func (h *StreamHandler) Stream(c *gin.Context) {
	sel, ok := selectionQuery(c)
	if !ok {
		return
	}

	updates := h.views.Watch(c.Request.Context())
	h.logger.Debug("stream client connected", zap.String("client_ip", c.ClientIP()))

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(io.Writer) bool {
		v, ok := <-updates
		if !ok {
			return false
		}
		c.SSEvent("views", v.Select(sel))
		return true
	})

	h.logger.Debug("stream client disconnected", zap.String("client_ip", c.ClientIP()))
}

var filterKeys = []string{"startDate", "endDate", "paidStatus", "sortOrder"}

func selectionQuery(c *gin.Context) (live.Selection, bool) {
	var sel live.Selection
	for _, key := range filterKeys {
		if _, present := c.GetQuery(key); present {
			f := models.ParseFilter(c.Query("startDate"), c.Query("endDate"), c.Query("paidStatus"), c.Query("sortOrder"))
			sel.Filter = &f
			break
		}
	}

	month, ok := monthQuery(c)
	if !ok {
		return sel, false
	}
	year, ok := yearQuery(c)
	if !ok {
		return sel, false
	}
	sel.Month, sel.Year = month, year
	return sel, true
}
