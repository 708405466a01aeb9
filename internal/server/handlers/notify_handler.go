package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/freightledger/internal/domain/models"
	"github.com/mamadbah2/freightledger/internal/service/notify"
)

// NotifyHandler handles manual outbound WhatsApp messages.
type NotifyHandler struct {
	svc    notify.Notifier
	logger *zap.Logger
}

// NewNotifyHandler constructs the notification HTTP adapter.
func NewNotifyHandler(svc notify.Notifier, logger *zap.Logger) *NotifyHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotifyHandler{svc: svc, logger: logger}
}

// SendMessage allows sending manual notifications.
func (h *NotifyHandler) SendMessage(c *gin.Context) {
	var req models.OutboundMessage
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid outbound payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.svc.SendOutbound(c.Request.Context(), req); err != nil {
		var fieldErr *models.FieldError
		switch {
		case errors.Is(err, notify.ErrDisabled):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "notifications are not configured"})
			return
		case errors.As(err, &fieldErr):
			c.JSON(http.StatusBadRequest, gin.H{"error": fieldErr.Error(), "field": fieldErr.Field})
			return
		}
		h.logger.Error("failed sending outbound", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send message"})
		return
	}

	c.Status(http.StatusAccepted)
}
