package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/freightledger/internal/config"
	"github.com/mamadbah2/freightledger/internal/domain/models"
	client "github.com/mamadbah2/freightledger/pkg/clients/whatsapp"
)

var (
	// ErrDisabled is returned when no WhatsApp credentials are configured.
	ErrDisabled = errors.New("notifications disabled")
	// ErrNoRecipient is returned when a report has nowhere to go.
	ErrNoRecipient = errors.New("report recipient not configured")
)

const sendTimeout = 10 * time.Second

// Notifier pushes text messages to operators.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessage) error
	SendReport(ctx context.Context, text string) error
}

// WhatsAppNotifier sends messages through the WhatsApp Cloud API.
type WhatsAppNotifier struct {
	recipient string
	client    client.Client
	logger    *zap.Logger
}

// NewWhatsAppNotifier wires a notifier. A nil client yields a notifier that
// rejects every send with ErrDisabled.
func NewWhatsAppNotifier(cfg config.WhatsAppConfig, c client.Client, logger *zap.Logger) *WhatsAppNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsAppNotifier{
		recipient: cfg.ReportRecipient,
		client:    c,
		logger:    logger,
	}
}

// SendOutbound lets operators push quick notifications via HTTP.
func (n *WhatsAppNotifier) SendOutbound(ctx context.Context, req models.OutboundMessage) error {
	if n.client == nil {
		return ErrDisabled
	}
	req, err := req.Normalize()
	if err != nil {
		return err
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, err := n.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         req.To,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	if err != nil {
		return fmt.Errorf("send message to %s: %w", req.To, err)
	}

	n.logger.Info("message sent", zap.String("to", req.To), zap.String("message_id", resp.MessageID()))
	return nil
}

// SendReport delivers a rendered report to the configured recipient.
func (n *WhatsAppNotifier) SendReport(ctx context.Context, text string) error {
	if n.recipient == "" {
		return ErrNoRecipient
	}
	return n.SendOutbound(ctx, models.OutboundMessage{To: n.recipient, Message: text})
}
