package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/freightledger/internal/config"
	"github.com/mamadbah2/freightledger/internal/domain/models"
	client "github.com/mamadbah2/freightledger/pkg/clients/whatsapp"
)

type fakeClient struct {
	sent []client.SendTextMessageRequest
	err  error
}

func (f *fakeClient) SendTextMessage(_ context.Context, req client.SendTextMessageRequest) (*client.SendTextMessageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, req)
	return &client.SendTextMessageResponse{}, nil
}

func TestSendReportGoesToRecipient(t *testing.T) {
	fc := &fakeClient{}
	n := NewWhatsAppNotifier(config.WhatsAppConfig{ReportRecipient: "821099998888"}, fc, nil)

	require.NoError(t, n.SendReport(context.Background(), "All transactions are paid."))
	require.Len(t, fc.sent, 1)
	assert.Equal(t, "821099998888", fc.sent[0].To)
	assert.Equal(t, "All transactions are paid.", fc.sent[0].Body)
}

func TestSendReportWithoutRecipient(t *testing.T) {
	n := NewWhatsAppNotifier(config.WhatsAppConfig{}, &fakeClient{}, nil)
	assert.ErrorIs(t, n.SendReport(context.Background(), "x"), ErrNoRecipient)
}

func TestSendOutboundDisabled(t *testing.T) {
	n := NewWhatsAppNotifier(config.WhatsAppConfig{ReportRecipient: "1"}, nil, nil)
	err := n.SendOutbound(context.Background(), models.OutboundMessage{To: "1", Message: "x"})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestSendOutboundWrapsClientErrors(t *testing.T) {
	boom := &client.APIError{Status: 401, Code: 190, Message: "expired"}
	n := NewWhatsAppNotifier(config.WhatsAppConfig{}, &fakeClient{err: boom}, nil)

	err := n.SendOutbound(context.Background(), models.OutboundMessage{To: "1", Message: "x"})
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 190, apiErr.Code)
}

func TestSendOutboundNormalizesRecipient(t *testing.T) {
	fc := &fakeClient{}
	n := NewWhatsAppNotifier(config.WhatsAppConfig{}, fc, nil)

	require.NoError(t, n.SendOutbound(context.Background(), models.OutboundMessage{To: "+82 10-9999-8888", Message: "hi"}))
	require.Len(t, fc.sent, 1)
	assert.Equal(t, "821099998888", fc.sent[0].To)

	err := n.SendOutbound(context.Background(), models.OutboundMessage{To: "n/a", Message: "hi"})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Len(t, fc.sent, 1)
}
