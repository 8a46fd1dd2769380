package forward

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"orderbot/internal/catalog"
	"orderbot/internal/config"
	"orderbot/internal/order"
)

type sendCall struct {
	to   tele.Recipient
	what interface{}
	opts []interface{}
}

type fakeSender struct {
	calls []sendCall
	err   error
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.calls = append(f.calls, sendCall{to: to, what: what, opts: opts})
	if f.err != nil {
		return nil, f.err
	}
	return &tele.Message{}, nil
}

func testOrder() order.Order {
	return order.New(42, "anna",
		catalog.Entry{ID: "bread", Name: "Bread", UnitPrice: 40},
		3, "Anna", "+1234567", time.Now())
}

func TestNewPicksDevChatInDebug(t *testing.T) {
	n, err := New(config.ForwardingConfig{Debug: true, DevChatID: 99, AdminChatID: 11})
	require.NoError(t, err)
	assert.Equal(t, tele.ChatID(99), n.Target())
}

func TestNewPicksAdminChatInProduction(t *testing.T) {
	n, err := New(config.ForwardingConfig{Debug: false, DevChatID: 99, AdminChatID: 11})
	require.NoError(t, err)
	assert.Equal(t, tele.ChatID(11), n.Target())
}

func TestNewRequiresTargetForSelectedMode(t *testing.T) {
	_, err := New(config.ForwardingConfig{Debug: true, AdminChatID: 11})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dev")

	_, err = New(config.ForwardingConfig{Debug: false, DevChatID: 99})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin")
}

func TestForwardSendsSummaryToTarget(t *testing.T) {
	n, err := New(config.ForwardingConfig{Debug: true, DevChatID: 99})
	require.NoError(t, err)

	sender := &fakeSender{}
	n.Bind(sender)

	o := testOrder()
	require.NoError(t, n.Forward(context.Background(), o))

	require.Len(t, sender.calls, 1)
	call := sender.calls[0]
	assert.Equal(t, tele.ChatID(99), call.to)
	assert.Equal(t, o.Summary(), call.what)

	require.Len(t, call.opts, 1)
	opts, ok := call.opts[0].(*tele.SendOptions)
	require.True(t, ok)
	assert.Equal(t, tele.ModeMarkdown, opts.ParseMode)
}

func TestForwardWithoutSenderFails(t *testing.T) {
	n, err := New(config.ForwardingConfig{Debug: false, AdminChatID: 11})
	require.NoError(t, err)

	err = n.Forward(context.Background(), testOrder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not bound")
}

func TestForwardPropagatesSendFailure(t *testing.T) {
	n, err := New(config.ForwardingConfig{Debug: false, AdminChatID: 11})
	require.NoError(t, err)

	sendErr := errors.New("telegram: Bad Request")
	n.Bind(&fakeSender{err: sendErr})

	o := testOrder()
	err = n.Forward(context.Background(), o)
	require.Error(t, err)
	assert.ErrorIs(t, err, sendErr)
	assert.Contains(t, err.Error(), o.ID)
}
