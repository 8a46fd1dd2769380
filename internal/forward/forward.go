// Package forward delivers completed orders to the shop's notification chat.
// The target chat is resolved exactly once at startup from configuration.
package forward

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	tele "gopkg.in/telebot.v4"

	"orderbot/internal/config"
	"orderbot/internal/logger"
	"orderbot/internal/order"
)

// Sender is the outbound surface required by the notifier.
// *tele.Bot satisfies it.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Notifier forwards completed orders to a fixed chat.
// The sender is bound once the bot is up; the target never changes.
type Notifier struct {
	target tele.ChatID

	mu     sync.RWMutex
	sender Sender
}

// New resolves the forwarding target from configuration.
// A missing target id for the selected mode is a startup error.
func New(cfg config.ForwardingConfig) (*Notifier, error) {
	target := cfg.Target()
	if target == 0 {
		mode := "admin"
		if cfg.Debug {
			mode = "dev"
		}
		return nil, fmt.Errorf("forward: %s chat id is not configured", mode)
	}
	return &Notifier{target: tele.ChatID(target)}, nil
}

// Bind attaches the live sender. Called from the bot's start hook,
// before any update is handled.
func (n *Notifier) Bind(s Sender) {
	n.mu.Lock()
	n.sender = s
	n.mu.Unlock()
}

// Target returns the chat orders are forwarded to.
func (n *Notifier) Target() tele.ChatID {
	return n.target
}

// Forward sends the order summary to the target chat. The call is
// synchronous so the caller can log delivery failures, but a failure is
// an operator concern only: the order is already considered captured.
func (n *Notifier) Forward(ctx context.Context, o order.Order) error {
	n.mu.RLock()
	s := n.sender
	n.mu.RUnlock()
	if s == nil {
		return fmt.Errorf("forward: sender not bound")
	}

	_, err := s.Send(n.target, o.Summary(), &tele.SendOptions{ParseMode: tele.ModeMarkdown})
	if err != nil {
		logger.Error(ctx, "forward", "order.forward",
			slog.String("status", "fail"),
			slog.String("order_id", o.ID),
			slog.Int64("target_chat_id", int64(n.target)),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("forward order %s: %w", o.ID, err)
	}

	logger.Info(ctx, "forward", "order.forward",
		slog.String("status", "ok"),
		slog.String("order_id", o.ID),
		slog.Int64("target_chat_id", int64(n.target)),
		slog.Int("total", o.Total),
	)
	return nil
}
