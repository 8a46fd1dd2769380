// Package flow implements the order conversation: product selection via an
// inline keyboard, then a quantity -> name -> phone prompt chain, ending in a
// forwarded order and a confirmation to the buyer.
package flow

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v4"

	"orderbot/internal/catalog"
	"orderbot/internal/forward"
	"orderbot/internal/logger"
	"orderbot/internal/order"
	"orderbot/internal/session"
	"orderbot/internal/telegram"
)

// PickKey is the callback unique for catalog item selection buttons.
const PickKey = "catalog_item"

const (
	msgWelcome       = "Hi! 👋\nI take orders here.\nSend /order to place one."
	msgChooseProduct = "🛒 Pick a product:"
	msgAskQuantity   = "You picked *%s*.\nHow many units do you need?"
	msgBadQuantity   = "Please enter a whole number greater than 0."
	msgAskName       = "Got it. What's your name?"
	msgAskPhone      = "And a phone number to reach you at?"
	msgDraftLost     = "Something went wrong with your order. Please start over with /order."
)

// Flow walks users through the order chain. All session mutation happens
// here, in response to a single inbound update at a time.
type Flow struct {
	catalog  *catalog.Catalog
	sessions session.Store
	notifier *forward.Notifier
	now      func() time.Time
}

// New wires the conversation over the given catalog, session store, and notifier.
func New(cat *catalog.Catalog, sessions session.Store, notifier *forward.Notifier) *Flow {
	return &Flow{
		catalog:  cat,
		sessions: sessions,
		notifier: notifier,
		now:      time.Now,
	}
}

// Start handles /start.
func (f *Flow) Start(c tele.Context) error {
	return telegram.SendText(c, msgWelcome)
}

// Order handles /order: any half-filled draft is dropped and the catalog
// menu is rendered fresh.
func (f *Flow) Order(c tele.Context) error {
	userID := c.Sender().ID
	f.sessions.Reset(userID)
	return telegram.SendMD(c, msgChooseProduct, f.menu())
}

// Pick handles a catalog selection callback. An unknown product id is
// ignored outright: no reply, no state change.
func (f *Flow) Pick(c tele.Context) error {
	userID := c.Sender().ID
	id := telegram.CallbackPayload(c)

	entry, ok := f.catalog.Lookup(id)
	if !ok {
		logger.Debug(telegram.BuildContext(c), "flow", "pick.unknown",
			slog.Int64("user_id", userID),
			slog.String("product_id", logger.SanitizeLimit(id, 64)),
		)
		return nil
	}

	f.sessions.Update(userID, func(s *session.Session) {
		s.ProductID = entry.ID
		s.Quantity = 0
		s.Name = ""
		s.Phone = ""
		s.Step = session.StepQuantity
	})
	f.logStep(c, userID, session.StepQuantity, entry.ID)

	return telegram.EditOrSendMD(c, fmt.Sprintf(msgAskQuantity, entry.Name))
}

// InProgress reports whether the user has an active chain; the text router
// hands such updates to ManagerHandler.
func (f *Flow) InProgress(userID int64) bool {
	return f.sessions.InProgress(userID)
}

// ManagerHandler advances the chain with the incoming text. Dispatch over
// the step tag is exhaustive; guard failures re-prompt without advancing.
func (f *Flow) ManagerHandler(c tele.Context) error {
	userID := c.Sender().ID
	sess := f.sessions.Get(userID)

	switch sess.Step {
	case session.StepIdle:
		return nil
	case session.StepQuantity:
		return f.handleQuantity(c, userID)
	case session.StepName:
		return f.handleName(c, userID)
	case session.StepPhone:
		return f.complete(c, userID, sess)
	}
	return nil
}

func (f *Flow) handleQuantity(c tele.Context, userID int64) error {
	qty, ok := parseQuantity(c.Text())
	if !ok {
		return telegram.SendText(c, msgBadQuantity)
	}

	f.sessions.Update(userID, func(s *session.Session) {
		s.Quantity = qty
		s.Step = session.StepName
	})
	f.logStep(c, userID, session.StepName, "")

	return telegram.SendText(c, msgAskName)
}

func (f *Flow) handleName(c tele.Context, userID int64) error {
	name := c.Text()
	if name == "" {
		return nil
	}

	f.sessions.Update(userID, func(s *session.Session) {
		s.Name = name
		s.Step = session.StepPhone
	})
	f.logStep(c, userID, session.StepPhone, "")

	return telegram.SendText(c, msgAskPhone)
}

func (f *Flow) complete(c tele.Context, userID int64, sess session.Session) error {
	phone := c.Text()
	if phone == "" {
		return nil
	}

	ctx := telegram.BuildContext(c)

	entry, ok := f.catalog.Lookup(sess.ProductID)
	if !ok {
		// Draft references a product that is no longer known; drop it.
		logger.Warn(ctx, "flow", "complete.product_missing",
			slog.Int64("user_id", userID),
			slog.String("product_id", sess.ProductID),
		)
		f.sessions.Reset(userID)
		return telegram.SendText(c, msgDraftLost)
	}

	o := order.New(userID, c.Sender().Username, entry, sess.Quantity, sess.Name, phone, f.now())

	// Delivery failure is operator-facing only: the order counts as
	// captured, the buyer is confirmed, and the session is cleared.
	if err := f.notifier.Forward(ctx, o); err != nil {
		logger.Error(ctx, "flow", "order.forward.fail",
			slog.String("order_id", o.ID),
			slog.String("err", err.Error()),
		)
	}

	logger.Info(ctx, "flow", "order.completed",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("order_id", o.ID),
		slog.String("product_id", entry.ID),
		slog.Int("quantity", o.Quantity),
		slog.Int("total", o.Total),
	)

	f.sessions.Reset(userID)
	return telegram.SendText(c, o.Confirmation())
}

// menu renders one button per catalog entry, labelled "Name — price".
func (f *Flow) menu() *tele.ReplyMarkup {
	entries := f.catalog.List()
	buttons := make([]telegram.InlineBtn, 0, len(entries))
	for _, e := range entries {
		buttons = append(buttons, telegram.InlineBtn{
			Text:   fmt.Sprintf("%s — %d", e.Name, e.UnitPrice),
			Unique: PickKey,
			Data:   e.ID,
		})
	}
	return telegram.InlineButtons(buttons)
}

func (f *Flow) logStep(c tele.Context, userID int64, step session.Step, productID string) {
	attrs := []slog.Attr{
		slog.Int64("user_id", userID),
		slog.String("step", string(step)),
	}
	if productID != "" {
		attrs = append(attrs, slog.String("product_id", productID))
	}
	logger.Debug(telegram.BuildContext(c), "flow", "step.advance", attrs...)
}

// parseQuantity accepts only a strictly positive base-10 integer: no sign,
// no whitespace, no decimals.
func parseQuantity(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
