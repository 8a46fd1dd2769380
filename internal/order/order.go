// Package order defines the completed-order value forwarded to the shop.
// Orders are ephemeral: they are assembled, delivered, and dropped.
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"orderbot/internal/catalog"
)

const placedAtLayout = "15:04 02.01.2006"

// Order carries everything the shop needs to fulfil a purchase.
// Product is a snapshot of the catalog entry at the time of ordering,
// so a later catalog change cannot retroactively alter the order.
type Order struct {
	ID            string
	UserID        int64
	Username      string
	Product       catalog.Entry
	Quantity      int
	CustomerName  string
	CustomerPhone string
	Total         int
	CreatedAt     time.Time
}

// New assembles an order, assigning it an id and computing the total.
func New(userID int64, username string, product catalog.Entry, quantity int, name, phone string, at time.Time) Order {
	return Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Username:      username,
		Product:       product,
		Quantity:      quantity,
		CustomerName:  name,
		CustomerPhone: phone,
		Total:         product.UnitPrice * quantity,
		CreatedAt:     at,
	}
}

// Summary renders the markdown notification sent to the forwarding target.
func (o Order) Summary() string {
	var b strings.Builder
	b.WriteString("🛒 *NEW ORDER*\n")
	fmt.Fprintf(&b, "Customer: %s\n", o.customerRef())
	fmt.Fprintf(&b, "Product: %s — %d\n", o.Product.Name, o.Product.UnitPrice)
	fmt.Fprintf(&b, "Quantity: %d\n", o.Quantity)
	fmt.Fprintf(&b, "Total: %d\n", o.Total)
	fmt.Fprintf(&b, "Name: %s\n", o.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n", o.CustomerPhone)
	fmt.Fprintf(&b, "Placed: %s\n", o.CreatedAt.Format(placedAtLayout))
	fmt.Fprintf(&b, "Ref: %s", o.ID)
	return b.String()
}

// Confirmation renders the message shown to the buyer once the order is taken.
func (o Order) Confirmation() string {
	var b strings.Builder
	b.WriteString("✅ Order received!\n")
	fmt.Fprintf(&b, "Product: %s\n", o.Product.Name)
	fmt.Fprintf(&b, "Quantity: %d\n", o.Quantity)
	fmt.Fprintf(&b, "Total: %d\n", o.Total)
	fmt.Fprintf(&b, "We will call you at %s.\n\n", o.CustomerPhone)
	fmt.Fprintf(&b, "Thank you, %s! 🎉", o.CustomerName)
	return b.String()
}

func (o Order) customerRef() string {
	if o.Username != "" {
		return fmt.Sprintf("@%s (ID: %d)", o.Username, o.UserID)
	}
	return fmt.Sprintf("ID: %d", o.UserID)
}
