// Package notify turns settlement transfers into messages for the players
// involved. Delivery is pluggable through Notifier.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownCarrier = errors.New("unknown carrier")
	ErrNoAddress      = errors.New("no address")
)

// carrierGateways maps a mobile carrier to its email-to-SMS domain.
var carrierGateways = map[string]string{
	"att":      "txt.att.net",
	"tmobile":  "tmomail.net",
	"verizon":  "vtext.com",
	"sprint":   "messaging.sprintpcs.com",
	"boost":    "myboostmobile.com",
	"metropcs": "mymetropcs.com",
}

// KnownCarrier reports whether c is empty or has an SMS gateway.
func KnownCarrier(c string) bool {
	if c == "" {
		return true
	}

	_, ok := carrierGateways[strings.ToLower(c)]

	return ok
}

// ValidEmail reports whether s is empty or a bare address.
func ValidEmail(s string) bool {
	if s == "" {
		return true
	}

	a, err := mail.ParseAddress(s)

	return err == nil && a.Address == s
}

// Contact is how a player can be reached.
type Contact struct {
	ID      uint64
	Name    string
	Email   string
	Phone   string
	Carrier string
	OptIn   bool
}

// Address returns the destination for c, preferring email over SMS.
func (c Contact) Address() (string, error) {
	if c.Email != "" {
		return c.Email, nil
	}

	if c.Phone == "" {
		return "", fmt.Errorf("%s: %w", c.Name, ErrNoAddress)
	}

	domain, ok := carrierGateways[strings.ToLower(c.Carrier)]
	if !ok {
		return "", fmt.Errorf("%s: carrier %q: %w", c.Name, c.Carrier, ErrUnknownCarrier)
	}

	return digits(c.Phone) + "@" + domain, nil
}

func digits(s string) string {
	var b strings.Builder

	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// Transfer is one payment to announce.
type Transfer struct {
	From   uint64
	To     uint64
	Amount decimal.Decimal
}

// Message is a composed notification for one recipient.
type Message struct {
	To   string
	Body string
}

// Compose builds a message for every opted-in contact involved in a
// transfer. Transfers naming unknown contacts are skipped. Contacts
// without a usable address are reported in the joined error; the messages
// that could be built are still returned.
func Compose(gameID uint64, transfers []Transfer, contacts []Contact) ([]Message, error) {
	byID := make(map[uint64]Contact, len(contacts))
	for _, c := range contacts {
		byID[c.ID] = c
	}

	var (
		out  []Message
		errs []error
	)

	for _, t := range transfers {
		from, okFrom := byID[t.From]
		to, okTo := byID[t.To]

		if !okFrom || !okTo {
			continue
		}

		body := fmt.Sprintf("Game %d: %s pays %s %s", gameID, from.Name, to.Name, t.Amount.StringFixed(2))

		for _, c := range []Contact{from, to} {
			if !c.OptIn {
				continue
			}

			addr, err := c.Address()
			if err != nil {
				errs = append(errs, err)
				continue
			}

			out = append(out, Message{To: addr, Body: body})
		}
	}

	return out, errors.Join(errs...)
}

type Notifier interface {
	Notify(ctx context.Context, msgs []Message) error
}

// LogNotifier writes messages to the log instead of sending them.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, msgs []Message) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}

	for _, m := range msgs {
		logger.InfoContext(ctx, "notification", "to", m.To, "body", m.Body)
	}

	return nil
}

// Discard drops every message.
type Discard struct{}

func (Discard) Notify(context.Context, []Message) error { return nil }
