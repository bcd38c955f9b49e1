package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/IBM/sarama"

	domainaccount "innstay/internal/domain/account"
	domainbooking "innstay/internal/domain/booking"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Inbox tracks which event ids were already processed.
type Inbox interface {
	Seen(ctx context.Context, eventID string) (bool, error)
}

// Handler consumes booking events off the broker and mails the guest.
// Unknown event types are acknowledged and skipped.
type Handler struct {
	Bookings domainbooking.Repository
	Accounts domainaccount.Repository
	Mailer   Mailer
	Inbox    Inbox
	Logger   *slog.Logger
}

type envelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		BookingID string `json:"BookingID"`
		Reason    string `json:"Reason"`
	} `json:"data"`
}

func (h *Handler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	if h.Bookings == nil || h.Accounts == nil || h.Mailer == nil {
		return errors.New("notify: handler missing dependencies")
	}
	var evt envelope
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		h.log().Warn("notify: undecodable event", "topic", msg.Topic, "error", err)
		return nil
	}

	subject, body, ok := h.message(evt)
	if !ok {
		return nil
	}

	if h.Inbox != nil && evt.ID != "" {
		seen, err := h.Inbox.Seen(ctx, evt.ID)
		if err != nil {
			return fmt.Errorf("notify: inbox check: %w", err)
		}
		if seen {
			return nil
		}
	}

	b, err := h.Bookings.ByID(ctx, domainbooking.BookingID(evt.Data.BookingID))
	if err != nil {
		if errors.Is(err, domainbooking.ErrNotFound) {
			h.log().Warn("notify: event for unknown booking", "booking_id", evt.Data.BookingID)
			return nil
		}
		return err
	}
	acc, err := h.Accounts.ByID(ctx, domainaccount.ID(b.GuestID))
	if err != nil {
		if errors.Is(err, domainaccount.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := h.Mailer.Send(ctx, acc.Email, subject, body); err != nil {
		return fmt.Errorf("notify: send mail: %w", err)
	}
	h.log().Info("guest notified", "booking_id", b.ID, "event", evt.Type)
	return nil
}

func (h *Handler) message(evt envelope) (subject, body string, ok bool) {
	switch strings.TrimSuffix(evt.Type, ".v1") {
	case "booking.confirmed":
		return "Your booking is confirmed", "We look forward to welcoming you. Booking " + evt.Data.BookingID + " is confirmed.", true
	case "booking.checked_in":
		return "Welcome, your stay has started", "Booking " + evt.Data.BookingID + " is now checked in. Enjoy your stay.", true
	case "booking.checked_out":
		return "Thanks for staying with us", "Booking " + evt.Data.BookingID + " is checked out. We would love to hear your feedback.", true
	case "booking.cancelled":
		body := "Booking " + evt.Data.BookingID + " was cancelled."
		if evt.Data.Reason != "" {
			body += " Reason: " + evt.Data.Reason
		}
		return "Your booking was cancelled", body, true
	default:
		return "", "", false
	}
}

func (h *Handler) log() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
