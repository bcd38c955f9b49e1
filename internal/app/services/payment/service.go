package payment

import (
	"context"
	"errors"
	"log/slog"

	domainbooking "innstay/internal/domain/booking"
	"innstay/internal/domain/shared/money"
)

var (
	ErrNotPayable     = errors.New("payment: booking is not awaiting payment")
	ErrNotAuthorized  = errors.New("payment: not the booking's guest")
	ErrUnknownSession = errors.New("payment: unknown checkout session")
)

// CheckoutSession is a handle to an external payment flow.
type CheckoutSession struct {
	ID          string
	BookingID   domainbooking.BookingID
	Amount      money.Money
	RedirectURL string
}

// CheckoutProvider abstracts the payment gateway.
type CheckoutProvider interface {
	StartCheckout(ctx context.Context, bookingID domainbooking.BookingID, amount money.Money) (*CheckoutSession, error)
	SessionBooking(ctx context.Context, sessionID string) (domainbooking.BookingID, error)
}

// BookingWorkflow is the slice of the booking service the payment flow drives.
type BookingWorkflow interface {
	Confirm(ctx context.Context, bookingID string) (*domainbooking.Booking, error)
	Cancel(ctx context.Context, bookingID, actorID, reason string) (*domainbooking.Booking, error)
}

type Service struct {
	Bookings domainbooking.Repository
	Workflow BookingWorkflow
	Provider CheckoutProvider
	Logger   *slog.Logger
}

// Start opens a checkout session for a PENDING booking.
func (s *Service) Start(ctx context.Context, bookingID, guestID string) (*CheckoutSession, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	b, err := s.Bookings.ByID(ctx, domainbooking.BookingID(bookingID))
	if err != nil {
		return nil, err
	}
	if b.GuestID != guestID {
		return nil, ErrNotAuthorized
	}
	if b.Status != domainbooking.StatusPending {
		return nil, ErrNotPayable
	}
	session, err := s.Provider.StartCheckout(ctx, b.ID, b.Total)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("checkout started", "booking_id", b.ID, "session_id", session.ID)
	}
	return session, nil
}

// Complete handles the gateway callback. Failure cancels the pending booking
// so its range frees up immediately.
func (s *Service) Complete(ctx context.Context, sessionID string, succeeded bool) (*domainbooking.Booking, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	bookingID, err := s.Provider.SessionBooking(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if succeeded {
		b, err := s.Workflow.Confirm(ctx, string(bookingID))
		if err != nil {
			return nil, err
		}
		if s.Logger != nil {
			s.Logger.Info("payment captured", "booking_id", b.ID)
		}
		return b, nil
	}
	b, err := s.Bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	cancelled, err := s.Workflow.Cancel(ctx, string(b.ID), b.GuestID, "payment failed")
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Warn("payment failed", "booking_id", b.ID)
	}
	return cancelled, nil
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.Bookings == nil:
		return errors.New("payment: booking repository required")
	case s.Workflow == nil:
		return errors.New("payment: booking workflow required")
	case s.Provider == nil:
		return errors.New("payment: checkout provider required")
	default:
		return nil
	}
}
