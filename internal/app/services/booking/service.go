package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"innstay/internal/app/availability"
	"innstay/internal/app/outbox"
	domainbooking "innstay/internal/domain/booking"
	domaindiscount "innstay/internal/domain/discount"
	domainhotel "innstay/internal/domain/hotel"
	"innstay/internal/domain/shared/money"
)

var (
	ErrCheckInInPast   = errors.New("booking: check-in date is in the past")
	ErrHotelNotActive  = errors.New("booking: hotel is not accepting bookings")
	ErrNotAuthorized   = errors.New("booking: not authorized for this booking")
	ErrDiscountInvalid = errors.New("booking: discount code is not applicable")
)

// Atomic runs fn inside one transaction boundary. The overlap check and the
// booking insert are NOT atomic on their own; wrapping both in InTx is what
// prevents two concurrent requests from admitting overlapping ranges.
type Atomic interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	Bookings  domainbooking.Repository
	Hotels    domainhotel.Repository
	Discounts domaindiscount.Repository
	Checker   *availability.Checker
	Tx        Atomic
	Outbox    outbox.Outbox

	// RequirePayment creates bookings in PENDING until a payment
	// confirmation arrives; otherwise they start out CONFIRMED.
	RequirePayment bool
	Logger         *slog.Logger
	Now            func() time.Time
}

type CreateParams struct {
	HotelID      string
	GuestID      string
	CheckIn      time.Time
	CheckOut     time.Time
	DiscountCode string
}

// Create admits and persists a new booking. The admissibility check runs
// inside the same transaction as the insert (see Atomic).
func (s *Service) Create(ctx context.Context, params CreateParams) (*domainbooking.Booking, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	now := s.now()

	hotelID := domainhotel.HotelID(params.HotelID)
	h, err := s.Hotels.ByID(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	if h.State != domainhotel.StateActive {
		return nil, ErrHotelNotActive
	}
	if params.CheckIn.UTC().Before(startOfDay(now)) {
		return nil, ErrCheckInInPast
	}

	var created *domainbooking.Booking
	err = s.Tx.InTx(ctx, func(ctx context.Context) error {
		dr, err := s.Checker.Check(ctx, hotelID, params.CheckIn, params.CheckOut)
		if err != nil {
			return err
		}

		total, err := s.quote(ctx, h, dr.Nights(), params.DiscountCode, now)
		if err != nil {
			return err
		}

		b, err := domainbooking.New(domainbooking.CreateParams{
			ID:        domainbooking.BookingID(uuid.NewString()),
			HotelID:   hotelID,
			GuestID:   params.GuestID,
			Range:     dr,
			Total:     total,
			Confirmed: !s.RequirePayment,
			CreatedAt: now,
		})
		if err != nil {
			return err
		}
		if err := s.Bookings.Save(ctx, b); err != nil {
			return err
		}
		if err := outbox.RecordDomainEvents(ctx, s.Outbox, nil, b.PendingEvents()); err != nil {
			return err
		}
		b.ClearEvents()
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("booking created", "booking_id", created.ID, "hotel_id", created.HotelID, "status", created.Status, "range", created.Range.String())
	}
	return created, nil
}

// Confirm moves a PENDING booking to CONFIRMED after payment succeeded.
func (s *Service) Confirm(ctx context.Context, bookingID string) (*domainbooking.Booking, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	b, err := s.Bookings.ByID(ctx, domainbooking.BookingID(bookingID))
	if err != nil {
		return nil, err
	}
	if err := b.Confirm(s.now()); err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, s.Outbox, nil, b.PendingEvents()); err != nil {
		return nil, err
	}
	b.ClearEvents()
	return b, nil
}

// Cancel is available to the booking's guest and to the hotel's owner.
func (s *Service) Cancel(ctx context.Context, bookingID, actorID, reason string) (*domainbooking.Booking, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	b, err := s.Bookings.ByID(ctx, domainbooking.BookingID(bookingID))
	if err != nil {
		return nil, err
	}
	if b.GuestID != actorID {
		h, err := s.Hotels.ByID(ctx, b.HotelID)
		if err != nil {
			return nil, err
		}
		if !h.OwnedBy(actorID) {
			return nil, ErrNotAuthorized
		}
	}
	if err := b.Cancel(reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.Bookings.Save(ctx, b); err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, s.Outbox, nil, b.PendingEvents()); err != nil {
		return nil, err
	}
	b.ClearEvents()
	if s.Logger != nil {
		s.Logger.Info("booking cancelled", "booking_id", b.ID, "by", actorID)
	}
	return b, nil
}

func (s *Service) GuestBookings(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	return s.Bookings.ByGuest(ctx, guestID)
}

// HotelBookings lists a hotel's bookings for its owner.
func (s *Service) HotelBookings(ctx context.Context, hotelID, ownerID string) ([]*domainbooking.Booking, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	h, err := s.Hotels.ByID(ctx, domainhotel.HotelID(hotelID))
	if err != nil {
		return nil, err
	}
	if !h.OwnedBy(ownerID) {
		return nil, ErrNotAuthorized
	}
	return s.Bookings.ByHotel(ctx, h.ID)
}

func (s *Service) quote(ctx context.Context, h *domainhotel.Hotel, nights int, code string, now time.Time) (money.Money, error) {
	total := h.NightlyRate.Multiply(int64(nights))
	if code == "" {
		return total, nil
	}
	if s.Discounts == nil {
		return money.Money{}, ErrDiscountInvalid
	}
	d, err := s.Discounts.ByCode(ctx, h.ID, domaindiscount.NormalizeCode(code))
	if err != nil {
		if errors.Is(err, domaindiscount.ErrNotFound) {
			return money.Money{}, ErrDiscountInvalid
		}
		return money.Money{}, fmt.Errorf("booking: discount lookup: %w", err)
	}
	if !d.Applicable(now) {
		return money.Money{}, ErrDiscountInvalid
	}
	return total.ApplyDiscountPercent(d.Percent), nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.Bookings == nil:
		return errors.New("booking: repository required")
	case s.Hotels == nil:
		return errors.New("booking: hotel repository required")
	case s.Checker == nil:
		return errors.New("booking: availability checker required")
	case s.Tx == nil:
		return errors.New("booking: transaction runner required")
	default:
		return nil
	}
}
