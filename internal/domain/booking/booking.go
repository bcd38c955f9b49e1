package booking

import (
	"context"
	"errors"
	"time"

	"innstay/internal/domain/hotel"
	"innstay/internal/domain/shared/daterange"
	"innstay/internal/domain/shared/events"
	"innstay/internal/domain/shared/money"
)

var (
	ErrIDRequired      = errors.New("booking: id is required")
	ErrGuestRequired   = errors.New("booking: guest id is required")
	ErrHotelRequired   = errors.New("booking: hotel id is required")
	ErrNegativeTotal   = errors.New("booking: total must not be negative")
	ErrInvalidState    = errors.New("booking: invalid state transition")
	ErrNotFound        = errors.New("booking: not found")
	ErrVersionConflict = errors.New("booking: concurrent update detected")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCheckIn   Status = "CHECKIN"
	StatusCheckOut  Status = "CHECKOUT"
	StatusCancelled Status = "CANCELLED"
)

// ActiveStatuses are the statuses that occupy a hotel for the booking's range.
var ActiveStatuses = []Status{StatusConfirmed, StatusCheckIn}

func (s Status) Active() bool {
	return s == StatusConfirmed || s == StatusCheckIn
}

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusCheckOut || s == StatusCancelled
}

// Booking is the occupancy record for a hotel stay. Bookings are never
// deleted; they only move through the status lifecycle.
type Booking struct {
	ID        BookingID
	HotelID   hotel.HotelID
	GuestID   string
	Range     daterange.DateRange
	Total     money.Money
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	ByGuest(ctx context.Context, guestID string) ([]*Booking, error)
	ByHotel(ctx context.Context, hotelID hotel.HotelID) ([]*Booking, error)

	// ActiveByHotel returns bookings with status CONFIRMED or CHECKIN.
	ActiveByHotel(ctx context.Context, hotelID hotel.HotelID) ([]*Booking, error)
	ByStatusStartedBefore(ctx context.Context, status Status, at time.Time) ([]*Booking, error)
	ByStatusEndedBefore(ctx context.Context, status Status, at time.Time) ([]*Booking, error)
	CreatedBetween(ctx context.Context, from, to time.Time) ([]*Booking, error)

	Save(ctx context.Context, booking *Booking) error
}

type CreateParams struct {
	ID        BookingID
	HotelID   hotel.HotelID
	GuestID   string
	Range     daterange.DateRange
	Total     money.Money
	Confirmed bool
	CreatedAt time.Time
}

// New creates a booking in PENDING (awaiting payment) or directly in
// CONFIRMED when no payment confirmation is required.
func New(params CreateParams) (*Booking, error) {
	if params.ID == "" {
		return nil, ErrIDRequired
	}
	if params.GuestID == "" {
		return nil, ErrGuestRequired
	}
	if params.HotelID == "" {
		return nil, ErrHotelRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.Total.Amount < 0 {
		return nil, ErrNegativeTotal
	}
	now := params.CreatedAt.UTC()
	status := StatusPending
	if params.Confirmed {
		status = StatusConfirmed
	}
	b := &Booking{
		ID:        params.ID,
		HotelID:   params.HotelID,
		GuestID:   params.GuestID,
		Range:     params.Range,
		Total:     params.Total,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.Record(BookingCreated{BookingID: b.ID, HotelID: b.HotelID, GuestID: b.GuestID, Range: b.Range, Total: b.Total, Status: b.Status, At: now})
	if status == StatusConfirmed {
		b.Record(BookingConfirmed{BookingID: b.ID, HotelID: b.HotelID, Range: b.Range, At: now})
	}
	return b, nil
}

// Confirm moves a PENDING booking to CONFIRMED after payment succeeded.
func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	b.Status = StatusConfirmed
	b.touch(now)
	b.Record(BookingConfirmed{BookingID: b.ID, HotelID: b.HotelID, Range: b.Range, At: b.UpdatedAt})
	return nil
}

// CheckIn is driven by the status scheduler once the stay window opens.
func (b *Booking) CheckIn(now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidState
	}
	b.Status = StatusCheckIn
	b.touch(now)
	b.Record(GuestCheckedIn{BookingID: b.ID, HotelID: b.HotelID, At: b.UpdatedAt})
	return nil
}

// CheckOut is driven by the status scheduler once the stay window closes.
func (b *Booking) CheckOut(now time.Time) error {
	if b.Status != StatusCheckIn {
		return ErrInvalidState
	}
	b.Status = StatusCheckOut
	b.touch(now)
	b.Record(GuestCheckedOut{BookingID: b.ID, HotelID: b.HotelID, At: b.UpdatedAt})
	return nil
}

// Cancel is an explicit guest or owner action; stays already checked in
// cannot be cancelled.
func (b *Booking) Cancel(reason string, now time.Time) error {
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return ErrInvalidState
	}
	b.Status = StatusCancelled
	b.touch(now)
	b.Record(BookingCancelled{BookingID: b.ID, HotelID: b.HotelID, Range: b.Range, Reason: reason, At: b.UpdatedAt})
	return nil
}

func (b *Booking) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	b.UpdatedAt = now.UTC()
}
