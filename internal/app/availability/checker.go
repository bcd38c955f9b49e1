package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"innstay/internal/domain/booking"
	"innstay/internal/domain/hotel"
	"innstay/internal/domain/shared/daterange"
)

var ErrBookingSourceRequired = errors.New("availability: booking source is required")

// BookingSource supplies the bookings that currently occupy a hotel.
// booking.Repository satisfies it.
type BookingSource interface {
	ActiveByHotel(ctx context.Context, hotelID hotel.HotelID) ([]*booking.Booking, error)
}

// ConflictError reports the active booking window that blocks a candidate
// range. The conflicting window is part of the user-facing rejection so the
// caller can adjust the request.
type ConflictError struct {
	HotelID     hotel.HotelID
	Requested   daterange.DateRange
	Conflicting daterange.DateRange
	BookingID   booking.BookingID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("availability: hotel %s already booked for %s, requested %s", e.HotelID, e.Conflicting, e.Requested)
}

// Checker decides whether a candidate date range may be booked for a hotel.
// It is a pure read-and-decide component: persisting an admitted booking is
// the caller's job, and the caller must re-run the check inside the same
// transaction that inserts the booking (see the booking service).
type Checker struct {
	Bookings BookingSource
}

// Check admits the candidate range or rejects it.
// Returns daterange.ErrInvalidRange when checkIn >= checkOut, and a
// *ConflictError naming the occupied window when an active booking overlaps.
func (c *Checker) Check(ctx context.Context, hotelID hotel.HotelID, checkIn, checkOut time.Time) (daterange.DateRange, error) {
	if c.Bookings == nil {
		return daterange.DateRange{}, ErrBookingSourceRequired
	}
	candidate, err := daterange.New(checkIn, checkOut)
	if err != nil {
		return daterange.DateRange{}, err
	}

	active, err := c.Bookings.ActiveByHotel(ctx, hotelID)
	if err != nil {
		return daterange.DateRange{}, fmt.Errorf("availability: load active bookings: %w", err)
	}
	// Linear scan over active bookings is enough at per-hotel scale.
	for _, b := range active {
		if b.Range.Overlaps(candidate) {
			return daterange.DateRange{}, &ConflictError{
				HotelID:     hotelID,
				Requested:   candidate,
				Conflicting: b.Range,
				BookingID:   b.ID,
			}
		}
	}
	return candidate, nil
}

// BookedWindows projects the hotel's occupied ranges, ordered by check-in.
// Serves the public calendar endpoint.
func (c *Checker) BookedWindows(ctx context.Context, hotelID hotel.HotelID) ([]daterange.DateRange, error) {
	if c.Bookings == nil {
		return nil, ErrBookingSourceRequired
	}
	active, err := c.Bookings.ActiveByHotel(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("availability: load active bookings: %w", err)
	}
	windows := make([]daterange.DateRange, 0, len(active))
	for _, b := range active {
		windows = append(windows, b.Range)
	}
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].CheckIn.Before(windows[j].CheckIn)
	})
	return windows, nil
}
