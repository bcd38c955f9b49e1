package rating

import (
	"context"
	"errors"
	"strings"
	"time"

	"innstay/internal/domain/booking"
	"innstay/internal/domain/hotel"
)

var (
	ErrInvalidScore     = errors.New("rating: score must be between 1 and 5")
	ErrNotFound         = errors.New("rating: not found")
	ErrAlreadySubmitted = errors.New("rating: booking already rated")
)

type RatingID string

// Rating is a guest's score for a completed stay. One rating per booking.
type Rating struct {
	ID        RatingID
	BookingID booking.BookingID
	HotelID   hotel.HotelID
	AuthorID  string
	Score     int
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	ByBooking(ctx context.Context, bookingID booking.BookingID) (*Rating, error)
	ListByHotel(ctx context.Context, hotelID hotel.HotelID, limit, offset int) ([]*Rating, error)
	AverageByHotel(ctx context.Context, hotelID hotel.HotelID) (float64, int, error)
	Save(ctx context.Context, rating *Rating) error
}

type SubmitParams struct {
	ID        RatingID
	BookingID booking.BookingID
	HotelID   hotel.HotelID
	AuthorID  string
	Score     int
	Text      string
	CreatedAt time.Time
}

func Submit(params SubmitParams) (*Rating, error) {
	if params.Score < 1 || params.Score > 5 {
		return nil, ErrInvalidScore
	}
	now := params.CreatedAt.UTC()
	return &Rating{
		ID:        params.ID,
		BookingID: params.BookingID,
		HotelID:   params.HotelID,
		AuthorID:  params.AuthorID,
		Score:     params.Score,
		Text:      strings.TrimSpace(params.Text),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (r *Rating) Update(score int, text string, now time.Time) error {
	if score < 1 || score > 5 {
		return ErrInvalidScore
	}
	r.Score = score
	r.Text = strings.TrimSpace(text)
	r.UpdatedAt = now.UTC()
	return nil
}
