package rating

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainbooking "innstay/internal/domain/booking"
	domainhotel "innstay/internal/domain/hotel"
	domainrating "innstay/internal/domain/rating"
)

var (
	ErrNotGuest        = errors.New("rating: only the booking's guest can rate")
	ErrStayNotComplete = errors.New("rating: stay is not completed yet")
)

type Service struct {
	Ratings  domainrating.Repository
	Bookings domainbooking.Repository
	Logger   *slog.Logger
	Now      func() time.Time
}

type SubmitParams struct {
	BookingID string
	AuthorID  string
	Score     int
	Text      string
}

// Submit accepts one rating per booking, after checkout only.
func (s *Service) Submit(ctx context.Context, params SubmitParams) (*domainrating.Rating, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	b, err := s.Bookings.ByID(ctx, domainbooking.BookingID(params.BookingID))
	if err != nil {
		return nil, err
	}
	if b.GuestID != params.AuthorID {
		return nil, ErrNotGuest
	}
	if b.Status != domainbooking.StatusCheckOut {
		return nil, ErrStayNotComplete
	}
	if _, err := s.Ratings.ByBooking(ctx, b.ID); err == nil {
		return nil, domainrating.ErrAlreadySubmitted
	} else if !errors.Is(err, domainrating.ErrNotFound) {
		return nil, err
	}

	r, err := domainrating.Submit(domainrating.SubmitParams{
		ID:        domainrating.RatingID(uuid.NewString()),
		BookingID: b.ID,
		HotelID:   b.HotelID,
		AuthorID:  params.AuthorID,
		Score:     params.Score,
		Text:      params.Text,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Ratings.Save(ctx, r); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("rating submitted", "booking_id", b.ID, "hotel_id", b.HotelID, "score", r.Score)
	}
	return r, nil
}

func (s *Service) Update(ctx context.Context, bookingID, authorID string, score int, text string) (*domainrating.Rating, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	r, err := s.Ratings.ByBooking(ctx, domainbooking.BookingID(bookingID))
	if err != nil {
		return nil, err
	}
	if r.AuthorID != authorID {
		return nil, ErrNotGuest
	}
	if err := r.Update(score, text, s.now()); err != nil {
		return nil, err
	}
	if err := s.Ratings.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) ListByHotel(ctx context.Context, hotelID string, limit, offset int) ([]*domainrating.Rating, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	return s.Ratings.ListByHotel(ctx, domainhotel.HotelID(hotelID), limit, offset)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.Ratings == nil:
		return errors.New("rating: repository required")
	case s.Bookings == nil:
		return errors.New("rating: booking repository required")
	default:
		return nil
	}
}
