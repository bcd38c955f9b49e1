package rating

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "innstay/internal/domain/booking"
	domainrating "innstay/internal/domain/rating"
	"innstay/internal/domain/shared/daterange"
	"innstay/internal/domain/shared/money"
	"innstay/internal/infra/storage/memory"
)

func seedBooking(t *testing.T, repo *memory.BookingRepository, status domainbooking.Status) *domainbooking.Booking {
	t.Helper()
	dr, err := daterange.New(
		time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.August, 4, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	b, err := domainbooking.New(domainbooking.CreateParams{
		ID:        "b-1",
		HotelID:   "h-1",
		GuestID:   "guest-1",
		Range:     dr,
		Total:     money.Must(30000, "EUR"),
		Confirmed: true,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	b.Status = status
	require.NoError(t, repo.Save(context.Background(), b))
	return b
}

func newService(t *testing.T) (*Service, *memory.BookingRepository) {
	t.Helper()
	bookings := memory.NewBookingRepository()
	return &Service{
		Ratings:  memory.NewRatingRepository(),
		Bookings: bookings,
	}, bookings
}

func TestSubmitAfterCheckout(t *testing.T) {
	svc, bookings := newService(t)
	seedBooking(t, bookings, domainbooking.StatusCheckOut)

	r, err := svc.Submit(context.Background(), SubmitParams{
		BookingID: "b-1", AuthorID: "guest-1", Score: 5, Text: "great stay",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, r.Score)

	list, err := svc.ListByHotel(context.Background(), "h-1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSubmitRejectsActiveStay(t *testing.T) {
	svc, bookings := newService(t)
	seedBooking(t, bookings, domainbooking.StatusCheckIn)

	_, err := svc.Submit(context.Background(), SubmitParams{
		BookingID: "b-1", AuthorID: "guest-1", Score: 5,
	})
	assert.ErrorIs(t, err, ErrStayNotComplete)
}

func TestSubmitRejectsStranger(t *testing.T) {
	svc, bookings := newService(t)
	seedBooking(t, bookings, domainbooking.StatusCheckOut)

	_, err := svc.Submit(context.Background(), SubmitParams{
		BookingID: "b-1", AuthorID: "someone-else", Score: 5,
	})
	assert.ErrorIs(t, err, ErrNotGuest)
}

func TestSubmitOncePerBooking(t *testing.T) {
	svc, bookings := newService(t)
	seedBooking(t, bookings, domainbooking.StatusCheckOut)

	_, err := svc.Submit(context.Background(), SubmitParams{BookingID: "b-1", AuthorID: "guest-1", Score: 4})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), SubmitParams{BookingID: "b-1", AuthorID: "guest-1", Score: 2})
	assert.ErrorIs(t, err, domainrating.ErrAlreadySubmitted)
}

func TestUpdateOwnRating(t *testing.T) {
	svc, bookings := newService(t)
	seedBooking(t, bookings, domainbooking.StatusCheckOut)

	_, err := svc.Submit(context.Background(), SubmitParams{BookingID: "b-1", AuthorID: "guest-1", Score: 4})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "b-1", "someone-else", 1, "")
	assert.ErrorIs(t, err, ErrNotGuest)

	updated, err := svc.Update(context.Background(), "b-1", "guest-1", 3, "revised")
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Score)
	assert.Equal(t, "revised", updated.Text)
}
