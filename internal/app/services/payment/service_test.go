package payment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innstay/internal/app/availability"
	bookingsvc "innstay/internal/app/services/booking"
	"innstay/internal/app/services/payment"
	domainbooking "innstay/internal/domain/booking"
	domainhotel "innstay/internal/domain/hotel"
	"innstay/internal/domain/shared/money"
	"innstay/internal/infra/payments"
	"innstay/internal/infra/storage/memory"
)

type fixture struct {
	payments *payment.Service
	bookings *bookingsvc.Service
	booking  *domainbooking.Booking
}

func setup(t *testing.T) *fixture {
	t.Helper()
	bookingRepo := memory.NewBookingRepository()
	hotelRepo := memory.NewHotelRepository()

	h, err := domainhotel.New(domainhotel.CreateParams{
		ID: "h-1", OwnerID: "owner-1", Name: "Seaside Inn",
		Address: domainhotel.Address{Line1: "1 Shore Rd", City: "Brighton", Country: "UK"},
		Stars:   4, NightlyRate: money.Must(10000, "EUR"), Now: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, h.Publish(time.Now()))
	require.NoError(t, hotelRepo.Save(context.Background(), h))

	workflow := &bookingsvc.Service{
		Bookings:       bookingRepo,
		Hotels:         hotelRepo,
		Checker:        &availability.Checker{Bookings: bookingRepo},
		Tx:             memory.NewAtomic(),
		RequirePayment: true,
	}
	checkIn := time.Now().UTC().AddDate(0, 0, 7)
	b, err := workflow.Create(context.Background(), bookingsvc.CreateParams{
		HotelID: "h-1", GuestID: "guest-1",
		CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 2),
	})
	require.NoError(t, err)
	require.Equal(t, domainbooking.StatusPending, b.Status)

	svc := &payment.Service{
		Bookings: bookingRepo,
		Workflow: workflow,
		Provider: payments.NewFakeProvider("http://localhost:8080"),
	}
	return &fixture{payments: svc, bookings: workflow, booking: b}
}

func TestCheckoutSuccessConfirmsBooking(t *testing.T) {
	f := setup(t)

	session, err := f.payments.Start(context.Background(), string(f.booking.ID), "guest-1")
	require.NoError(t, err)
	assert.Contains(t, session.RedirectURL, session.ID)
	assert.Equal(t, money.Must(20000, "EUR"), session.Amount)

	b, err := f.payments.Complete(context.Background(), session.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusConfirmed, b.Status)
}

func TestCheckoutFailureCancelsBooking(t *testing.T) {
	f := setup(t)

	session, err := f.payments.Start(context.Background(), string(f.booking.ID), "guest-1")
	require.NoError(t, err)

	b, err := f.payments.Complete(context.Background(), session.ID, false)
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusCancelled, b.Status)
}

func TestStartRejectsStrangerAndConfirmedBooking(t *testing.T) {
	f := setup(t)

	_, err := f.payments.Start(context.Background(), string(f.booking.ID), "someone-else")
	assert.ErrorIs(t, err, payment.ErrNotAuthorized)

	session, err := f.payments.Start(context.Background(), string(f.booking.ID), "guest-1")
	require.NoError(t, err)
	_, err = f.payments.Complete(context.Background(), session.ID, true)
	require.NoError(t, err)

	_, err = f.payments.Start(context.Background(), string(f.booking.ID), "guest-1")
	assert.ErrorIs(t, err, payment.ErrNotPayable)
}

func TestCompleteUnknownSession(t *testing.T) {
	f := setup(t)
	_, err := f.payments.Complete(context.Background(), "missing", true)
	assert.ErrorIs(t, err, payment.ErrUnknownSession)
}
