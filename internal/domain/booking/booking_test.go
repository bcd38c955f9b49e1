package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innstay/internal/domain/shared/daterange"
	"innstay/internal/domain/shared/money"
)

func newTestBooking(t *testing.T, confirmed bool) *Booking {
	t.Helper()
	dr, err := daterange.New(
		time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 3, 11, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	b, err := New(CreateParams{
		ID:        "b-1",
		HotelID:   "h-1",
		GuestID:   "g-1",
		Range:     dr,
		Total:     money.Must(24000, "EUR"),
		Confirmed: confirmed,
		CreatedAt: time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return b
}

func TestNew_RejectsInvalidParams(t *testing.T) {
	valid, err := daterange.New(
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	_, err = New(CreateParams{HotelID: "h", GuestID: "g", Range: valid})
	assert.ErrorIs(t, err, ErrIDRequired)

	_, err = New(CreateParams{ID: "b", HotelID: "h", Range: valid})
	assert.ErrorIs(t, err, ErrGuestRequired)

	_, err = New(CreateParams{ID: "b", GuestID: "g", Range: valid})
	assert.ErrorIs(t, err, ErrHotelRequired)

	_, err = New(CreateParams{ID: "b", HotelID: "h", GuestID: "g"})
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)

	_, err = New(CreateParams{ID: "b", HotelID: "h", GuestID: "g", Range: valid, Total: money.Money{Amount: -1, Currency: "EUR"}})
	assert.ErrorIs(t, err, ErrNegativeTotal)
}

func TestLifecycle_HappyPath(t *testing.T) {
	b := newTestBooking(t, false)
	assert.Equal(t, StatusPending, b.Status)
	assert.False(t, b.Status.Active())

	now := time.Date(2024, 5, 21, 10, 0, 0, 0, time.UTC)
	require.NoError(t, b.Confirm(now))
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.True(t, b.Status.Active())

	require.NoError(t, b.CheckIn(b.Range.CheckIn))
	assert.Equal(t, StatusCheckIn, b.Status)
	assert.True(t, b.Status.Active())

	require.NoError(t, b.CheckOut(b.Range.CheckOut))
	assert.Equal(t, StatusCheckOut, b.Status)
	assert.True(t, b.Status.Terminal())
}

func TestLifecycle_RejectsSkippedTransitions(t *testing.T) {
	now := time.Now()

	b := newTestBooking(t, false)
	assert.ErrorIs(t, b.CheckIn(now), ErrInvalidState)
	assert.ErrorIs(t, b.CheckOut(now), ErrInvalidState)

	b = newTestBooking(t, true)
	assert.ErrorIs(t, b.Confirm(now), ErrInvalidState)
	assert.ErrorIs(t, b.CheckOut(now), ErrInvalidState)
}

func TestCancel(t *testing.T) {
	now := time.Now()

	b := newTestBooking(t, true)
	require.NoError(t, b.Cancel("guest request", now))
	assert.Equal(t, StatusCancelled, b.Status)
	assert.True(t, b.Status.Terminal())

	// terminal states stay terminal
	assert.ErrorIs(t, b.Cancel("again", now), ErrInvalidState)
	assert.ErrorIs(t, b.Confirm(now), ErrInvalidState)

	checkedIn := newTestBooking(t, true)
	require.NoError(t, checkedIn.CheckIn(now))
	assert.ErrorIs(t, checkedIn.Cancel("too late", now), ErrInvalidState)
}

func TestNew_RecordsEvents(t *testing.T) {
	b := newTestBooking(t, true)
	evs := b.PendingEvents()
	require.Len(t, evs, 2)
	assert.Equal(t, "booking.created", evs[0].EventName())
	assert.Equal(t, "booking.confirmed", evs[1].EventName())
	assert.Equal(t, "b-1", evs[0].AggregateID())

	b.ClearEvents()
	assert.Empty(t, b.PendingEvents())
}
