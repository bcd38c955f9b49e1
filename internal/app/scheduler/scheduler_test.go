package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innstay/internal/domain/booking"
	"innstay/internal/domain/shared/daterange"
	"innstay/internal/domain/shared/events"
	"innstay/internal/domain/shared/money"
)

// fakeStore keeps bookings in memory and answers the scheduler's status
// predicates, so idempotence can be observed across passes.
type fakeStore struct {
	mu       sync.Mutex
	bookings map[booking.BookingID]*booking.Booking
	failSave map[booking.BookingID]error
	fetches  atomic.Int32
	blockOn  chan struct{}
}

func newFakeStore(items ...*booking.Booking) *fakeStore {
	s := &fakeStore{
		bookings: make(map[booking.BookingID]*booking.Booking),
		failSave: make(map[booking.BookingID]error),
	}
	for _, b := range items {
		s.bookings[b.ID] = b
	}
	return s
}

func (s *fakeStore) ByStatusStartedBefore(ctx context.Context, status booking.Status, at time.Time) ([]*booking.Booking, error) {
	s.fetches.Add(1)
	if s.blockOn != nil {
		<-s.blockOn
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*booking.Booking
	for _, b := range s.bookings {
		if b.Status == status && !b.Range.CheckIn.After(at) {
			out = append(out, clone(b))
		}
	}
	return out, nil
}

func (s *fakeStore) ByStatusEndedBefore(ctx context.Context, status booking.Status, at time.Time) ([]*booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*booking.Booking
	for _, b := range s.bookings {
		if b.Status == status && !b.Range.CheckOut.After(at) {
			out = append(out, clone(b))
		}
	}
	return out, nil
}

func (s *fakeStore) Save(ctx context.Context, b *booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failSave[b.ID]; ok {
		return err
	}
	s.bookings[b.ID] = clone(b)
	return nil
}

// clone detaches stored state from the pointers handed to the scheduler, so
// a failed Save leaves the stored status untouched.
func clone(b *booking.Booking) *booking.Booking {
	copyBooking := *b
	copyBooking.EventRecorder = events.EventRecorder{}
	return &copyBooking
}

func (s *fakeStore) status(id booking.BookingID) booking.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[id].Status
}

func confirmedBooking(t *testing.T, id string, checkIn, checkOut time.Time) *booking.Booking {
	t.Helper()
	dr, err := daterange.New(checkIn, checkOut)
	require.NoError(t, err)
	b, err := booking.New(booking.CreateParams{
		ID:        booking.BookingID(id),
		HotelID:   "hotel-1",
		GuestID:   "guest-1",
		Range:     dr,
		Total:     money.Must(5000, "EUR"),
		Confirmed: true,
		CreatedAt: checkIn.Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	b.ClearEvents()
	return b
}

func fixedNow(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestRunPass_ChecksInDueBooking(t *testing.T) {
	now := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	b := confirmedBooking(t, "b1", now.Add(-time.Hour), now.Add(23*time.Hour))
	store := newFakeStore(b)

	s := &Scheduler{Bookings: store, Now: fixedNow(now)}
	report, err := s.RunPass(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.CheckedIn)
	assert.Equal(t, 0, report.CheckedOut)
	assert.Empty(t, report.Failed)
	assert.Equal(t, booking.StatusCheckIn, store.status("b1"))
}

func TestRunPass_Idempotent(t *testing.T) {
	now := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	b := confirmedBooking(t, "b1", now.Add(-time.Hour), now.Add(23*time.Hour))
	store := newFakeStore(b)
	s := &Scheduler{Bookings: store, Now: fixedNow(now)}

	first, err := s.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.CheckedIn)

	// same instant, no intervening time change: nothing qualifies anymore
	second, err := s.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PassReport{}, second)
	assert.Equal(t, booking.StatusCheckIn, store.status("b1"))
}

func TestRunPass_FullStayLifecycle(t *testing.T) {
	start := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	b := confirmedBooking(t, "b1", start.Add(-time.Hour), start.Add(23*time.Hour))
	store := newFakeStore(b)

	s := &Scheduler{Bookings: store, Now: fixedNow(start)}
	_, err := s.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCheckIn, store.status("b1"))

	// 24 hours later the stay window has closed
	s.Now = fixedNow(start.Add(24 * time.Hour))
	report, err := s.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.CheckedOut)
	assert.Equal(t, booking.StatusCheckOut, store.status("b1"))
}

func TestRunPass_NoCheckoutBeforeStayEnds(t *testing.T) {
	now := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	b := confirmedBooking(t, "b1", now.Add(-time.Hour), now.Add(23*time.Hour))
	store := newFakeStore(b)
	s := &Scheduler{Bookings: store, Now: fixedNow(now)}

	_, err := s.RunPass(context.Background())
	require.NoError(t, err)
	_, err = s.RunPass(context.Background())
	require.NoError(t, err)

	// still checked in: the end instant has not passed
	assert.Equal(t, booking.StatusCheckIn, store.status("b1"))
}

func TestRunPass_PartialFailureDoesNotAbortPass(t *testing.T) {
	now := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	b1 := confirmedBooking(t, "b1", now.Add(-3*time.Hour), now.Add(20*time.Hour))
	b2 := confirmedBooking(t, "b2", now.Add(-2*time.Hour), now.Add(21*time.Hour))
	b3 := confirmedBooking(t, "b3", now.Add(-time.Hour), now.Add(22*time.Hour))
	store := newFakeStore(b1, b2, b3)
	store.failSave["b2"] = errors.New("connection reset")

	s := &Scheduler{Bookings: store, Now: fixedNow(now)}
	report, err := s.RunPass(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, report.CheckedIn)
	assert.Equal(t, []booking.BookingID{"b2"}, report.Failed)
	assert.Equal(t, booking.StatusCheckIn, store.status("b1"))
	assert.Equal(t, booking.StatusCheckIn, store.status("b3"))

	// b2 qualifies again on the next pass once persistence recovers
	delete(store.failSave, "b2")
	report, err = s.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.CheckedIn)
	assert.Equal(t, booking.StatusCheckIn, store.status("b2"))
}

func TestRunPass_SkipsMalformedRange(t *testing.T) {
	now := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	b := confirmedBooking(t, "b1", now.Add(-2*time.Hour), now.Add(22*time.Hour))
	// corrupt the stored range so check-in is not before check-out
	b.Range = daterange.DateRange{CheckIn: b.Range.CheckIn, CheckOut: b.Range.CheckIn}
	store := newFakeStore(b)

	s := &Scheduler{Bookings: store, Now: fixedNow(now)}
	report, err := s.RunPass(context.Background())

	require.NoError(t, err)
	assert.Zero(t, report.CheckedIn)
	assert.Equal(t, []booking.BookingID{"b1"}, report.Malformed)
	assert.Equal(t, booking.StatusConfirmed, store.status("b1"))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	store := newFakeStore()
	s := &Scheduler{Bookings: store, Interval: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on context cancel")
	}
}

func TestRun_SkipsTickWhilePassRunning(t *testing.T) {
	store := newFakeStore()
	store.blockOn = make(chan struct{})
	s := &Scheduler{Bookings: store, Interval: 20 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.Run(ctx)
		close(done)
	}()

	// several intervals elapse while the first pass is stuck in its fetch;
	// the ticks that fired meanwhile must not have started further passes
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, int32(1), store.fetches.Load())
	assert.True(t, s.running.Load())

	close(store.blockOn)
	cancel()
	<-done
	assert.False(t, s.running.Load())
}
