package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"innstay/internal/app/outbox"
	"innstay/internal/domain/booking"
)

var ErrStoreRequired = errors.New("scheduler: booking store is required")

const (
	defaultInterval    = time.Minute
	defaultSaveTimeout = 5 * time.Second
)

// BookingStore is the slice of booking.Repository the scheduler needs.
type BookingStore interface {
	ByStatusStartedBefore(ctx context.Context, status booking.Status, at time.Time) ([]*booking.Booking, error)
	ByStatusEndedBefore(ctx context.Context, status booking.Status, at time.Time) ([]*booking.Booking, error)
	Save(ctx context.Context, b *booking.Booking) error
}

// PassReport summarizes one scheduler pass. Failures are operational only;
// the failed bookings are retried on the next pass because their status
// predicate still holds.
type PassReport struct {
	CheckedIn  int
	CheckedOut int
	Failed     []booking.BookingID
	Malformed  []booking.BookingID
}

// Scheduler advances booking status purely as a function of wall-clock time:
// CONFIRMED moves to CHECKIN once the stay window opens, CHECKIN moves to
// CHECKOUT once it closes. Both predicates become false after the
// transition, so a repeated pass is a no-op.
type Scheduler struct {
	Bookings    BookingStore
	Outbox      outbox.Outbox
	Interval    time.Duration
	SaveTimeout time.Duration
	Logger      *slog.Logger
	Now         func() time.Time

	running atomic.Bool
}

// Run executes passes on a fixed period until ctx is cancelled. If a pass is
// still in flight when the ticker fires, the new tick is skipped rather than
// starting a second pass over the same rows.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.Bookings == nil {
		return ErrStoreRequired
	}
	interval := s.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log().Info("booking status scheduler started", "interval", interval)
	var passes sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			passes.Wait()
			s.log().Info("booking status scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			if !s.running.CompareAndSwap(false, true) {
				s.log().Warn("previous pass still running, skipping tick")
				continue
			}
			// The pass runs off the ticker goroutine so a slow pass is
			// observed by the flag instead of backing up the ticker.
			passes.Add(1)
			go func() {
				defer passes.Done()
				defer s.running.Store(false)
				report, err := s.RunPass(ctx)
				if err != nil {
					s.log().Error("scheduler pass failed", "error", err)
					return
				}
				if report.CheckedIn > 0 || report.CheckedOut > 0 || len(report.Failed) > 0 {
					s.log().Info("scheduler pass completed",
						"checked_in", report.CheckedIn,
						"checked_out", report.CheckedOut,
						"failed", len(report.Failed),
						"malformed", len(report.Malformed))
				}
			}()
		}
	}
}

// RunPass performs a single pass at the current instant. A persistence
// failure for one booking never aborts the rest of the pass.
func (s *Scheduler) RunPass(ctx context.Context) (PassReport, error) {
	if s.Bookings == nil {
		return PassReport{}, ErrStoreRequired
	}
	now := s.now()
	var report PassReport

	due, err := s.Bookings.ByStatusStartedBefore(ctx, booking.StatusConfirmed, now)
	if err != nil {
		return report, fmt.Errorf("scheduler: load due check-ins: %w", err)
	}
	for _, b := range due {
		s.transition(ctx, b, now, (*booking.Booking).CheckIn, &report.CheckedIn, &report)
	}

	ending, err := s.Bookings.ByStatusEndedBefore(ctx, booking.StatusCheckIn, now)
	if err != nil {
		return report, fmt.Errorf("scheduler: load due check-outs: %w", err)
	}
	for _, b := range ending {
		s.transition(ctx, b, now, (*booking.Booking).CheckOut, &report.CheckedOut, &report)
	}
	return report, nil
}

func (s *Scheduler) transition(ctx context.Context, b *booking.Booking, now time.Time, apply func(*booking.Booking, time.Time) error, counter *int, report *PassReport) {
	// Malformed rows (check-in not before check-out) are unreachable
	// post-validation; report and skip rather than transition them.
	if err := b.Range.Validate(); err != nil {
		report.Malformed = append(report.Malformed, b.ID)
		s.log().Error("skipping malformed booking", "booking_id", b.ID, "error", err)
		return
	}
	if err := apply(b, now); err != nil {
		report.Failed = append(report.Failed, b.ID)
		s.log().Error("status transition rejected", "booking_id", b.ID, "status", b.Status, "error", err)
		return
	}
	if err := s.save(ctx, b); err != nil {
		report.Failed = append(report.Failed, b.ID)
		s.log().Error("persisting transition failed, deferring to next pass", "booking_id", b.ID, "status", b.Status, "error", err)
		return
	}
	if err := outbox.RecordDomainEvents(ctx, s.Outbox, nil, b.PendingEvents()); err != nil {
		s.log().Error("recording transition events failed", "booking_id", b.ID, "error", err)
	}
	b.ClearEvents()
	*counter++
}

func (s *Scheduler) save(ctx context.Context, b *booking.Booking) error {
	timeout := s.SaveTimeout
	if timeout <= 0 {
		timeout = defaultSaveTimeout
	}
	saveCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Bookings.Save(saveCtx, b)
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Scheduler) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
