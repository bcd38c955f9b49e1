package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"innstay/internal/domain/account"
	"innstay/internal/domain/booking"
)

var ErrNotConfigured = errors.New("report: bookings, accounts, renderer and mailer are required")

const defaultInterval = 24 * time.Hour

type BookingSource interface {
	CreatedBetween(ctx context.Context, from, to time.Time) ([]*booking.Booking, error)
}

type RecipientSource interface {
	ByRole(ctx context.Context, role account.Role) ([]*account.Account, error)
}

// Renderer turns the day's bookings into an artifact and returns an opaque
// reference to it (a URL or object key, depending on the implementation).
type Renderer interface {
	Render(ctx context.Context, day time.Time, bookings []*booking.Booking) (string, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Summary struct {
	Day        time.Time
	Bookings   int
	Recipients int
	FailedMail int
	Artifact   string
}

// DailyReporter aggregates the bookings created during the current UTC day,
// renders a summary artifact and mails the reference to every owner account.
// Pure read plus external side effects; no decision logic of its own.
type DailyReporter struct {
	Bookings BookingSource
	Accounts RecipientSource
	Renderer Renderer
	Mailer   Mailer
	Interval time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

func (r *DailyReporter) Run(ctx context.Context) error {
	if err := r.ensureConfigured(); err != nil {
		return err
	}
	interval := r.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.log().Info("daily report trigger started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			r.log().Info("daily report trigger stopped")
			return ctx.Err()
		case <-ticker.C:
			summary, err := r.RunOnce(ctx)
			if err != nil {
				r.log().Error("daily report failed", "error", err)
				continue
			}
			r.log().Info("daily report dispatched",
				"day", summary.Day.Format(time.DateOnly),
				"bookings", summary.Bookings,
				"recipients", summary.Recipients,
				"failed_mail", summary.FailedMail)
		}
	}
}

// RunOnce builds and dispatches the report for the current UTC day.
// Mail failures are isolated per recipient.
func (r *DailyReporter) RunOnce(ctx context.Context) (Summary, error) {
	if err := r.ensureConfigured(); err != nil {
		return Summary{}, err
	}
	now := r.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	created, err := r.Bookings.CreatedBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return Summary{}, fmt.Errorf("report: load bookings: %w", err)
	}

	artifact, err := r.Renderer.Render(ctx, dayStart, created)
	if err != nil {
		return Summary{}, fmt.Errorf("report: render: %w", err)
	}

	owners, err := r.Accounts.ByRole(ctx, account.RoleOwner)
	if err != nil {
		return Summary{}, fmt.Errorf("report: load recipients: %w", err)
	}

	summary := Summary{Day: dayStart, Bookings: len(created), Recipients: len(owners), Artifact: artifact}
	subject := fmt.Sprintf("Booking report for %s", dayStart.Format(time.DateOnly))
	body := fmt.Sprintf("%d bookings were created today. Full report: %s", len(created), artifact)
	for _, owner := range owners {
		if err := r.Mailer.Send(ctx, owner.Email, subject, body); err != nil {
			summary.FailedMail++
			r.log().Error("report mail failed", "recipient", owner.Email, "error", err)
		}
	}
	return summary, nil
}

func (r *DailyReporter) ensureConfigured() error {
	if r.Bookings == nil || r.Accounts == nil || r.Renderer == nil || r.Mailer == nil {
		return ErrNotConfigured
	}
	return nil
}

func (r *DailyReporter) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

func (r *DailyReporter) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
