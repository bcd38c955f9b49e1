package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"innstay/internal/domain/account"
	"innstay/internal/domain/booking"
)

type MockBookingSource struct {
	mock.Mock
}

func (m *MockBookingSource) CreatedBetween(ctx context.Context, from, to time.Time) ([]*booking.Booking, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Booking), args.Error(1)
}

type MockRecipientSource struct {
	mock.Mock
}

func (m *MockRecipientSource) ByRole(ctx context.Context, role account.Role) ([]*account.Account, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, day time.Time, bookings []*booking.Booking) (string, error) {
	args := m.Called(ctx, day, bookings)
	return args.String(0), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

func TestRunOnce_MailsOwnersWithArtifact(t *testing.T) {
	now := time.Date(2024, 6, 2, 17, 30, 0, 0, time.UTC)
	dayStart := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	created := []*booking.Booking{{ID: "b1"}, {ID: "b2"}}
	owners := []*account.Account{
		{ID: "o1", Email: "one@hotel.test", Roles: []account.Role{account.RoleOwner}},
		{ID: "o2", Email: "two@hotel.test", Roles: []account.Role{account.RoleOwner}},
	}

	bookings := &MockBookingSource{}
	bookings.On("CreatedBetween", mock.Anything, dayStart, dayStart.Add(24*time.Hour)).Return(created, nil).Once()
	accounts := &MockRecipientSource{}
	accounts.On("ByRole", mock.Anything, account.RoleOwner).Return(owners, nil).Once()
	renderer := &MockRenderer{}
	renderer.On("Render", mock.Anything, dayStart, created).Return("https://reports.test/2024-06-02.pdf", nil).Once()
	mailer := &MockMailer{}
	mailer.On("Send", mock.Anything, "one@hotel.test", mock.Anything, mock.MatchedBy(func(body string) bool {
		return body != ""
	})).Return(nil).Once()
	mailer.On("Send", mock.Anything, "two@hotel.test", mock.Anything, mock.Anything).Return(nil).Once()

	reporter := &DailyReporter{
		Bookings: bookings,
		Accounts: accounts,
		Renderer: renderer,
		Mailer:   mailer,
		Now:      func() time.Time { return now },
	}

	summary, err := reporter.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dayStart, summary.Day)
	assert.Equal(t, 2, summary.Bookings)
	assert.Equal(t, 2, summary.Recipients)
	assert.Zero(t, summary.FailedMail)
	assert.Equal(t, "https://reports.test/2024-06-02.pdf", summary.Artifact)

	bookings.AssertExpectations(t)
	accounts.AssertExpectations(t)
	renderer.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestRunOnce_MailFailureIsolatedPerRecipient(t *testing.T) {
	owners := []*account.Account{
		{ID: "o1", Email: "one@hotel.test"},
		{ID: "o2", Email: "two@hotel.test"},
		{ID: "o3", Email: "three@hotel.test"},
	}

	bookings := &MockBookingSource{}
	bookings.On("CreatedBetween", mock.Anything, mock.Anything, mock.Anything).Return([]*booking.Booking{}, nil).Once()
	accounts := &MockRecipientSource{}
	accounts.On("ByRole", mock.Anything, account.RoleOwner).Return(owners, nil).Once()
	renderer := &MockRenderer{}
	renderer.On("Render", mock.Anything, mock.Anything, mock.Anything).Return("ref", nil).Once()
	mailer := &MockMailer{}
	mailer.On("Send", mock.Anything, "one@hotel.test", mock.Anything, mock.Anything).Return(nil).Once()
	mailer.On("Send", mock.Anything, "two@hotel.test", mock.Anything, mock.Anything).Return(errors.New("smtp unavailable")).Once()
	mailer.On("Send", mock.Anything, "three@hotel.test", mock.Anything, mock.Anything).Return(nil).Once()

	reporter := &DailyReporter{Bookings: bookings, Accounts: accounts, Renderer: renderer, Mailer: mailer}

	summary, err := reporter.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FailedMail)
	mailer.AssertExpectations(t)
}

func TestRunOnce_RenderFailureAborts(t *testing.T) {
	bookings := &MockBookingSource{}
	bookings.On("CreatedBetween", mock.Anything, mock.Anything, mock.Anything).Return([]*booking.Booking{}, nil).Once()
	renderer := &MockRenderer{}
	renderer.On("Render", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("render broke")).Once()
	accounts := &MockRecipientSource{}
	mailer := &MockMailer{}

	reporter := &DailyReporter{Bookings: bookings, Accounts: accounts, Renderer: renderer, Mailer: mailer}

	_, err := reporter.RunOnce(context.Background())
	assert.ErrorContains(t, err, "render broke")
	accounts.AssertNotCalled(t, "ByRole", mock.Anything, mock.Anything)
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunOnce_RequiresCollaborators(t *testing.T) {
	reporter := &DailyReporter{}
	_, err := reporter.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}
