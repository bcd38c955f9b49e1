package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainaccount "innstay/internal/domain/account"
	domainbooking "innstay/internal/domain/booking"
	"innstay/internal/domain/shared/daterange"
	"innstay/internal/domain/shared/money"
	"innstay/internal/infra/storage/memory"
)

type recordingMailer struct {
	to       []string
	subjects []string
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.to = append(m.to, to)
	m.subjects = append(m.subjects, subject)
	return nil
}

func setup(t *testing.T) (*Handler, *recordingMailer) {
	t.Helper()
	bookings := memory.NewBookingRepository()
	accounts := memory.NewAccountRepository()

	acc, err := domainaccount.New(domainaccount.CreateParams{
		ID: "guest-1", Email: "guest@example.com", Name: "Pat",
		PasswordHash: "x", CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, accounts.Save(context.Background(), acc))

	b, err := domainbooking.New(domainbooking.CreateParams{
		ID: "b-1", HotelID: "h-1", GuestID: "guest-1",
		Range: daterange.DateRange{
			CheckIn:  time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC),
			CheckOut: time.Date(2026, time.September, 12, 0, 0, 0, 0, time.UTC),
		},
		Total: money.Must(20000, "EUR"), Confirmed: true, CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, bookings.Save(context.Background(), b))

	mailer := &recordingMailer{}
	return &Handler{Bookings: bookings, Accounts: accounts, Mailer: mailer}, mailer
}

func message(t *testing.T, eventType, bookingID string) *sarama.ConsumerMessage {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"type": eventType,
		"data": map[string]any{"BookingID": bookingID},
	})
	require.NoError(t, err)
	return &sarama.ConsumerMessage{Topic: "booking.events.v1", Value: payload}
}

func TestHandleMailsGuestOnConfirmation(t *testing.T) {
	h, mailer := setup(t)

	err := h.Handle(context.Background(), message(t, "booking.confirmed.v1", "b-1"))
	require.NoError(t, err)

	require.Len(t, mailer.to, 1)
	assert.Equal(t, "guest@example.com", mailer.to[0])
	assert.Equal(t, "Your booking is confirmed", mailer.subjects[0])
}

func TestHandleSkipsUnknownEventType(t *testing.T) {
	h, mailer := setup(t)

	err := h.Handle(context.Background(), message(t, "hotel.published.v1", "b-1"))
	require.NoError(t, err)
	assert.Empty(t, mailer.to)
}

func TestHandleSkipsUnknownBooking(t *testing.T) {
	h, mailer := setup(t)

	err := h.Handle(context.Background(), message(t, "booking.cancelled.v1", "missing"))
	require.NoError(t, err)
	assert.Empty(t, mailer.to)
}

func TestHandleSkipsMalformedPayload(t *testing.T) {
	h, mailer := setup(t)

	err := h.Handle(context.Background(), &sarama.ConsumerMessage{Value: []byte("not json")})
	require.NoError(t, err)
	assert.Empty(t, mailer.to)
}

type memoryInbox struct {
	seen map[string]bool
}

func (i *memoryInbox) Seen(ctx context.Context, eventID string) (bool, error) {
	if i.seen == nil {
		i.seen = map[string]bool{}
	}
	if i.seen[eventID] {
		return true, nil
	}
	i.seen[eventID] = true
	return false, nil
}

func TestHandleDeduplicatesByEventID(t *testing.T) {
	h, mailer := setup(t)
	h.Inbox = &memoryInbox{}

	payload, err := json.Marshal(map[string]any{
		"id":   "evt-1",
		"type": "booking.confirmed.v1",
		"data": map[string]any{"BookingID": "b-1"},
	})
	require.NoError(t, err)
	msg := &sarama.ConsumerMessage{Topic: "booking.events.v1", Value: payload}

	require.NoError(t, h.Handle(context.Background(), msg))
	require.NoError(t, h.Handle(context.Background(), msg))
	assert.Len(t, mailer.to, 1)
}
