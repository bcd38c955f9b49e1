package payments

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"innstay/internal/app/services/payment"
	domainbooking "innstay/internal/domain/booking"
	"innstay/internal/domain/shared/money"
)

// FakeProvider simulates a payment gateway in memory. The redirect URL points
// at the API's own callback endpoint so local flows can complete end to end.
type FakeProvider struct {
	BaseURL string

	mu       sync.Mutex
	sessions map[string]domainbooking.BookingID
}

func NewFakeProvider(baseURL string) *FakeProvider {
	return &FakeProvider{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		sessions: make(map[string]domainbooking.BookingID),
	}
}

func (p *FakeProvider) StartCheckout(ctx context.Context, bookingID domainbooking.BookingID, amount money.Money) (*payment.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := uuid.NewString()
	p.sessions[id] = bookingID
	return &payment.CheckoutSession{
		ID:          id,
		BookingID:   bookingID,
		Amount:      amount,
		RedirectURL: p.BaseURL + "/v1/payments/checkout/" + id,
	}, nil
}

func (p *FakeProvider) SessionBooking(ctx context.Context, sessionID string) (domainbooking.BookingID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	bookingID, ok := p.sessions[sessionID]
	if !ok {
		return "", payment.ErrUnknownSession
	}
	return bookingID, nil
}

var _ payment.CheckoutProvider = (*FakeProvider)(nil)
