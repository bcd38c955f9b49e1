package discount

import (
	"context"
	"errors"
	"strings"
	"time"

	"innstay/internal/domain/hotel"
)

var (
	ErrCodeRequired   = errors.New("discount: code is required")
	ErrInvalidPercent = errors.New("discount: percent must be between 1 and 100")
	ErrInvalidWindow  = errors.New("discount: valid-until must be after valid-from")
	ErrNotFound       = errors.New("discount: not found")
	ErrCodeTaken      = errors.New("discount: code already exists for hotel")
)

type DiscountID string

// Discount is a percentage rebate code scoped to a single hotel and a
// validity window.
type Discount struct {
	ID         DiscountID
	HotelID    hotel.HotelID
	Code       string
	Percent    int
	ValidFrom  time.Time
	ValidUntil time.Time
	Disabled   bool
	CreatedAt  time.Time
}

type Repository interface {
	ByCode(ctx context.Context, hotelID hotel.HotelID, code string) (*Discount, error)
	ListByHotel(ctx context.Context, hotelID hotel.HotelID) ([]*Discount, error)
	Save(ctx context.Context, discount *Discount) error
}

type CreateParams struct {
	ID         DiscountID
	HotelID    hotel.HotelID
	Code       string
	Percent    int
	ValidFrom  time.Time
	ValidUntil time.Time
	Now        time.Time
}

func New(params CreateParams) (*Discount, error) {
	code := NormalizeCode(params.Code)
	if code == "" {
		return nil, ErrCodeRequired
	}
	if params.Percent < 1 || params.Percent > 100 {
		return nil, ErrInvalidPercent
	}
	if !params.ValidUntil.After(params.ValidFrom) {
		return nil, ErrInvalidWindow
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	return &Discount{
		ID:         params.ID,
		HotelID:    params.HotelID,
		Code:       code,
		Percent:    params.Percent,
		ValidFrom:  params.ValidFrom.UTC(),
		ValidUntil: params.ValidUntil.UTC(),
		CreatedAt:  now.UTC(),
	}, nil
}

// Applicable reports whether the code can be redeemed at the given instant.
func (d *Discount) Applicable(at time.Time) bool {
	if d.Disabled {
		return false
	}
	at = at.UTC()
	return !at.Before(d.ValidFrom) && at.Before(d.ValidUntil)
}

func (d *Discount) Disable() {
	d.Disabled = true
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
