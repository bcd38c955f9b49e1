package hotel

import (
	"context"
	"errors"
	"strings"
	"time"

	"innstay/internal/domain/shared/money"
)

var (
	ErrIDRequired    = errors.New("hotel: id is required")
	ErrOwnerRequired = errors.New("hotel: owner is required")
	ErrNameRequired  = errors.New("hotel: name is required")
	ErrAddress       = errors.New("hotel: address must have line1, city and country")
	ErrNightlyRate   = errors.New("hotel: nightly rate must be non-negative")
	ErrStars         = errors.New("hotel: stars must be between 1 and 5")
	ErrInvalidState  = errors.New("hotel: invalid state transition")
	ErrNotFound      = errors.New("hotel: not found")
)

type HotelID string

type State string

const (
	StateDraft    State = "DRAFT"
	StateActive   State = "ACTIVE"
	StateArchived State = "ARCHIVED"
)

type Address struct {
	Line1   string
	Line2   string
	City    string
	Country string
	Lat     float64
	Lon     float64
}

func (a Address) Valid() bool {
	return strings.TrimSpace(a.Line1) != "" && strings.TrimSpace(a.City) != "" && strings.TrimSpace(a.Country) != ""
}

type Hotel struct {
	ID          HotelID
	OwnerID     string
	Name        string
	Description string
	Address     Address
	Stars       int
	Amenities   []string
	NightlyRate money.Money
	PhotoURLs   []string
	State       State
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int64
}

type SearchParams struct {
	City       string
	OwnerID    string
	MinStars   int
	OnlyActive bool
	Limit      int
	Offset     int
}

type Repository interface {
	ByID(ctx context.Context, id HotelID) (*Hotel, error)
	Search(ctx context.Context, params SearchParams) ([]*Hotel, error)
	Save(ctx context.Context, hotel *Hotel) error
}

type CreateParams struct {
	ID          HotelID
	OwnerID     string
	Name        string
	Description string
	Address     Address
	Stars       int
	Amenities   []string
	NightlyRate money.Money
	Now         time.Time
}

func New(params CreateParams) (*Hotel, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(params.OwnerID) == "" {
		return nil, ErrOwnerRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if params.Stars < 1 || params.Stars > 5 {
		return nil, ErrStars
	}
	if params.NightlyRate.Amount < 0 {
		return nil, ErrNightlyRate
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Hotel{
		ID:          params.ID,
		OwnerID:     params.OwnerID,
		Name:        name,
		Description: strings.TrimSpace(params.Description),
		Address:     params.Address,
		Stars:       params.Stars,
		Amenities:   append([]string(nil), params.Amenities...),
		NightlyRate: params.NightlyRate,
		State:       StateDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Publish makes the hotel visible in the public catalog. A full address is
// required at this point, not at draft creation.
func (h *Hotel) Publish(now time.Time) error {
	if h.State != StateDraft {
		return ErrInvalidState
	}
	if !h.Address.Valid() {
		return ErrAddress
	}
	h.State = StateActive
	h.touch(now)
	return nil
}

func (h *Hotel) Archive(now time.Time) error {
	if h.State != StateActive {
		return ErrInvalidState
	}
	h.State = StateArchived
	h.touch(now)
	return nil
}

func (h *Hotel) UpdateDetails(name, description string, stars int, rate money.Money, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	if stars < 1 || stars > 5 {
		return ErrStars
	}
	if rate.Amount < 0 {
		return ErrNightlyRate
	}
	h.Name = name
	h.Description = strings.TrimSpace(description)
	h.Stars = stars
	h.NightlyRate = rate
	h.touch(now)
	return nil
}

func (h *Hotel) AttachPhoto(url string, now time.Time) {
	url = strings.TrimSpace(url)
	if url == "" {
		return
	}
	h.PhotoURLs = append(h.PhotoURLs, url)
	h.touch(now)
}

func (h *Hotel) OwnedBy(accountID string) bool {
	return h.OwnerID == accountID
}

func (h *Hotel) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	h.UpdatedAt = now.UTC()
}
