package hotel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	domainhotel "innstay/internal/domain/hotel"
	domainrating "innstay/internal/domain/rating"
	"innstay/internal/domain/shared/money"
)

var ErrNotOwner = errors.New("hotel: account does not own this hotel")

// PhotoStore persists uploaded photos and returns a public URL.
type PhotoStore interface {
	Upload(ctx context.Context, key string, content io.Reader, size int64, contentType string) (string, error)
}

type Service struct {
	Hotels  domainhotel.Repository
	Ratings domainrating.Repository
	Photos  PhotoStore
	Logger  *slog.Logger
	Now     func() time.Time
}

type CreateParams struct {
	Name             string
	Description      string
	Address          domainhotel.Address
	Stars            int
	Amenities        []string
	NightlyRateCents int64
	Currency         string
}

type UpdateParams struct {
	Name             string
	Description      string
	Stars            int
	NightlyRateCents int64
	Currency         string
}

// Detail is a hotel together with its rating aggregate.
type Detail struct {
	Hotel         *domainhotel.Hotel
	AverageRating float64
	RatingCount   int
}

func (s *Service) Create(ctx context.Context, ownerID string, params CreateParams) (*domainhotel.Hotel, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	rate, err := money.New(params.NightlyRateCents, params.Currency)
	if err != nil {
		return nil, err
	}
	h, err := domainhotel.New(domainhotel.CreateParams{
		ID:          domainhotel.HotelID(uuid.NewString()),
		OwnerID:     ownerID,
		Name:        params.Name,
		Description: params.Description,
		Address:     params.Address,
		Stars:       params.Stars,
		Amenities:   params.Amenities,
		NightlyRate: rate,
		Now:         s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Hotels.Save(ctx, h); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("hotel created", "hotel_id", h.ID, "owner_id", h.OwnerID)
	}
	return h, nil
}

func (s *Service) Update(ctx context.Context, hotelID, ownerID string, params UpdateParams) (*domainhotel.Hotel, error) {
	h, err := s.owned(ctx, hotelID, ownerID)
	if err != nil {
		return nil, err
	}
	rate, err := money.New(params.NightlyRateCents, params.Currency)
	if err != nil {
		return nil, err
	}
	if err := h.UpdateDetails(params.Name, params.Description, params.Stars, rate, s.now()); err != nil {
		return nil, err
	}
	if err := s.Hotels.Save(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Service) Publish(ctx context.Context, hotelID, ownerID string) (*domainhotel.Hotel, error) {
	h, err := s.owned(ctx, hotelID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := h.Publish(s.now()); err != nil {
		return nil, err
	}
	if err := s.Hotels.Save(ctx, h); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("hotel published", "hotel_id", h.ID)
	}
	return h, nil
}

func (s *Service) Archive(ctx context.Context, hotelID, ownerID string) (*domainhotel.Hotel, error) {
	h, err := s.owned(ctx, hotelID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := h.Archive(s.now()); err != nil {
		return nil, err
	}
	if err := s.Hotels.Save(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// AttachPhoto uploads the content and records the resulting URL on the hotel.
func (s *Service) AttachPhoto(ctx context.Context, hotelID, ownerID, filename string, content io.Reader, size int64, contentType string) (*domainhotel.Hotel, error) {
	if s.Photos == nil {
		return nil, errors.New("hotel: photo store required")
	}
	h, err := s.owned(ctx, hotelID, ownerID)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("hotels/%s/%s%s", h.ID, uuid.NewString(), strings.ToLower(path.Ext(filename)))
	url, err := s.Photos.Upload(ctx, key, content, size, contentType)
	if err != nil {
		return nil, err
	}
	h.AttachPhoto(url, s.now())
	if err := s.Hotels.Save(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Service) Get(ctx context.Context, hotelID string) (*Detail, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	h, err := s.Hotels.ByID(ctx, domainhotel.HotelID(hotelID))
	if err != nil {
		return nil, err
	}
	d := &Detail{Hotel: h}
	if s.Ratings != nil {
		avg, count, err := s.Ratings.AverageByHotel(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		d.AverageRating = avg
		d.RatingCount = count
	}
	return d, nil
}

// Search lists hotels for the public catalog; only active hotels are shown.
func (s *Service) Search(ctx context.Context, params domainhotel.SearchParams) ([]*domainhotel.Hotel, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	params.OnlyActive = true
	return s.Hotels.Search(ctx, params)
}

// OwnerHotels lists all of the owner's hotels regardless of state.
func (s *Service) OwnerHotels(ctx context.Context, ownerID string) ([]*domainhotel.Hotel, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	return s.Hotels.Search(ctx, domainhotel.SearchParams{OwnerID: ownerID})
}

func (s *Service) owned(ctx context.Context, hotelID, ownerID string) (*domainhotel.Hotel, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	h, err := s.Hotels.ByID(ctx, domainhotel.HotelID(hotelID))
	if err != nil {
		return nil, err
	}
	if !h.OwnedBy(ownerID) {
		return nil, ErrNotOwner
	}
	return h, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) ensureDependencies() error {
	if s.Hotels == nil {
		return errors.New("hotel: repository required")
	}
	return nil
}
