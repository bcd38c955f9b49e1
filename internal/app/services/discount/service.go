package discount

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domaindiscount "innstay/internal/domain/discount"
	domainhotel "innstay/internal/domain/hotel"
)

var ErrNotOwner = errors.New("discount: account does not own this hotel")

type Service struct {
	Discounts domaindiscount.Repository
	Hotels    domainhotel.Repository
	Logger    *slog.Logger
	Now       func() time.Time
}

type CreateParams struct {
	HotelID    string
	OwnerID    string
	Code       string
	Percent    int
	ValidFrom  time.Time
	ValidUntil time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*domaindiscount.Discount, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	h, err := s.ownedHotel(ctx, params.HotelID, params.OwnerID)
	if err != nil {
		return nil, err
	}
	d, err := domaindiscount.New(domaindiscount.CreateParams{
		ID:         domaindiscount.DiscountID(uuid.NewString()),
		HotelID:    h.ID,
		Code:       params.Code,
		Percent:    params.Percent,
		ValidFrom:  params.ValidFrom,
		ValidUntil: params.ValidUntil,
		Now:        s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Discounts.Save(ctx, d); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("discount created", "hotel_id", h.ID, "code", d.Code, "percent", d.Percent)
	}
	return d, nil
}

func (s *Service) Disable(ctx context.Context, hotelID, ownerID, code string) (*domaindiscount.Discount, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	h, err := s.ownedHotel(ctx, hotelID, ownerID)
	if err != nil {
		return nil, err
	}
	d, err := s.Discounts.ByCode(ctx, h.ID, domaindiscount.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	d.Disable()
	if err := s.Discounts.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) List(ctx context.Context, hotelID, ownerID string) ([]*domaindiscount.Discount, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	h, err := s.ownedHotel(ctx, hotelID, ownerID)
	if err != nil {
		return nil, err
	}
	return s.Discounts.ListByHotel(ctx, h.ID)
}

func (s *Service) ownedHotel(ctx context.Context, hotelID, ownerID string) (*domainhotel.Hotel, error) {
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
	switch {
	case s.Discounts == nil:
		return errors.New("discount: repository required")
	case s.Hotels == nil:
		return errors.New("discount: hotel repository required")
	default:
		return nil
	}
}
