package dto

import (
	"time"

	domaindiscount "innstay/internal/domain/discount"
)

type DiscountDTO struct {
	ID         string    `json:"id"`
	HotelID    string    `json:"hotel_id"`
	Code       string    `json:"code"`
	Percent    int       `json:"percent"`
	ValidFrom  time.Time `json:"valid_from"`
	ValidUntil time.Time `json:"valid_until"`
	Disabled   bool      `json:"disabled"`
	CreatedAt  time.Time `json:"created_at"`
}

type DiscountCollection struct {
	Items []DiscountDTO `json:"items"`
}

func MapDiscount(d *domaindiscount.Discount) DiscountDTO {
	if d == nil {
		return DiscountDTO{}
	}
	return DiscountDTO{
		ID:         string(d.ID),
		HotelID:    string(d.HotelID),
		Code:       d.Code,
		Percent:    d.Percent,
		ValidFrom:  d.ValidFrom,
		ValidUntil: d.ValidUntil,
		Disabled:   d.Disabled,
		CreatedAt:  d.CreatedAt,
	}
}

func MapDiscountCollection(discounts []*domaindiscount.Discount) DiscountCollection {
	items := make([]DiscountDTO, 0, len(discounts))
	for _, d := range discounts {
		items = append(items, MapDiscount(d))
	}
	return DiscountCollection{Items: items}
}
