package dto

import (
	"time"

	domainhotel "innstay/internal/domain/hotel"
)

// HotelAddress is the public location snapshot.
type HotelAddress struct {
	Line1   string  `json:"line1"`
	Line2   string  `json:"line2"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type HotelSummary struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Address     HotelAddress `json:"address"`
	Stars       int          `json:"stars"`
	NightlyRate MoneyDTO     `json:"nightly_rate"`
	PhotoURL    string       `json:"photo_url,omitempty"`
	State       string       `json:"state"`
}

type HotelCollection struct {
	Items []HotelSummary `json:"items"`
}

// HotelDetail aggregates hotel attributes with the rating aggregate.
type HotelDetail struct {
	ID            string       `json:"id"`
	OwnerID       string       `json:"owner_id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Address       HotelAddress `json:"address"`
	Stars         int          `json:"stars"`
	Amenities     []string     `json:"amenities"`
	NightlyRate   MoneyDTO     `json:"nightly_rate"`
	PhotoURLs     []string     `json:"photo_urls"`
	State         string       `json:"state"`
	AverageRating float64      `json:"average_rating"`
	RatingCount   int          `json:"rating_count"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func MapHotelAddress(addr domainhotel.Address) HotelAddress {
	return HotelAddress{
		Line1:   addr.Line1,
		Line2:   addr.Line2,
		City:    addr.City,
		Country: addr.Country,
		Lat:     addr.Lat,
		Lon:     addr.Lon,
	}
}

func MapHotelSummary(h *domainhotel.Hotel) HotelSummary {
	if h == nil {
		return HotelSummary{}
	}
	summary := HotelSummary{
		ID:          string(h.ID),
		Name:        h.Name,
		Address:     MapHotelAddress(h.Address),
		Stars:       h.Stars,
		NightlyRate: MapMoney(h.NightlyRate),
		State:       string(h.State),
	}
	if len(h.PhotoURLs) > 0 {
		summary.PhotoURL = h.PhotoURLs[0]
	}
	return summary
}

func MapHotelCollection(hotels []*domainhotel.Hotel) HotelCollection {
	items := make([]HotelSummary, 0, len(hotels))
	for _, h := range hotels {
		items = append(items, MapHotelSummary(h))
	}
	return HotelCollection{Items: items}
}

func MapHotelDetail(h *domainhotel.Hotel, averageRating float64, ratingCount int) HotelDetail {
	if h == nil {
		return HotelDetail{}
	}
	return HotelDetail{
		ID:            string(h.ID),
		OwnerID:       h.OwnerID,
		Name:          h.Name,
		Description:   h.Description,
		Address:       MapHotelAddress(h.Address),
		Stars:         h.Stars,
		Amenities:     append([]string(nil), h.Amenities...),
		NightlyRate:   MapMoney(h.NightlyRate),
		PhotoURLs:     append([]string(nil), h.PhotoURLs...),
		State:         string(h.State),
		AverageRating: averageRating,
		RatingCount:   ratingCount,
		CreatedAt:     h.CreatedAt,
		UpdatedAt:     h.UpdatedAt,
	}
}
