package dto

import (
	"time"

	domainrating "innstay/internal/domain/rating"
)

type RatingDTO struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	HotelID   string    `json:"hotel_id"`
	AuthorID  string    `json:"author_id"`
	Score     int       `json:"score"`
	Text      string    `json:"text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RatingCollection struct {
	Items []RatingDTO `json:"items"`
}

func MapRating(r *domainrating.Rating) RatingDTO {
	if r == nil {
		return RatingDTO{}
	}
	return RatingDTO{
		ID:        string(r.ID),
		BookingID: string(r.BookingID),
		HotelID:   string(r.HotelID),
		AuthorID:  r.AuthorID,
		Score:     r.Score,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func MapRatingCollection(ratings []*domainrating.Rating) RatingCollection {
	items := make([]RatingDTO, 0, len(ratings))
	for _, r := range ratings {
		items = append(items, MapRating(r))
	}
	return RatingCollection{Items: items}
}
