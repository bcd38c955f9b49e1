package dto

import (
	"time"

	domainbooking "innstay/internal/domain/booking"
	domainhotel "innstay/internal/domain/hotel"
	"innstay/internal/domain/shared/money"
)

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type BookingHotelSnapshot struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Country  string `json:"country"`
	PhotoURL string `json:"photo_url"`
}

type BookingSummary struct {
	ID        string               `json:"id"`
	Hotel     BookingHotelSnapshot `json:"hotel"`
	GuestID   string               `json:"guest_id"`
	CheckIn   time.Time            `json:"check_in"`
	CheckOut  time.Time            `json:"check_out"`
	Nights    int                  `json:"nights"`
	Status    string               `json:"status"`
	Total     MoneyDTO             `json:"total"`
	CreatedAt time.Time            `json:"created_at"`
}

type BookingCollection struct {
	Items []BookingSummary `json:"items"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{
		Amount:   value.Amount,
		Currency: value.Currency,
	}
}

func MapBookingSummary(booking *domainbooking.Booking, hotel *domainhotel.Hotel) BookingSummary {
	snapshot := BookingHotelSnapshot{
		ID: string(booking.HotelID),
	}
	if hotel != nil {
		snapshot.Name = hotel.Name
		snapshot.City = hotel.Address.City
		snapshot.Country = hotel.Address.Country
		if len(hotel.PhotoURLs) > 0 {
			snapshot.PhotoURL = hotel.PhotoURLs[0]
		}
	}
	return BookingSummary{
		ID:        string(booking.ID),
		Hotel:     snapshot,
		GuestID:   booking.GuestID,
		CheckIn:   booking.Range.CheckIn,
		CheckOut:  booking.Range.CheckOut,
		Nights:    booking.Range.Nights(),
		Status:    string(booking.Status),
		Total:     MapMoney(booking.Total),
		CreatedAt: booking.CreatedAt,
	}
}

func MapBookingCollection(bookings []*domainbooking.Booking, hotels map[domainhotel.HotelID]*domainhotel.Hotel) BookingCollection {
	items := make([]BookingSummary, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, MapBookingSummary(b, hotels[b.HotelID]))
	}
	return BookingCollection{Items: items}
}
