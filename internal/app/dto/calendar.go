package dto

import (
	"time"

	"innstay/internal/domain/shared/daterange"
)

type BookedWindow struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// BookedCalendar lists the occupied windows of one hotel, sorted by check-in.
type BookedCalendar struct {
	HotelID string         `json:"hotel_id"`
	Windows []BookedWindow `json:"windows"`
}

func MapBookedCalendar(hotelID string, windows []daterange.DateRange) BookedCalendar {
	mapped := make([]BookedWindow, 0, len(windows))
	for _, w := range windows {
		mapped = append(mapped, BookedWindow{CheckIn: w.CheckIn, CheckOut: w.CheckOut})
	}
	return BookedCalendar{HotelID: hotelID, Windows: mapped}
}
