package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"innstay/internal/domain/booking"
)

// Uploader is the slice of the S3 client the renderer needs.
type Uploader interface {
	Upload(ctx context.Context, key string, content io.Reader, size int64, contentType string) (string, error)
}

// CSVRenderer writes the day's bookings as a CSV object and returns its URL.
type CSVRenderer struct {
	Store  Uploader
	Prefix string
}

func (r *CSVRenderer) Render(ctx context.Context, day time.Time, bookings []*booking.Booking) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"booking_id", "hotel_id", "guest_id", "check_in", "check_out", "status", "amount", "currency"}); err != nil {
		return "", err
	}
	for _, b := range bookings {
		row := []string{
			string(b.ID),
			string(b.HotelID),
			b.GuestID,
			b.Range.CheckIn.Format(time.RFC3339),
			b.Range.CheckOut.Format(time.RFC3339),
			string(b.Status),
			strconv.FormatInt(b.Total.Amount, 10),
			b.Total.Currency,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	prefix := r.Prefix
	if prefix == "" {
		prefix = "reports"
	}
	key := fmt.Sprintf("%s/%s.csv", prefix, day.Format(time.DateOnly))
	if r.Store == nil {
		return key, nil
	}
	return r.Store.Upload(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), "text/csv")
}
