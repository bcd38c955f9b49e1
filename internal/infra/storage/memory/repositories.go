package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainbooking "innstay/internal/domain/booking"
	domaindiscount "innstay/internal/domain/discount"
	domainhotel "innstay/internal/domain/hotel"
	domainrating "innstay/internal/domain/rating"
	"innstay/internal/domain/shared/events"
)

// HotelRepository is an in-memory implementation for tests and local runs.
type HotelRepository struct {
	mu    sync.RWMutex
	items map[domainhotel.HotelID]*domainhotel.Hotel
}

func NewHotelRepository() *HotelRepository {
	return &HotelRepository{items: make(map[domainhotel.HotelID]*domainhotel.Hotel)}
}

func (r *HotelRepository) ByID(ctx context.Context, id domainhotel.HotelID) (*domainhotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.items[id]
	if !ok {
		return nil, domainhotel.ErrNotFound
	}
	return cloneHotel(h), nil
}

func (r *HotelRepository) Save(ctx context.Context, hotel *domainhotel.Hotel) error {
	if hotel == nil || hotel.ID == "" {
		return domainhotel.ErrIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	hotel.Version++
	r.items[hotel.ID] = cloneHotel(hotel)
	return nil
}

func (r *HotelRepository) Search(ctx context.Context, params domainhotel.SearchParams) ([]*domainhotel.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]*domainhotel.Hotel, 0, len(r.items))
	for _, h := range r.items {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		if params.OnlyActive && h.State != domainhotel.StateActive {
			continue
		}
		if params.OwnerID != "" && h.OwnerID != params.OwnerID {
			continue
		}
		if params.City != "" && !strings.EqualFold(h.Address.City, params.City) {
			continue
		}
		if params.MinStars > 0 && h.Stars < params.MinStars {
			continue
		}
		matches = append(matches, cloneHotel(h))
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return page(matches, params.Limit, params.Offset), nil
}

func cloneHotel(h *domainhotel.Hotel) *domainhotel.Hotel {
	if h == nil {
		return nil
	}
	copyHotel := *h
	copyHotel.Amenities = append([]string(nil), h.Amenities...)
	copyHotel.PhotoURLs = append([]string(nil), h.PhotoURLs...)
	return &copyHotel
}

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) Save(ctx context.Context, booking *domainbooking.Booking) error {
	if booking == nil || booking.ID == "" {
		return domainbooking.ErrIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.items[booking.ID]; ok && current.Version != booking.Version {
		return domainbooking.ErrVersionConflict
	}
	booking.Version++
	r.items[booking.ID] = cloneBooking(booking)
	return nil
}

func (r *BookingRepository) ByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	return r.filter(func(b *domainbooking.Booking) bool {
		return b.GuestID == guestID
	})
}

func (r *BookingRepository) ByHotel(ctx context.Context, hotelID domainhotel.HotelID) ([]*domainbooking.Booking, error) {
	return r.filter(func(b *domainbooking.Booking) bool {
		return b.HotelID == hotelID
	})
}

func (r *BookingRepository) ActiveByHotel(ctx context.Context, hotelID domainhotel.HotelID) ([]*domainbooking.Booking, error) {
	return r.filter(func(b *domainbooking.Booking) bool {
		return b.HotelID == hotelID && b.Status.Active()
	})
}

func (r *BookingRepository) ByStatusStartedBefore(ctx context.Context, status domainbooking.Status, at time.Time) ([]*domainbooking.Booking, error) {
	return r.filter(func(b *domainbooking.Booking) bool {
		return b.Status == status && !b.Range.CheckIn.After(at)
	})
}

func (r *BookingRepository) ByStatusEndedBefore(ctx context.Context, status domainbooking.Status, at time.Time) ([]*domainbooking.Booking, error) {
	return r.filter(func(b *domainbooking.Booking) bool {
		return b.Status == status && !b.Range.CheckOut.After(at)
	})
}

func (r *BookingRepository) CreatedBetween(ctx context.Context, from, to time.Time) ([]*domainbooking.Booking, error) {
	return r.filter(func(b *domainbooking.Booking) bool {
		return !b.CreatedAt.Before(from) && b.CreatedAt.Before(to)
	})
}

func (r *BookingRepository) filter(pred func(*domainbooking.Booking) bool) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if pred(b) {
			matches = append(matches, cloneBooking(b))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	if b == nil {
		return nil
	}
	copyBooking := *b
	copyBooking.EventRecorder = events.EventRecorder{}
	return &copyBooking
}

// RatingRepository keeps one rating per booking in memory.
type RatingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainrating.Rating
}

func NewRatingRepository() *RatingRepository {
	return &RatingRepository{items: make(map[domainbooking.BookingID]*domainrating.Rating)}
}

func (r *RatingRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID) (*domainrating.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.items[bookingID]
	if !ok {
		return nil, domainrating.ErrNotFound
	}
	copyRating := *rt
	return &copyRating, nil
}

func (r *RatingRepository) Save(ctx context.Context, rating *domainrating.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copyRating := *rating
	r.items[rating.BookingID] = &copyRating
	return nil
}

func (r *RatingRepository) ListByHotel(ctx context.Context, hotelID domainhotel.HotelID, limit, offset int) ([]*domainrating.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainrating.Rating, 0)
	for _, rt := range r.items {
		if rt.HotelID != hotelID {
			continue
		}
		copyRating := *rt
		matches = append(matches, &copyRating)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return page(matches, limit, offset), nil
}

func (r *RatingRepository) AverageByHotel(ctx context.Context, hotelID domainhotel.HotelID) (float64, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sum, count := 0, 0
	for _, rt := range r.items {
		if rt.HotelID == hotelID {
			sum += rt.Score
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

// DiscountRepository indexes codes per hotel.
type DiscountRepository struct {
	mu    sync.RWMutex
	items map[string]*domaindiscount.Discount
}

func NewDiscountRepository() *DiscountRepository {
	return &DiscountRepository{items: make(map[string]*domaindiscount.Discount)}
}

func (r *DiscountRepository) ByCode(ctx context.Context, hotelID domainhotel.HotelID, code string) (*domaindiscount.Discount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.items[discountKey(hotelID, code)]
	if !ok {
		return nil, domaindiscount.ErrNotFound
	}
	copyDiscount := *d
	return &copyDiscount, nil
}

func (r *DiscountRepository) Save(ctx context.Context, discount *domaindiscount.Discount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := discountKey(discount.HotelID, discount.Code)
	if current, ok := r.items[key]; ok && current.ID != discount.ID {
		return domaindiscount.ErrCodeTaken
	}
	copyDiscount := *discount
	r.items[key] = &copyDiscount
	return nil
}

func (r *DiscountRepository) ListByHotel(ctx context.Context, hotelID domainhotel.HotelID) ([]*domaindiscount.Discount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domaindiscount.Discount, 0)
	for _, d := range r.items {
		if d.HotelID != hotelID {
			continue
		}
		copyDiscount := *d
		matches = append(matches, &copyDiscount)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Code < matches[j].Code
	})
	return matches, nil
}

func discountKey(hotelID domainhotel.HotelID, code string) string {
	return string(hotelID) + ":" + domaindiscount.NormalizeCode(code)
}

func page[T any](items []T, limit, offset int) []T {
	total := len(items)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return items[offset:end]
}

var (
	_ domainhotel.Repository    = (*HotelRepository)(nil)
	_ domainbooking.Repository  = (*BookingRepository)(nil)
	_ domainrating.Repository   = (*RatingRepository)(nil)
	_ domaindiscount.Repository = (*DiscountRepository)(nil)
)
