package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"innstay/internal/app/availability"
	"innstay/internal/app/dto"
	bookingsvc "innstay/internal/app/services/booking"
	domainbooking "innstay/internal/domain/booking"
	domainhotel "innstay/internal/domain/hotel"
	"innstay/internal/domain/shared/daterange"
)

type BookingHandler struct {
	Service *bookingsvc.Service
	Hotels  domainhotel.Repository
	Logger  *slog.Logger
}

type createBookingRequest struct {
	HotelID      string    `json:"hotel_id"`
	CheckIn      time.Time `json:"check_in"`
	CheckOut     time.Time `json:"check_out"`
	DiscountCode string    `json:"discount_code"`
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h BookingHandler) Create(c *gin.Context) {
	guest, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "booking service unavailable"})
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	created, err := h.Service.Create(c.Request.Context(), bookingsvc.CreateParams{
		HotelID:      req.HotelID,
		GuestID:      guest.ID,
		CheckIn:      req.CheckIn,
		CheckOut:     req.CheckOut,
		DiscountCode: req.DiscountCode,
	})
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapBookingSummary(created, h.lookupHotel(c, created.HotelID)))
}

func (h BookingHandler) Cancel(c *gin.Context) {
	actor, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "booking service unavailable"})
		return
	}
	// Body is optional; an absent reason is fine.
	var req cancelBookingRequest
	_ = c.ShouldBindJSON(&req)
	cancelled, err := h.Service.Cancel(c.Request.Context(), c.Param("id"), actor.ID, req.Reason)
	if err != nil {
		h.respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBookingSummary(cancelled, h.lookupHotel(c, cancelled.HotelID)))
}

// MyBookings lists the caller's bookings, newest first.
func (h BookingHandler) MyBookings(c *gin.Context) {
	guest, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "booking service unavailable"})
		return
	}
	bookings, err := h.Service.GuestBookings(c.Request.Context(), guest.ID)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("guest bookings lookup failed", "error", err, "guest_id", guest.ID)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bookings"})
		return
	}
	hotels := make(map[domainhotel.HotelID]*domainhotel.Hotel)
	if h.Hotels != nil {
		for _, b := range bookings {
			if _, seen := hotels[b.HotelID]; seen {
				continue
			}
			if hotel, err := h.Hotels.ByID(c.Request.Context(), b.HotelID); err == nil {
				hotels[b.HotelID] = hotel
			}
		}
	}
	c.JSON(http.StatusOK, dto.MapBookingCollection(bookings, hotels))
}

func (h BookingHandler) lookupHotel(c *gin.Context, id domainhotel.HotelID) *domainhotel.Hotel {
	if h.Hotels == nil {
		return nil
	}
	hotel, err := h.Hotels.ByID(c.Request.Context(), id)
	if err != nil {
		return nil
	}
	return hotel
}

func (h BookingHandler) respondBookingError(c *gin.Context, err error) {
	var conflict *availability.ConflictError
	switch {
	case errors.As(err, &conflict):
		// The occupied window goes back to the caller so the client can
		// show which dates are blocking.
		c.JSON(http.StatusConflict, gin.H{
			"error":                 "dates are not available",
			"conflicting_check_in":  conflict.Conflicting.CheckIn,
			"conflicting_check_out": conflict.Conflicting.CheckOut,
		})
	case errors.Is(err, bookingsvc.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "not your booking"})
	case errors.Is(err, domainbooking.ErrNotFound), errors.Is(err, domainhotel.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domainbooking.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, bookingsvc.ErrCheckInInPast),
		errors.Is(err, bookingsvc.ErrHotelNotActive),
		errors.Is(err, bookingsvc.ErrDiscountInvalid),
		errors.Is(err, daterange.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("booking operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ BookingHTTP = BookingHandler{}
