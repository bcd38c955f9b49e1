package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"

	gin "github.com/gin-gonic/gin"

	"innstay/internal/app/dto"
	bookingsvc "innstay/internal/app/services/booking"
	hotelsvc "innstay/internal/app/services/hotel"
	domainhotel "innstay/internal/domain/hotel"
	"innstay/internal/domain/shared/money"
)

const maxPhotoSize = 10 << 20

// OwnerHotelHandler serves the authenticated owner surface.
type OwnerHotelHandler struct {
	Hotels   *hotelsvc.Service
	Bookings *bookingsvc.Service
	Logger   *slog.Logger
}

type hotelAddressRequest struct {
	Line1   string  `json:"line1"`
	Line2   string  `json:"line2"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type createHotelRequest struct {
	Name             string              `json:"name"`
	Description      string              `json:"description"`
	Address          hotelAddressRequest `json:"address"`
	Stars            int                 `json:"stars"`
	Amenities        []string            `json:"amenities"`
	NightlyRateCents int64               `json:"nightly_rate_cents"`
	Currency         string              `json:"currency"`
}

type updateHotelRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	Stars            int    `json:"stars"`
	NightlyRateCents int64  `json:"nightly_rate_cents"`
	Currency         string `json:"currency"`
}

func (h OwnerHotelHandler) List(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Hotels == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "hotel service unavailable"})
		return
	}
	hotels, err := h.Hotels.OwnerHotels(c.Request.Context(), owner.ID)
	if err != nil {
		h.respondHotelError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapHotelCollection(hotels))
}

func (h OwnerHotelHandler) Create(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Hotels == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "hotel service unavailable"})
		return
	}
	var req createHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	created, err := h.Hotels.Create(c.Request.Context(), owner.ID, hotelsvc.CreateParams{
		Name:        req.Name,
		Description: req.Description,
		Address: domainhotel.Address{
			Line1:   req.Address.Line1,
			Line2:   req.Address.Line2,
			City:    req.Address.City,
			Country: req.Address.Country,
			Lat:     req.Address.Lat,
			Lon:     req.Address.Lon,
		},
		Stars:            req.Stars,
		Amenities:        req.Amenities,
		NightlyRateCents: req.NightlyRateCents,
		Currency:         req.Currency,
	})
	if err != nil {
		h.respondHotelError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapHotelDetail(created, 0, 0))
}

func (h OwnerHotelHandler) Update(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Hotels == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "hotel service unavailable"})
		return
	}
	var req updateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	updated, err := h.Hotels.Update(c.Request.Context(), c.Param("id"), owner.ID, hotelsvc.UpdateParams{
		Name:             req.Name,
		Description:      req.Description,
		Stars:            req.Stars,
		NightlyRateCents: req.NightlyRateCents,
		Currency:         req.Currency,
	})
	if err != nil {
		h.respondHotelError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapHotelDetail(updated, 0, 0))
}

func (h OwnerHotelHandler) Publish(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Hotels == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "hotel service unavailable"})
		return
	}
	published, err := h.Hotels.Publish(c.Request.Context(), c.Param("id"), owner.ID)
	if err != nil {
		h.respondHotelError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapHotelDetail(published, 0, 0))
}

func (h OwnerHotelHandler) Archive(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Hotels == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "hotel service unavailable"})
		return
	}
	archived, err := h.Hotels.Archive(c.Request.Context(), c.Param("id"), owner.ID)
	if err != nil {
		h.respondHotelError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapHotelDetail(archived, 0, 0))
}

func (h OwnerHotelHandler) UploadPhoto(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Hotels == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "hotel service unavailable"})
		return
	}
	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	if file.Size > maxPhotoSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "photo too large"})
		return
	}
	content, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
		return
	}
	defer content.Close()

	contentType := file.Header.Get("Content-Type")
	updated, err := h.Hotels.AttachPhoto(c.Request.Context(), c.Param("id"), owner.ID, filepath.Base(file.Filename), content, file.Size, contentType)
	if err != nil {
		h.respondHotelError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapHotelDetail(updated, 0, 0))
}

// ListBookings returns all bookings for one of the owner's hotels.
func (h OwnerHotelHandler) ListBookings(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Bookings == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "booking service unavailable"})
		return
	}
	bookings, err := h.Bookings.HotelBookings(c.Request.Context(), c.Param("id"), owner.ID)
	if err != nil {
		switch {
		case errors.Is(err, bookingsvc.ErrNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "not your hotel"})
		case errors.Is(err, domainhotel.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "hotel not found"})
		default:
			if h.Logger != nil {
				h.Logger.Error("owner bookings lookup failed", "error", err, "hotel_id", c.Param("id"))
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bookings"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.MapBookingCollection(bookings, nil))
}

func (h OwnerHotelHandler) respondHotelError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, hotelsvc.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "not your hotel"})
	case errors.Is(err, domainhotel.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "hotel not found"})
	case errors.Is(err, domainhotel.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainhotel.ErrNameRequired),
		errors.Is(err, domainhotel.ErrAddress),
		errors.Is(err, domainhotel.ErrStars),
		errors.Is(err, domainhotel.ErrNightlyRate),
		errors.Is(err, money.ErrInvalidCurrency),
		errors.Is(err, money.ErrNegativeAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("hotel operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ OwnerHotelHTTP = OwnerHotelHandler{}
