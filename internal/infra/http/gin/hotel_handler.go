package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"innstay/internal/app/availability"
	"innstay/internal/app/dto"
	hotelsvc "innstay/internal/app/services/hotel"
	ratingsvc "innstay/internal/app/services/rating"
	domainhotel "innstay/internal/domain/hotel"
)

// HotelHandler serves the public catalog surface. No authentication required.
type HotelHandler struct {
	Hotels  *hotelsvc.Service
	Ratings *ratingsvc.Service
	Checker *availability.Checker
	Logger  *slog.Logger
}

func (h HotelHandler) Catalog(c *gin.Context) {
	if h.Hotels == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	params := domainhotel.SearchParams{
		City:     strings.TrimSpace(c.Query("city")),
		MinStars: queryInt(c, "min_stars", 0),
		Limit:    queryInt(c, "limit", 50),
		Offset:   queryInt(c, "offset", 0),
	}
	hotels, err := h.Hotels.Search(c.Request.Context(), params)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("catalog search failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load hotels"})
		return
	}
	c.JSON(http.StatusOK, dto.MapHotelCollection(hotels))
}

func (h HotelHandler) Get(c *gin.Context) {
	if h.Hotels == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	detail, err := h.Hotels.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domainhotel.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "hotel not found"})
			return
		}
		if h.Logger != nil {
			h.Logger.Error("hotel lookup failed", "error", err, "hotel_id", c.Param("id"))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load hotel"})
		return
	}
	c.JSON(http.StatusOK, dto.MapHotelDetail(detail.Hotel, detail.AverageRating, detail.RatingCount))
}

// BookedWindows returns the occupied date ranges so clients can render an
// availability calendar without seeing who booked.
func (h HotelHandler) BookedWindows(c *gin.Context) {
	if h.Checker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "availability unavailable"})
		return
	}
	hotelID := c.Param("id")
	windows, err := h.Checker.BookedWindows(c.Request.Context(), domainhotel.HotelID(hotelID))
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("booked windows lookup failed", "error", err, "hotel_id", hotelID)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load availability"})
		return
	}
	c.JSON(http.StatusOK, dto.MapBookedCalendar(hotelID, windows))
}

func (h HotelHandler) ListRatings(c *gin.Context) {
	if h.Ratings == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ratings unavailable"})
		return
	}
	ratings, err := h.Ratings.ListByHotel(c.Request.Context(), c.Param("id"), queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("ratings lookup failed", "error", err, "hotel_id", c.Param("id"))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load ratings"})
		return
	}
	c.JSON(http.StatusOK, dto.MapRatingCollection(ratings))
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

var _ HotelHTTP = HotelHandler{}
