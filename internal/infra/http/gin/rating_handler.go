package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"innstay/internal/app/dto"
	ratingsvc "innstay/internal/app/services/rating"
	domainbooking "innstay/internal/domain/booking"
	domainrating "innstay/internal/domain/rating"
)

type RatingHandler struct {
	Service *ratingsvc.Service
	Logger  *slog.Logger
}

type submitRatingRequest struct {
	Score int    `json:"score"`
	Text  string `json:"text"`
}

func (h RatingHandler) Submit(c *gin.Context) {
	author, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rating service unavailable"})
		return
	}
	var req submitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	rating, err := h.Service.Submit(c.Request.Context(), ratingsvc.SubmitParams{
		BookingID: c.Param("id"),
		AuthorID:  author.ID,
		Score:     req.Score,
		Text:      req.Text,
	})
	if err != nil {
		h.respondRatingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapRating(rating))
}

func (h RatingHandler) Update(c *gin.Context) {
	author, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rating service unavailable"})
		return
	}
	var req submitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	rating, err := h.Service.Update(c.Request.Context(), c.Param("id"), author.ID, req.Score, req.Text)
	if err != nil {
		h.respondRatingError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRating(rating))
}

func (h RatingHandler) respondRatingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ratingsvc.ErrNotGuest):
		c.JSON(http.StatusForbidden, gin.H{"error": "not your booking"})
	case errors.Is(err, ratingsvc.ErrStayNotComplete):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainrating.ErrAlreadySubmitted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainrating.ErrInvalidScore):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrNotFound), errors.Is(err, domainrating.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		if h.Logger != nil {
			h.Logger.Error("rating operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ RatingHTTP = RatingHandler{}
