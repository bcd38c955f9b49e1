package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"innstay/internal/app/dto"
	discountsvc "innstay/internal/app/services/discount"
	domaindiscount "innstay/internal/domain/discount"
	domainhotel "innstay/internal/domain/hotel"
)

type DiscountHandler struct {
	Service *discountsvc.Service
	Logger  *slog.Logger
}

type createDiscountRequest struct {
	Code       string    `json:"code"`
	Percent    int       `json:"percent"`
	ValidFrom  time.Time `json:"valid_from"`
	ValidUntil time.Time `json:"valid_until"`
}

func (h DiscountHandler) Create(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "discount service unavailable"})
		return
	}
	var req createDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	created, err := h.Service.Create(c.Request.Context(), discountsvc.CreateParams{
		HotelID:    c.Param("id"),
		OwnerID:    owner.ID,
		Code:       req.Code,
		Percent:    req.Percent,
		ValidFrom:  req.ValidFrom,
		ValidUntil: req.ValidUntil,
	})
	if err != nil {
		h.respondDiscountError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapDiscount(created))
}

func (h DiscountHandler) List(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "discount service unavailable"})
		return
	}
	discounts, err := h.Service.List(c.Request.Context(), c.Param("id"), owner.ID)
	if err != nil {
		h.respondDiscountError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapDiscountCollection(discounts))
}

func (h DiscountHandler) Disable(c *gin.Context) {
	owner, ok := requireRole(c, "owner")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "discount service unavailable"})
		return
	}
	disabled, err := h.Service.Disable(c.Request.Context(), c.Param("id"), owner.ID, c.Param("code"))
	if err != nil {
		h.respondDiscountError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapDiscount(disabled))
}

func (h DiscountHandler) respondDiscountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, discountsvc.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "not your hotel"})
	case errors.Is(err, domainhotel.ErrNotFound), errors.Is(err, domaindiscount.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domaindiscount.ErrCodeTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domaindiscount.ErrCodeRequired),
		errors.Is(err, domaindiscount.ErrInvalidPercent),
		errors.Is(err, domaindiscount.ErrInvalidWindow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("discount operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ DiscountHTTP = DiscountHandler{}
