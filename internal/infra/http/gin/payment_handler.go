package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"innstay/internal/app/dto"
	paymentsvc "innstay/internal/app/services/payment"
	domainbooking "innstay/internal/domain/booking"
)

type PaymentHandler struct {
	Service *paymentsvc.Service
	Logger  *slog.Logger
}

type completeCheckoutRequest struct {
	SessionID string `json:"session_id"`
	Succeeded bool   `json:"succeeded"`
}

// StartCheckout opens a checkout session for the caller's pending booking.
func (h PaymentHandler) StartCheckout(c *gin.Context) {
	guest, ok := requireRole(c, "")
	if !ok {
		return
	}
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payment service unavailable"})
		return
	}
	session, err := h.Service.Start(c.Request.Context(), c.Param("id"), guest.ID)
	if err != nil {
		h.respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapCheckout(session))
}

// CompleteCheckout is the gateway callback. It carries the session id, not a
// booking id, so it needs no authentication beyond knowing the session.
func (h PaymentHandler) CompleteCheckout(c *gin.Context) {
	if h.Service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payment service unavailable"})
		return
	}
	var req completeCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	booking, err := h.Service.Complete(c.Request.Context(), req.SessionID, req.Succeeded)
	if err != nil {
		h.respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBookingSummary(booking, nil))
}

func (h PaymentHandler) respondPaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, paymentsvc.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "not your booking"})
	case errors.Is(err, paymentsvc.ErrNotPayable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, paymentsvc.ErrUnknownSession):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown checkout session"})
	case errors.Is(err, domainbooking.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
	default:
		if h.Logger != nil {
			h.Logger.Error("payment operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ PaymentHTTP = PaymentHandler{}
