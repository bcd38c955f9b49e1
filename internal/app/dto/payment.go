package dto

import (
	"innstay/internal/app/services/payment"
)

type CheckoutResponse struct {
	SessionID   string   `json:"session_id"`
	BookingID   string   `json:"booking_id"`
	Amount      MoneyDTO `json:"amount"`
	RedirectURL string   `json:"redirect_url"`
}

func MapCheckout(session *payment.CheckoutSession) CheckoutResponse {
	if session == nil {
		return CheckoutResponse{}
	}
	return CheckoutResponse{
		SessionID:   session.ID,
		BookingID:   string(session.BookingID),
		Amount:      MapMoney(session.Amount),
		RedirectURL: session.RedirectURL,
	}
}
