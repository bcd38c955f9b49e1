package ginserver_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"innstay/internal/app/availability"
	authsvc "innstay/internal/app/services/auth"
	bookingsvc "innstay/internal/app/services/booking"
	discountsvc "innstay/internal/app/services/discount"
	hotelsvc "innstay/internal/app/services/hotel"
	paymentsvc "innstay/internal/app/services/payment"
	ratingsvc "innstay/internal/app/services/rating"
	"innstay/internal/infra/config"
	ginserver "innstay/internal/infra/http/gin"
	"innstay/internal/infra/obs"
	"innstay/internal/infra/payments"
	"innstay/internal/infra/security"
	"innstay/internal/infra/storage/memory"
)

type testAPI struct {
	handler http.Handler
}

func newTestAPI(t *testing.T, requirePayment bool) *testAPI {
	t.Helper()

	accounts := memory.NewAccountRepository()
	sessions := memory.NewSessionStore()
	hotels := memory.NewHotelRepository()
	bookings := memory.NewBookingRepository()
	ratings := memory.NewRatingRepository()
	discounts := memory.NewDiscountRepository()
	outboxStore := memory.NewOutboxStore()

	auth := &authsvc.Service{
		Accounts:  accounts,
		Sessions:  sessions,
		Passwords: security.BcryptHasher{Cost: bcrypt.MinCost},
		Tokens:    security.RandomTokenGenerator{},
	}
	checker := &availability.Checker{Bookings: bookings}
	booking := &bookingsvc.Service{
		Bookings:       bookings,
		Hotels:         hotels,
		Discounts:      discounts,
		Checker:        checker,
		Tx:             memory.NewAtomic(),
		Outbox:         outboxStore,
		RequirePayment: requirePayment,
	}
	hotel := &hotelsvc.Service{Hotels: hotels, Ratings: ratings}
	rating := &ratingsvc.Service{Ratings: ratings, Bookings: bookings}
	discount := &discountsvc.Service{Discounts: discounts, Hotels: hotels}
	payment := &paymentsvc.Service{
		Bookings: bookings,
		Workflow: booking,
		Provider: payments.NewFakeProvider("http://localhost:8080"),
	}

	handlers := ginserver.Handlers{
		Auth:    ginserver.AuthHandler{Service: auth},
		Hotel:   ginserver.HotelHandler{Hotels: hotel, Ratings: rating, Checker: checker},
		OwnerHotel: ginserver.OwnerHotelHandler{
			Hotels:   hotel,
			Bookings: booking,
		},
		Booking:        ginserver.BookingHandler{Service: booking, Hotels: hotels},
		Rating:         ginserver.RatingHandler{Service: rating},
		Discount:       ginserver.DiscountHandler{Service: discount},
		Payment:        ginserver.PaymentHandler{Service: payment},
		AuthMiddleware: ginserver.AuthMiddleware{Service: auth}.Handle,
	}

	srv := ginserver.NewServer(config.Config{Env: "test", HTTPAddr: ":0"}, obs.Middleware{}, obs.HealthHandlers{}, handlers)
	return &testAPI{handler: srv.Handler}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (a *testAPI) register(t *testing.T, email string, wantToLet bool) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":       email,
		"name":        "Test Account",
		"password":    "sup3r-secret",
		"want_to_let": wantToLet,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[map[string]any](t, rec)
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (a *testAPI) createActiveHotel(t *testing.T, ownerToken string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/v1/owner/hotels", ownerToken, map[string]any{
		"name": "Seaside Inn",
		"address": map[string]any{
			"line1":   "1 Shore Road",
			"city":    "Brighton",
			"country": "UK",
		},
		"stars":              4,
		"nightly_rate_cents": 10000,
		"currency":           "EUR",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	hotelID, _ := created["id"].(string)
	require.NotEmpty(t, hotelID)

	rec = a.do(t, http.MethodPost, "/api/v1/owner/hotels/"+hotelID+"/publish", ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return hotelID
}

func day(offset int) time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, offset)
}

func TestRegisterLoginMe(t *testing.T) {
	api := newTestAPI(t, false)

	token := api.register(t, "guest@example.com", false)

	rec := api.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[map[string]any](t, rec)
	require.Equal(t, "guest@example.com", profile["email"])

	rec = api.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "guest@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOwnerRoleRequiredForHotelManagement(t *testing.T) {
	api := newTestAPI(t, false)

	guestToken := api.register(t, "guest@example.com", false)
	rec := api.do(t, http.MethodPost, "/api/v1/owner/hotels", guestToken, map[string]any{"name": "Nope"})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBookingFlowThroughAPI(t *testing.T) {
	api := newTestAPI(t, false)

	ownerToken := api.register(t, "owner@example.com", true)
	guestToken := api.register(t, "guest@example.com", false)
	hotelID := api.createActiveHotel(t, ownerToken)

	rec := api.do(t, http.MethodPost, "/api/v1/bookings", guestToken, map[string]any{
		"hotel_id":  hotelID,
		"check_in":  day(1),
		"check_out": day(4),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	booked := decode[map[string]any](t, rec)
	require.Equal(t, "CONFIRMED", booked["status"])
	require.Equal(t, float64(3), booked["nights"])

	// Overlapping request is rejected, naming the occupied window.
	rec = api.do(t, http.MethodPost, "/api/v1/bookings", guestToken, map[string]any{
		"hotel_id":  hotelID,
		"check_in":  day(3),
		"check_out": day(6),
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	rejection := decode[map[string]any](t, rec)
	require.Equal(t, "dates are not available", rejection["error"])
	conflictIn, err := time.Parse(time.RFC3339, rejection["conflicting_check_in"].(string))
	require.NoError(t, err)
	conflictOut, err := time.Parse(time.RFC3339, rejection["conflicting_check_out"].(string))
	require.NoError(t, err)
	require.True(t, conflictIn.Equal(day(1)))
	require.True(t, conflictOut.Equal(day(4)))

	// Abutting request is admitted.
	rec = api.do(t, http.MethodPost, "/api/v1/bookings", guestToken, map[string]any{
		"hotel_id":  hotelID,
		"check_in":  day(4),
		"check_out": day(6),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/v1/me/bookings", guestToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[map[string]any](t, rec)
	items, _ := mine["items"].([]any)
	require.Len(t, items, 2)

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/owner/hotels/%s/bookings", hotelID), ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ownerView := decode[map[string]any](t, rec)
	ownerItems, _ := ownerView["items"].([]any)
	require.Len(t, ownerItems, 2)
}

func TestBookedWindowsArePublic(t *testing.T) {
	api := newTestAPI(t, false)

	ownerToken := api.register(t, "owner@example.com", true)
	guestToken := api.register(t, "guest@example.com", false)
	hotelID := api.createActiveHotel(t, ownerToken)

	rec := api.do(t, http.MethodPost, "/api/v1/bookings", guestToken, map[string]any{
		"hotel_id":  hotelID,
		"check_in":  day(2),
		"check_out": day(5),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Not authenticated on purpose.
	rec = api.do(t, http.MethodGet, "/api/v1/hotels/"+hotelID+"/booked", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	calendar := decode[map[string]any](t, rec)
	windows, _ := calendar["windows"].([]any)
	require.Len(t, windows, 1)
	window, _ := windows[0].(map[string]any)
	require.NotContains(t, window, "guest_id")
}

func TestCancelFreesTheRange(t *testing.T) {
	api := newTestAPI(t, false)

	ownerToken := api.register(t, "owner@example.com", true)
	guestToken := api.register(t, "guest@example.com", false)
	hotelID := api.createActiveHotel(t, ownerToken)

	rec := api.do(t, http.MethodPost, "/api/v1/bookings", guestToken, map[string]any{
		"hotel_id":  hotelID,
		"check_in":  day(1),
		"check_out": day(3),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	booked := decode[map[string]any](t, rec)
	bookingID, _ := booked["id"].(string)

	rec = api.do(t, http.MethodPost, "/api/v1/bookings/"+bookingID+"/cancel", guestToken, map[string]any{
		"reason": "change of plans",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cancelled := decode[map[string]any](t, rec)
	require.Equal(t, "CANCELLED", cancelled["status"])

	rec = api.do(t, http.MethodPost, "/api/v1/bookings", guestToken, map[string]any{
		"hotel_id":  hotelID,
		"check_in":  day(1),
		"check_out": day(3),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestCheckoutConfirmsPendingBooking(t *testing.T) {
	api := newTestAPI(t, true)

	ownerToken := api.register(t, "owner@example.com", true)
	guestToken := api.register(t, "guest@example.com", false)
	hotelID := api.createActiveHotel(t, ownerToken)

	rec := api.do(t, http.MethodPost, "/api/v1/bookings", guestToken, map[string]any{
		"hotel_id":  hotelID,
		"check_in":  day(1),
		"check_out": day(3),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	booked := decode[map[string]any](t, rec)
	require.Equal(t, "PENDING", booked["status"])
	bookingID, _ := booked["id"].(string)

	rec = api.do(t, http.MethodPost, "/api/v1/bookings/"+bookingID+"/checkout", guestToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	session := decode[map[string]any](t, rec)
	sessionID, _ := session["session_id"].(string)
	require.NotEmpty(t, sessionID)

	rec = api.do(t, http.MethodPost, "/api/v1/payments/complete", "", map[string]any{
		"session_id": sessionID,
		"succeeded":  true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	confirmed := decode[map[string]any](t, rec)
	require.Equal(t, "CONFIRMED", confirmed["status"])
}

func TestDiscountLifecycleThroughAPI(t *testing.T) {
	api := newTestAPI(t, false)

	ownerToken := api.register(t, "owner@example.com", true)
	guestToken := api.register(t, "guest@example.com", false)
	hotelID := api.createActiveHotel(t, ownerToken)

	rec := api.do(t, http.MethodPost, "/api/v1/owner/hotels/"+hotelID+"/discounts", ownerToken, map[string]any{
		"code":        "summer20",
		"percent":     20,
		"valid_from":  day(-1),
		"valid_until": day(30),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	require.Equal(t, "SUMMER20", created["code"])

	rec = api.do(t, http.MethodPost, "/api/v1/bookings", guestToken, map[string]any{
		"hotel_id":      hotelID,
		"check_in":      day(1),
		"check_out":     day(3),
		"discount_code": "summer20",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	booked := decode[map[string]any](t, rec)
	total, _ := booked["total"].(map[string]any)
	require.Equal(t, float64(16000), total["amount"])

	// Guests cannot manage discounts.
	rec = api.do(t, http.MethodGet, "/api/v1/owner/hotels/"+hotelID+"/discounts", guestToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
