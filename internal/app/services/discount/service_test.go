package discount

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaindiscount "innstay/internal/domain/discount"
	domainhotel "innstay/internal/domain/hotel"
	"innstay/internal/domain/shared/money"
	"innstay/internal/infra/storage/memory"
)

func newService(t *testing.T) *Service {
	t.Helper()
	hotels := memory.NewHotelRepository()
	h, err := domainhotel.New(domainhotel.CreateParams{
		ID: "h-1", OwnerID: "owner-1", Name: "Seaside Inn",
		Stars: 4, NightlyRate: money.Must(10000, "EUR"), Now: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, hotels.Save(context.Background(), h))
	return &Service{
		Discounts: memory.NewDiscountRepository(),
		Hotels:    hotels,
	}
}

func validWindow() (time.Time, time.Time) {
	from := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 3, 0)
}

func TestCreateNormalizesCode(t *testing.T) {
	svc := newService(t)
	from, until := validWindow()

	d, err := svc.Create(context.Background(), CreateParams{
		HotelID: "h-1", OwnerID: "owner-1", Code: "  summer20 ", Percent: 20,
		ValidFrom: from, ValidUntil: until,
	})
	require.NoError(t, err)
	assert.Equal(t, "SUMMER20", d.Code)
}

func TestCreateRequiresOwnership(t *testing.T) {
	svc := newService(t)
	from, until := validWindow()

	_, err := svc.Create(context.Background(), CreateParams{
		HotelID: "h-1", OwnerID: "someone-else", Code: "SUMMER20", Percent: 20,
		ValidFrom: from, ValidUntil: until,
	})
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	svc := newService(t)
	from, until := validWindow()

	_, err := svc.Create(context.Background(), CreateParams{
		HotelID: "h-1", OwnerID: "owner-1", Code: "SUMMER20", Percent: 20,
		ValidFrom: from, ValidUntil: until,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateParams{
		HotelID: "h-1", OwnerID: "owner-1", Code: "summer20", Percent: 10,
		ValidFrom: from, ValidUntil: until,
	})
	assert.ErrorIs(t, err, domaindiscount.ErrCodeTaken)
}

func TestDisableStopsApplicability(t *testing.T) {
	svc := newService(t)
	from, until := validWindow()

	_, err := svc.Create(context.Background(), CreateParams{
		HotelID: "h-1", OwnerID: "owner-1", Code: "SUMMER20", Percent: 20,
		ValidFrom: from, ValidUntil: until,
	})
	require.NoError(t, err)

	d, err := svc.Disable(context.Background(), "h-1", "owner-1", "summer20")
	require.NoError(t, err)
	assert.False(t, d.Applicable(from.AddDate(0, 1, 0)))

	list, err := svc.List(context.Background(), "h-1", "owner-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Disabled)
}
