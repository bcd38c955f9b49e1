package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, checkIn, checkOut string) DateRange {
	t.Helper()
	in, err := time.Parse(time.RFC3339, checkIn)
	require.NoError(t, err)
	out, err := time.Parse(time.RFC3339, checkOut)
	require.NoError(t, err)
	dr, err := New(in, out)
	require.NoError(t, err)
	return dr
}

func TestNew_RejectsInvertedRange(t *testing.T) {
	in := time.Date(2024, 6, 3, 11, 0, 0, 0, time.UTC)
	out := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)

	_, err := New(in, out)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(in, in)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestNew_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	in := time.Date(2024, 6, 1, 17, 0, 0, 0, loc)
	out := time.Date(2024, 6, 3, 14, 0, 0, 0, loc)

	dr, err := New(in, out)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, dr.CheckIn.Location())
	assert.True(t, dr.CheckIn.Equal(time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)))
}

func TestOverlaps(t *testing.T) {
	existing := mustRange(t, "2024-06-01T14:00:00Z", "2024-06-03T11:00:00Z")

	tests := []struct {
		name     string
		other    DateRange
		overlaps bool
	}{
		{"identical", existing, true},
		{"contained", mustRange(t, "2024-06-02T00:00:00Z", "2024-06-02T12:00:00Z"), true},
		{"covers", mustRange(t, "2024-05-30T00:00:00Z", "2024-06-10T00:00:00Z"), true},
		{"partial tail", mustRange(t, "2024-06-02T00:00:00Z", "2024-06-04T00:00:00Z"), true},
		{"partial head", mustRange(t, "2024-05-31T00:00:00Z", "2024-06-01T14:00:01Z"), true},
		{"abuts at checkout", mustRange(t, "2024-06-03T11:00:00Z", "2024-06-05T11:00:00Z"), false},
		{"abuts at checkin", mustRange(t, "2024-05-30T00:00:00Z", "2024-06-01T14:00:00Z"), false},
		{"disjoint after", mustRange(t, "2024-06-10T00:00:00Z", "2024-06-12T00:00:00Z"), false},
		{"one second overlap", mustRange(t, "2024-06-03T10:59:59Z", "2024-06-05T00:00:00Z"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, existing.Overlaps(tc.other))
			assert.Equal(t, tc.overlaps, tc.other.Overlaps(existing))
		})
	}
}

func TestAbuts(t *testing.T) {
	first := mustRange(t, "2024-06-01T14:00:00Z", "2024-06-03T11:00:00Z")
	second := mustRange(t, "2024-06-03T11:00:00Z", "2024-06-05T11:00:00Z")

	assert.True(t, first.Abuts(second))
	assert.True(t, second.Abuts(first))
	assert.False(t, first.Abuts(first))
}

func TestContainsInstant(t *testing.T) {
	dr := mustRange(t, "2024-06-01T14:00:00Z", "2024-06-03T11:00:00Z")

	assert.True(t, dr.ContainsInstant(time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)))
	assert.True(t, dr.ContainsInstant(time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)))
	assert.False(t, dr.ContainsInstant(time.Date(2024, 6, 3, 11, 0, 0, 0, time.UTC)))
	assert.False(t, dr.ContainsInstant(time.Date(2024, 6, 1, 13, 59, 59, 0, time.UTC)))
}

func TestNights(t *testing.T) {
	dr := mustRange(t, "2024-06-01T14:00:00Z", "2024-06-03T14:00:00Z")
	assert.Equal(t, 2, dr.Nights())
}
