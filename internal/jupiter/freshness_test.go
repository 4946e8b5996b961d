package jupiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func freshQuote(now time.Time) *QuoteResponse {
	return &QuoteResponse{
		InputMint:      "So11111111111111111111111111111111111111112",
		OutputMint:     "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		InAmount:       "1000000000",
		OutAmount:      "153000000",
		PriceImpactPct: "0.1",
		ContextSlot:    1000,
		QuoteHash:      "abc123",
		ReceivedAt:     now,
	}
}

func TestValidateFreshnessCleanQuote(t *testing.T) {
	now := time.Now()
	v := ValidateFreshness(freshQuote(now), 1000, now)

	assert.True(t, v.IsFresh)
	assert.False(t, v.NeedsRefresh)
	assert.Empty(t, v.Issues)
	assert.Empty(t, v.Warnings)
	assert.Equal(t, uint64(0), v.SlotDrift)
}

func TestValidateFreshnessSlotDriftBoundaries(t *testing.T) {
	tests := []struct {
		name        string
		currentSlot uint64
		issues      int
		warnings    int
	}{
		{"no drift", 1000, 0, 0},
		{"reference behind quote saturates to zero", 900, 0, 0},
		{"drift 50 is clean", 1050, 0, 0},
		{"drift 51 warns", 1051, 0, 1},
		{"drift 100 warns", 1100, 0, 1},
		{"drift 150 warns", 1150, 0, 1},
		{"drift 151 blocks", 1151, 1, 0},
	}

	now := time.Now()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := ValidateFreshness(freshQuote(now), tc.currentSlot, now)
			assert.Len(t, v.Issues, tc.issues)
			assert.Len(t, v.Warnings, tc.warnings)
			assert.Equal(t, v.IsFresh, tc.issues == 0)
		})
	}
}

func TestValidateFreshnessAgeBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		age      time.Duration
		issues   int
		warnings int
	}{
		{"brand new", 0, 0, 0},
		{"ten seconds is clean", 10 * time.Second, 0, 0},
		{"eleven seconds warns", 11 * time.Second, 0, 1},
		{"thirty seconds warns", 30 * time.Second, 0, 1},
		{"over thirty seconds blocks", 31 * time.Second, 1, 0},
	}

	now := time.Now()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := freshQuote(now.Add(-tc.age))
			v := ValidateFreshness(q, 1000, now)
			assert.Len(t, v.Issues, tc.issues)
			assert.Len(t, v.Warnings, tc.warnings)
		})
	}
}

func TestValidateFreshnessUsesQuoteTimestampWhenPresent(t *testing.T) {
	now := time.Now()
	q := freshQuote(now) // ReceivedAt is fresh
	q.QuoteTimestamp = now.Add(-45 * time.Second).Unix()

	v := ValidateFreshness(q, 1000, now)

	assert.False(t, v.IsFresh)
	assert.InDelta(t, 45.0, v.AgeSeconds, 1.0)
}

func TestValidateFreshnessMissingHashOnlyWarns(t *testing.T) {
	now := time.Now()
	q := freshQuote(now)
	q.QuoteHash = ""

	v := ValidateFreshness(q, 1000, now)

	assert.True(t, v.IsFresh)
	assert.True(t, v.NeedsRefresh, "warnings alone flag a refresh")
	assert.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], "integrity hash")
}

func TestValidateFreshnessPriceImpact(t *testing.T) {
	tests := []struct {
		name     string
		impact   string
		issues   int
		warnings int
	}{
		{"negligible", "0.5", 0, 0},
		{"two percent is clean", "2.0", 0, 0},
		{"elevated warns", "3.5", 0, 1},
		{"five percent warns", "5.0", 0, 1},
		{"above five blocks", "5.1", 1, 0},
		{"unparseable warns", "n/a", 0, 1},
	}

	now := time.Now()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := freshQuote(now)
			q.PriceImpactPct = tc.impact
			v := ValidateFreshness(q, 1000, now)
			assert.Len(t, v.Issues, tc.issues)
			assert.Len(t, v.Warnings, tc.warnings)
		})
	}
}

func TestValidateFreshnessMetricsAreIndependent(t *testing.T) {
	now := time.Now()
	q := freshQuote(now.Add(-40 * time.Second))
	q.QuoteHash = ""
	q.PriceImpactPct = "6.0"

	v := ValidateFreshness(q, 1200, now) // drift 200

	assert.False(t, v.IsFresh)
	assert.Len(t, v.Issues, 3, "drift, age, and impact each block once")
	assert.Len(t, v.Warnings, 1, "hash only warns")
}
