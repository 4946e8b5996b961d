package jupiter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	maxSlotDrift  = 150
	warnSlotDrift = 50

	maxQuoteAgeSeconds  = 30.0
	warnQuoteAgeSeconds = 10.0

	maxPriceImpactPct  = 5.0
	warnPriceImpactPct = 2.0
)

// QuoteValidation is the freshness verdict for a single quote. Each metric
// contributes at most one issue or one warning, never both.
type QuoteValidation struct {
	IsFresh      bool     `json:"is_fresh"`
	NeedsRefresh bool     `json:"needs_refresh"`
	SlotDrift    uint64   `json:"slot_drift"`
	AgeSeconds   float64  `json:"age_seconds"`
	Issues       []string `json:"issues"`
	Warnings     []string `json:"warnings"`
}

// ValidateFreshness checks a quote against the current reference slot and
// wall-clock time. Thresholds are evaluated independently: slot drift and
// age block past their hard limits and warn in the band below, a missing
// integrity hash only warns, and price impact blocks above 5%.
func ValidateFreshness(quote *QuoteResponse, currentSlot uint64, now time.Time) *QuoteValidation {
	v := &QuoteValidation{
		Issues:   []string{},
		Warnings: []string{},
	}

	if quote.ContextSlot > 0 {
		if currentSlot > quote.ContextSlot {
			v.SlotDrift = currentSlot - quote.ContextSlot
		}
		switch {
		case v.SlotDrift > maxSlotDrift:
			v.Issues = append(v.Issues, fmt.Sprintf(
				"quote is stale: %d slots behind", v.SlotDrift))
		case v.SlotDrift > warnSlotDrift:
			v.Warnings = append(v.Warnings, fmt.Sprintf(
				"quote is aging: %d slots behind", v.SlotDrift))
		}
	}

	quoteTime := quote.ReceivedAt
	if quote.QuoteTimestamp > 0 {
		quoteTime = time.Unix(quote.QuoteTimestamp, 0)
	}
	if !quoteTime.IsZero() {
		v.AgeSeconds = now.Sub(quoteTime).Seconds()
		if v.AgeSeconds < 0 {
			v.AgeSeconds = 0
		}
		switch {
		case v.AgeSeconds > maxQuoteAgeSeconds:
			v.Issues = append(v.Issues, fmt.Sprintf(
				"quote is too old: %.1fs", v.AgeSeconds))
		case v.AgeSeconds > warnQuoteAgeSeconds:
			v.Warnings = append(v.Warnings, fmt.Sprintf(
				"quote is aging: %.1fs old", v.AgeSeconds))
		}
	}

	if strings.TrimSpace(quote.QuoteHash) == "" {
		v.Warnings = append(v.Warnings, "quote has no integrity hash")
	}

	if impact := strings.TrimSpace(quote.PriceImpactPct); impact != "" {
		pct, err := strconv.ParseFloat(impact, 64)
		if err != nil {
			v.Warnings = append(v.Warnings, "unparseable price impact: "+impact)
		} else {
			switch {
			case pct > maxPriceImpactPct:
				v.Issues = append(v.Issues, fmt.Sprintf(
					"price impact too high: %.2f%%", pct))
			case pct > warnPriceImpactPct:
				v.Warnings = append(v.Warnings, fmt.Sprintf(
					"elevated price impact: %.2f%%", pct))
			}
		}
	}

	v.IsFresh = len(v.Issues) == 0
	v.NeedsRefresh = !v.IsFresh || len(v.Warnings) > 0
	return v
}
