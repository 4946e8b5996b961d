package jupiter

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
)

var (
	// ErrStaleQuote is terminal: the fresh-quote retry loop exhausted its
	// attempts without seeing a quote that passed freshness validation.
	ErrStaleQuote = errors.New("jupiter: could not obtain a fresh quote")

	// ErrSlippageExhausted is terminal: every slippage candidate failed to
	// produce a decodable swap transaction.
	ErrSlippageExhausted = errors.New("jupiter: all slippage candidates exhausted")
)

// QuoteAPI is the REST surface the negotiator consumes. *Client satisfies
// it; tests script fakes.
type QuoteAPI interface {
	Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error)
	Swap(ctx context.Context, req SwapRequest) (*SwapResponse, error)
}

// SlotSource supplies the current reference slot for drift computation.
// Best-effort: a lookup failure falls back to the quote's own slot, which
// yields zero drift rather than a spurious rejection.
type SlotSource interface {
	GetSlot(ctx context.Context, commitment string) (uint64, error)
}

// Negotiator wraps a quote client with freshness validation, bounded
// retries, and adaptive slippage escalation. Stateless between calls.
type Negotiator struct {
	api    QuoteAPI
	slots  SlotSource
	policy Policy
	clock  clock
	logger *logrus.Logger
}

func NewNegotiator(api QuoteAPI, slots SlotSource, policy Policy, logger *logrus.Logger) *Negotiator {
	if policy.MaxAttempts <= 0 {
		policy = DefaultPolicy()
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Negotiator{
		api:    api,
		slots:  slots,
		policy: policy,
		clock:  systemClock{},
		logger: logger,
	}
}

// GetFreshQuote fetches quotes until one passes freshness validation or the
// attempt budget runs out. Stale results and HTTP failures each sleep their
// own fixed delay before the next attempt.
func (n *Negotiator) GetFreshQuote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	var lastIssue string

	for attempt := 1; attempt <= n.policy.MaxAttempts; attempt++ {
		quote, err := n.api.Quote(ctx, req)
		if err != nil {
			lastIssue = err.Error()
			n.logger.WithFields(logrus.Fields{
				"attempt": attempt,
				"error":   err.Error(),
			}).Warn("quote fetch failed")
			if attempt < n.policy.MaxAttempts {
				if serr := n.clock.Sleep(ctx, n.policy.HTTPFailureDelay); serr != nil {
					return nil, serr
				}
			}
			continue
		}

		validation := ValidateFreshness(quote, n.referenceSlot(ctx, quote), n.clock.Now())
		if validation.IsFresh {
			for _, w := range validation.Warnings {
				n.logger.WithField("warning", w).Debug("quote accepted with warning")
			}
			return quote, nil
		}

		lastIssue = strings.Join(validation.Issues, "; ")
		n.logger.WithFields(logrus.Fields{
			"attempt":    attempt,
			"slot_drift": validation.SlotDrift,
			"age_s":      validation.AgeSeconds,
			"issues":     lastIssue,
		}).Warn("quote failed freshness validation")

		if attempt < n.policy.MaxAttempts {
			if serr := n.clock.Sleep(ctx, n.policy.StaleDelay); serr != nil {
				return nil, serr
			}
		}
	}

	if lastIssue == "" {
		lastIssue = "no quote obtained"
	}
	return nil, fmt.Errorf("%w after %d attempts: %s", ErrStaleQuote, n.policy.MaxAttempts, lastIssue)
}

func (n *Negotiator) referenceSlot(ctx context.Context, quote *QuoteResponse) uint64 {
	if n.slots != nil {
		if slot, err := n.slots.GetSlot(ctx, "processed"); err == nil {
			return slot
		}
	}
	return quote.ContextSlot
}

// slippageCandidates builds the escalation ladder: the preferred tolerance
// first when given, then the fixed fallback set, deduplicated in order.
func slippageCandidates(preferred *uint16) []uint16 {
	var raw []uint16
	if preferred != nil {
		raw = []uint16{*preferred, 100, 150, 200}
	} else {
		raw = []uint16{50, 100, 150, 200}
	}

	seen := make(map[uint16]bool, len(raw))
	candidates := make([]uint16, 0, len(raw))
	for _, bps := range raw {
		if seen[bps] {
			continue
		}
		seen[bps] = true
		candidates = append(candidates, bps)
	}
	return candidates
}

// BuildSwapTransaction tries each slippage candidate in order: fresh quote,
// swap construction, transaction decode. The first candidate to produce a
// decodable transaction wins; a terminal stale-quote error aborts the whole
// ladder since escalating slippage cannot cure staleness.
func (n *Negotiator) BuildSwapTransaction(
	ctx context.Context,
	user solana.PublicKey,
	req QuoteRequest,
) (*solana.Transaction, *QuoteResponse, error) {

	candidates := slippageCandidates(req.SlippageBps)

	for _, bps := range candidates {
		slippage := bps
		attempt := req
		attempt.SlippageBps = &slippage

		quote, err := n.GetFreshQuote(ctx, attempt)
		if err != nil {
			if errors.Is(err, ErrStaleQuote) {
				return nil, nil, err
			}
			n.logger.WithFields(logrus.Fields{
				"slippage_bps": slippage,
				"error":        err.Error(),
			}).Warn("quote failed for slippage candidate")
			continue
		}

		swap, err := n.api.Swap(ctx, SwapRequest{
			UserPublicKey:           user.String(),
			QuoteResponse:           quote,
			WrapAndUnwrapSol:        true,
			DynamicComputeUnitLimit: true,
		})
		if err != nil {
			n.logger.WithFields(logrus.Fields{
				"slippage_bps": slippage,
				"error":        err.Error(),
			}).Warn("swap construction failed for slippage candidate")
			continue
		}

		tx, err := decodeSwapTransaction(swap.SwapTransaction)
		if err != nil {
			n.logger.WithFields(logrus.Fields{
				"slippage_bps": slippage,
				"error":        err.Error(),
			}).Warn("swap transaction decode failed for slippage candidate")
			continue
		}

		n.logger.WithFields(logrus.Fields{
			"slippage_bps": slippage,
			"in_amount":    quote.InAmount,
			"out_amount":   quote.OutAmount,
		}).Info("swap transaction built")
		return tx, quote, nil
	}

	return nil, nil, fmt.Errorf("%w (%d candidates tried)", ErrSlippageExhausted, len(candidates))
}

func decodeSwapTransaction(encoded string) (*solana.Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 swap transaction: %w", err)
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode swap transaction: %w", err)
	}
	return tx, nil
}
