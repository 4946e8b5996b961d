package guard

import (
	"context"
	"time"

	"github.com/aman-zulfiqar/solana-txkit/internal/constants"
	"github.com/aman-zulfiqar/solana-txkit/internal/wallet"
	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
)

// Network is the slice of wallet behavior the guard needs. *wallet.Wallet
// satisfies it; tests substitute fakes.
type Network interface {
	SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*wallet.SimulationValue, error)
	SendTx(ctx context.Context, tx *solana.Transaction, opts *wallet.SendOptions) (string, error)
	ConfirmTransaction(ctx context.Context, signature string, commitment string, timeout time.Duration) error
}

// Recorder receives send outcomes for best-effort persistence. Failures to
// record never affect the send path.
type Recorder interface {
	RecordSend(ctx context.Context, result *SendResult) error
}

// Guard gates every outgoing transaction behind a dry-run and a rule-based
// safety check. Each call is stateless given its inputs, so one Guard may be
// shared across concurrent pipelines.
type Guard struct {
	net            Network
	logger         *logrus.Logger
	recorder       Recorder
	confirmTimeout time.Duration
}

func NewGuard(net Network, logger *logrus.Logger) *Guard {
	if logger == nil {
		logger = logrus.New()
	}
	return &Guard{
		net:            net,
		logger:         logger,
		confirmTimeout: 60 * time.Second,
	}
}

func (g *Guard) WithRecorder(r Recorder) *Guard {
	g.recorder = r
	return g
}

func (g *Guard) WithConfirmTimeout(d time.Duration) *Guard {
	if d > 0 {
		g.confirmTimeout = d
	}
	return g
}

// Simulate dry-runs the transaction and derives a fee estimate. A failed
// execution inside a successful simulation is reported in the outcome, not
// as an error; only transport failures propagate.
func (g *Guard) Simulate(ctx context.Context, tx *solana.Transaction) (*SimulationOutcome, error) {
	value, err := g.net.SimulateTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}

	outcome := &SimulationOutcome{
		Success:       value.Success,
		ErrMessage:    value.Err,
		UnitsConsumed: value.UnitsConsumed,
		Logs:          value.Logs,
	}

	numSignatures := len(tx.Signatures)
	if numSignatures == 0 {
		numSignatures = int(tx.Message.Header.NumRequiredSignatures)
	}
	outcome.FeeEstimate = uint64(numSignatures)*constants.LamportsPerSignature +
		(outcome.UnitsConsumed/1000)*constants.LamportsPerKiloComputeUnit

	return outcome, nil
}

// SafeSend simulates, validates, and only then submits. With any blocking
// issue the network is never contacted for the send; a confirmation failure
// after a successful submission is reported as non-fatal alongside sent=true.
func (g *Guard) SafeSend(ctx context.Context, tx *solana.Transaction) (*SendResult, error) {
	outcome, err := g.Simulate(ctx, tx)
	if err != nil {
		return nil, err
	}
	return g.sendValidated(ctx, tx, outcome), nil
}

// SendWithLookupTables is the documented risk trade-off for transactions
// referencing address lookup tables: simulation of those is unreliable
// outside the canonical network because the tables may not resolve. The
// guard still attempts simulation first; only when simulation itself fails
// with a transport/resolution error does it fall back to a direct send that
// skips validation. An execution failure inside a successful simulation goes
// through the normal guarded path and blocks as usual.
func (g *Guard) SendWithLookupTables(ctx context.Context, tx *solana.Transaction) (*SendResult, error) {
	outcome, err := g.Simulate(ctx, tx)
	if err != nil {
		g.logger.WithFields(logrus.Fields{
			"path":  "direct",
			"error": err.Error(),
		}).Warn("simulation unavailable for lookup-table transaction, falling back to direct send")
		return g.sendDirect(ctx, tx), nil
	}
	return g.sendValidated(ctx, tx, outcome), nil
}

func (g *Guard) sendValidated(ctx context.Context, tx *solana.Transaction, outcome *SimulationOutcome) *SendResult {
	verdict := Validate(outcome)

	if !verdict.SafeToSend {
		g.logger.WithFields(logrus.Fields{
			"path":   "guarded",
			"issues": len(verdict.Issues),
		}).Warn("transaction blocked by validation")
		result := &SendResult{
			Sent:       false,
			Issues:     verdict.Issues,
			Simulation: outcome,
		}
		g.record(ctx, result)
		return result
	}

	for _, w := range verdict.Warnings {
		g.logger.WithField("warning", w).Info("transaction warning")
	}

	sig, err := g.net.SendTx(ctx, tx, nil)
	if err != nil {
		result := &SendResult{
			Sent:       false,
			Issues:     []string{"send failed: " + err.Error()},
			Simulation: outcome,
		}
		g.record(ctx, result)
		return result
	}

	result := &SendResult{
		Sent:       true,
		Signature:  sig,
		Issues:     []string{},
		Simulation: outcome,
	}
	if err := g.net.ConfirmTransaction(ctx, sig, "confirmed", g.confirmTimeout); err != nil {
		// The transaction may or may not land; surface the ambiguity.
		result.Issues = append(result.Issues, "confirmation failed: "+err.Error())
	}

	g.logger.WithFields(logrus.Fields{
		"path":      "guarded",
		"signature": sig,
		"fee":       outcome.FeeEstimate,
		"units":     outcome.UnitsConsumed,
	}).Info("transaction sent")
	g.record(ctx, result)
	return result
}

func (g *Guard) sendDirect(ctx context.Context, tx *solana.Transaction) *SendResult {
	opts := wallet.DefaultSendOptions()
	opts.SkipPreflight = true

	sig, err := g.net.SendTx(ctx, tx, &opts)
	if err != nil {
		result := &SendResult{
			Sent:       false,
			Issues:     []string{"send failed: " + err.Error()},
			Simulation: &SimulationOutcome{Logs: []string{"direct send failed (simulation skipped)"}},
		}
		g.record(ctx, result)
		return result
	}

	result := &SendResult{
		Sent:       true,
		Signature:  sig,
		Issues:     []string{},
		Simulation: &SimulationOutcome{Success: true, Logs: []string{"direct send (simulation skipped)"}},
	}
	if err := g.net.ConfirmTransaction(ctx, sig, "confirmed", g.confirmTimeout); err != nil {
		result.Issues = append(result.Issues, "confirmation failed: "+err.Error())
		result.Simulation.Success = false
	}

	g.logger.WithFields(logrus.Fields{
		"path":      "direct",
		"signature": sig,
	}).Info("transaction sent without validation")
	g.record(ctx, result)
	return result
}

func (g *Guard) record(ctx context.Context, result *SendResult) {
	if g.recorder == nil {
		return
	}
	if err := g.recorder.RecordSend(ctx, result); err != nil {
		g.logger.WithField("error", err.Error()).Debug("failed to record send outcome")
	}
}
