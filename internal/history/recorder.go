package history

import (
	"context"
	"time"

	"github.com/aman-zulfiqar/solana-txkit/internal/guard"
	"github.com/aman-zulfiqar/solana-txkit/internal/models"
)

// SendSink is the slice of the store the recorder writes through.
type SendSink interface {
	InsertSend(ctx context.Context, rec *models.SendRecord) error
}

// SendRecorder adapts guard send outcomes into history rows. It satisfies
// guard.Recorder, so the guard persists every outcome it produces.
type SendRecorder struct {
	sink        SendSink
	program     string
	instruction string

	now func() time.Time
}

var _ guard.Recorder = (*SendRecorder)(nil)

func NewSendRecorder(sink SendSink, program, instruction string) *SendRecorder {
	return &SendRecorder{
		sink:        sink,
		program:     program,
		instruction: instruction,
		now:         time.Now,
	}
}

func (r *SendRecorder) RecordSend(ctx context.Context, result *guard.SendResult) error {
	rec := &models.SendRecord{
		Signature:   result.Signature,
		Timestamp:   r.now().UTC(),
		Sent:        result.Sent,
		Program:     r.program,
		Instruction: r.instruction,
		Issues:      result.Issues,
	}
	if result.Simulation != nil {
		rec.FeeEstimate = result.Simulation.FeeEstimate
		rec.Units = result.Simulation.UnitsConsumed
	}
	return r.sink.InsertSend(ctx, rec)
}
