package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aman-zulfiqar/solana-txkit/internal/guard"
	"github.com/aman-zulfiqar/solana-txkit/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	records []*models.SendRecord
	err     error
}

func (f *fakeSink) InsertSend(ctx context.Context, rec *models.SendRecord) error {
	f.records = append(f.records, rec)
	return f.err
}

func TestSendRecorderMapsOutcome(t *testing.T) {
	sink := &fakeSink{}
	rec := NewSendRecorder(sink, "Bj4vH3tVu1GjCHeU3peRfYyxJpAzooyZCTU6rRFR4AnY", "send_sol")
	stamp := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	rec.now = func() time.Time { return stamp }

	err := rec.RecordSend(context.Background(), &guard.SendResult{
		Sent:      true,
		Signature: "5ig",
		Issues:    []string{},
		Simulation: &guard.SimulationOutcome{
			Success:       true,
			UnitsConsumed: 150_000,
			FeeEstimate:   20_000,
		},
	})
	require.NoError(t, err)

	require.Len(t, sink.records, 1)
	row := sink.records[0]
	assert.Equal(t, "5ig", row.Signature)
	assert.Equal(t, stamp, row.Timestamp)
	assert.True(t, row.Sent)
	assert.Equal(t, "Bj4vH3tVu1GjCHeU3peRfYyxJpAzooyZCTU6rRFR4AnY", row.Program)
	assert.Equal(t, "send_sol", row.Instruction)
	assert.Equal(t, uint64(20_000), row.FeeEstimate)
	assert.Equal(t, uint64(150_000), row.Units)
}

func TestSendRecorderBlockedResultWithoutSimulation(t *testing.T) {
	sink := &fakeSink{}
	rec := NewSendRecorder(sink, "prog", "send_sol")

	err := rec.RecordSend(context.Background(), &guard.SendResult{
		Sent:   false,
		Issues: []string{"transaction would fail: Custom(6000)"},
	})
	require.NoError(t, err)

	require.Len(t, sink.records, 1)
	row := sink.records[0]
	assert.False(t, row.Sent)
	assert.Equal(t, []string{"transaction would fail: Custom(6000)"}, row.Issues)
	assert.Zero(t, row.FeeEstimate)
	assert.Zero(t, row.Units)
}

func TestSendRecorderPropagatesSinkError(t *testing.T) {
	sink := &fakeSink{err: errors.New("clickhouse down")}
	rec := NewSendRecorder(sink, "prog", "send_sol")

	err := rec.RecordSend(context.Background(), &guard.SendResult{Sent: true})
	assert.Error(t, err)
}
