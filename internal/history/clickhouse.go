// Package history persists send and swap outcomes to ClickHouse for
// offline analysis. All writes are best-effort from the caller's view.
package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/aman-zulfiqar/solana-txkit/internal/models"
	"github.com/sirupsen/logrus"
)

type Store struct {
	conn   driver.Conn
	logger *logrus.Logger
}

type StoreConfig struct {
	Addr     string
	Database string
	Username string
	Password string
}

func NewStore(cfg StoreConfig, logger *logrus.Logger) (*Store, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if cfg.Database == "" {
		cfg.Database = "txkit"
	}
	if cfg.Username == "" {
		cfg.Username = "default"
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	logger.WithField("addr", cfg.Addr).Info("connected to ClickHouse")

	return &Store{conn: conn, logger: logger}, nil
}

func (s *Store) InsertSend(ctx context.Context, rec *models.SendRecord) error {
	query := `
		INSERT INTO sends (
			signature, timestamp, sent, program, instruction,
			fee_estimate, units, issues
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		rec.Signature,
		rec.Timestamp,
		rec.Sent,
		rec.Program,
		rec.Instruction,
		rec.FeeEstimate,
		rec.Units,
		strings.Join(rec.Issues, "; "),
	)
	if err != nil {
		return fmt.Errorf("failed to insert send record: %w", err)
	}

	return nil
}

func (s *Store) InsertSwap(ctx context.Context, rec *models.SwapRecord) error {
	query := `
		INSERT INTO swaps (
			signature, timestamp, sent, input_mint, output_mint,
			in_amount, out_amount, slippage_bps, price_impact, issues
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		rec.Signature,
		rec.Timestamp,
		rec.Sent,
		rec.InputMint,
		rec.OutputMint,
		rec.InAmount,
		rec.OutAmount,
		rec.SlippageBps,
		rec.PriceImpact,
		strings.Join(rec.Issues, "; "),
	)
	if err != nil {
		return fmt.Errorf("failed to insert swap record: %w", err)
	}

	return nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}
