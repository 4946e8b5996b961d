package models

import "time"

// SendRecord is one guarded send attempt, successful or not.
type SendRecord struct {
	Signature   string    `json:"signature"`
	Timestamp   time.Time `json:"timestamp"`
	Sent        bool      `json:"sent"`
	Program     string    `json:"program"`
	Instruction string    `json:"instruction"`
	FeeEstimate uint64    `json:"fee_estimate"`
	Units       uint64    `json:"units"`
	Issues      []string  `json:"issues"`
}

// SwapRecord is one negotiated swap: the quote that won plus the send outcome.
type SwapRecord struct {
	Signature   string    `json:"signature"`
	Timestamp   time.Time `json:"timestamp"`
	Sent        bool      `json:"sent"`
	InputMint   string    `json:"input_mint"`
	OutputMint  string    `json:"output_mint"`
	InAmount    string    `json:"in_amount"`
	OutAmount   string    `json:"out_amount"`
	SlippageBps uint16    `json:"slippage_bps"`
	PriceImpact string    `json:"price_impact"`
	Issues      []string  `json:"issues"`
}
