package guard

// SimulationOutcome is the digested result of one dry-run execution. It is
// produced fresh per Simulate call and never mutated afterwards.
type SimulationOutcome struct {
	Success       bool     `json:"success"`
	ErrMessage    string   `json:"err_message,omitempty"`
	UnitsConsumed uint64   `json:"units_consumed"`
	FeeEstimate   uint64   `json:"fee_estimate"` // lamports
	Logs          []string `json:"logs"`
}

// Verdict classifies a simulation into blocking issues and non-blocking
// warnings. SafeToSend is true exactly when Issues is empty.
type Verdict struct {
	SafeToSend bool               `json:"safe_to_send"`
	Issues     []string           `json:"issues"`
	Warnings   []string           `json:"warnings"`
	Simulation *SimulationOutcome `json:"simulation"`
}

// SendResult reports the outcome of a guarded (or direct) send attempt.
// Sent=true with a non-empty Issues list means the transaction was submitted
// but confirmation is ambiguous; that ambiguity is surfaced, not resolved.
type SendResult struct {
	Sent       bool               `json:"sent"`
	Signature  string             `json:"signature,omitempty"`
	Issues     []string           `json:"issues"`
	Simulation *SimulationOutcome `json:"simulation"`
}
