package server

// ErrorResponse is the standardized error envelope
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable error message
	Code    int    `json:"code"`              // HTTP status code
	Details any    `json:"details,omitempty"` // Additional error details (dev mode only)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK bool `json:"ok"`
}

// EncodeRequest asks for a schema-driven instruction build
type EncodeRequest struct {
	ProgramID   string            `json:"program_id"`
	Instruction string            `json:"instruction"`
	Args        map[string]any    `json:"args"`
	Accounts    map[string]string `json:"accounts"` // account name -> base58 address
}

// EncodeResponse carries the encoded instruction
type EncodeResponse struct {
	ProgramID   string            `json:"program_id"`
	Instruction string            `json:"instruction"`
	DataBase64  string            `json:"data_base64"`
	DataLen     int               `json:"data_len"`
	Accounts    []AccountMetaJSON `json:"accounts"`
}

// AccountMetaJSON is a serializable account meta
type AccountMetaJSON struct {
	Pubkey   string `json:"pubkey"`
	Writable bool   `json:"writable"`
	Signer   bool   `json:"signer"`
}

// DecodeErrorResponse maps a program error code to its message
type DecodeErrorResponse struct {
	ProgramID string `json:"program_id"`
	Code      uint32 `json:"code"`
	Message   string `json:"message"`
}

// ProgramUpsertRequest creates or updates a program-route manifest
type ProgramUpsertRequest struct {
	ProgramID     string `json:"program_id"`
	Name          string `json:"name"`
	Route         string `json:"route"` // generated | dynamic
	ClientVersion string `json:"client_version,omitempty"`
	Priority      int    `json:"priority"`
	Enabled       bool   `json:"enabled"`
}

// ExplainRequest asks the AI explainer to diagnose a blocked transaction
type ExplainRequest struct {
	Issues       []string `json:"issues"`
	Warnings     []string `json:"warnings"`
	Logs         []string `json:"logs"`
	DecodedError string   `json:"decoded_error,omitempty"`
}

// ExplainResponse is the AI diagnosis
type ExplainResponse struct {
	Explanation string `json:"explanation"`
	TookMs      int64  `json:"took_ms"`
}
