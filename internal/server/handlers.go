package server

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aman-zulfiqar/solana-txkit/internal/ai"
	"github.com/aman-zulfiqar/solana-txkit/internal/codec"
	"github.com/aman-zulfiqar/solana-txkit/internal/jupiter"
	"github.com/aman-zulfiqar/solana-txkit/internal/registry"
	"github.com/aman-zulfiqar/solana-txkit/internal/schema"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Schemas   *schema.Registry // Loaded program schemas + error tables
	Encoder   *codec.Encoder   // Schema-driven instruction encoder
	Programs  *registry.Store  // Redis-backed program-route manifests
	Jupiter   *jupiter.Client  // Jupiter Quote API client (optional)
	Explainer *ai.Explainer    // LLM failure explainer (optional)
	DevMode   bool             // Enable detailed error responses in development
	Logger    *logrus.Logger   // Structured logger
}

// err returns a standardized JSON error response
// In dev mode, includes additional error details for debugging
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// Health returns a simple health check endpoint
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true})
}

// Encode builds an instruction from a loaded schema and returns the wire
// bytes plus resolved account metas.
func (h *Handlers) Encode(c echo.Context) error {
	var req EncodeRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if strings.TrimSpace(req.ProgramID) == "" {
		return h.err(c, http.StatusBadRequest, "invalid program_id", map[string]any{"program_id": "required"})
	}
	if strings.TrimSpace(req.Instruction) == "" {
		return h.err(c, http.StatusBadRequest, "invalid instruction", map[string]any{"instruction": "required"})
	}

	accounts, err := codec.ParseAccountAddresses(req.Accounts)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid account address", map[string]any{"error": err.Error()})
	}

	ix, err := h.Encoder.BuildInstruction(req.ProgramID, req.Instruction, req.Args, accounts)
	if err != nil {
		switch {
		case errors.Is(err, schema.ErrProgramNotFound), errors.Is(err, schema.ErrInstructionNotFound):
			return h.err(c, http.StatusNotFound, "unknown program or instruction", map[string]any{"error": err.Error()})
		default:
			return h.err(c, http.StatusBadRequest, "encode failed", map[string]any{"error": err.Error()})
		}
	}

	data, err := ix.Data()
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to read instruction data", nil)
	}

	metas := make([]AccountMetaJSON, 0, len(ix.Accounts()))
	for _, m := range ix.Accounts() {
		metas = append(metas, AccountMetaJSON{
			Pubkey:   m.PublicKey.String(),
			Writable: m.IsWritable,
			Signer:   m.IsSigner,
		})
	}

	return c.JSON(http.StatusOK, EncodeResponse{
		ProgramID:   req.ProgramID,
		Instruction: req.Instruction,
		DataBase64:  base64.StdEncoding.EncodeToString(data),
		DataLen:     len(data),
		Accounts:    metas,
	})
}

// DecodeError maps a numeric program error code to its message, preferring
// per-program overrides over the generic schema error table.
func (h *Handlers) DecodeError(c echo.Context) error {
	programID := strings.TrimSpace(c.Param("program"))
	codeStr := strings.TrimSpace(c.Param("code"))

	code, err := strconv.ParseUint(codeStr, 10, 32)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid code", map[string]any{"code": "must be uint32"})
	}

	msg, ok := h.Schemas.DecodeError(programID, uint32(code))
	if !ok {
		return h.err(c, http.StatusNotFound, "unknown error code", nil)
	}

	return c.JSON(http.StatusOK, DecodeErrorResponse{
		ProgramID: programID,
		Code:      uint32(code),
		Message:   msg,
	})
}

// ProgramsList returns all program-route manifests
func (h *Handlers) ProgramsList(c echo.Context) error {
	if h.Programs == nil {
		return h.err(c, http.StatusBadRequest, "program registry is not configured", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	manifests, err := h.Programs.List(ctx)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to list programs", nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": manifests})
}

// ProgramsUpsert creates or updates a program-route manifest
func (h *Handlers) ProgramsUpsert(c echo.Context) error {
	if h.Programs == nil {
		return h.err(c, http.StatusBadRequest, "program registry is not configured", nil)
	}

	var req ProgramUpsertRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if err := registry.ValidateProgramID(req.ProgramID); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid program_id", map[string]any{"program_id": "invalid format"})
	}
	route := registry.Route(req.Route)
	if !route.Valid() {
		return h.err(c, http.StatusBadRequest, "invalid route", map[string]any{"route": "must be generated or dynamic"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	m, err := h.Programs.Upsert(ctx, registry.Manifest{
		ProgramID:     req.ProgramID,
		Name:          req.Name,
		Route:         route,
		ClientVersion: req.ClientVersion,
		Priority:      req.Priority,
		Enabled:       req.Enabled,
	})
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to upsert program", nil)
	}
	return c.JSON(http.StatusOK, m)
}

// ProgramsGet returns one program-route manifest
func (h *Handlers) ProgramsGet(c echo.Context) error {
	if h.Programs == nil {
		return h.err(c, http.StatusBadRequest, "program registry is not configured", nil)
	}

	programID := strings.TrimSpace(c.Param("id"))
	if err := registry.ValidateProgramID(programID); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid program id", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	m, err := h.Programs.Get(ctx, programID)
	if err == registry.ErrNotFound {
		return h.err(c, http.StatusNotFound, "program not found", nil)
	}
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to get program", nil)
	}
	return c.JSON(http.StatusOK, m)
}

// ProgramsDelete removes a program-route manifest
func (h *Handlers) ProgramsDelete(c echo.Context) error {
	if h.Programs == nil {
		return h.err(c, http.StatusBadRequest, "program registry is not configured", nil)
	}

	programID := strings.TrimSpace(c.Param("id"))
	if err := registry.ValidateProgramID(programID); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid program id", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	if err := h.Programs.Delete(ctx, programID); err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to delete program", nil)
	}
	return c.NoContent(http.StatusNoContent)
}

// Explain asks the LLM explainer to diagnose a blocked transaction
func (h *Handlers) Explain(c echo.Context) error {
	if h.Explainer == nil {
		return h.err(c, http.StatusBadRequest, "explainer is not configured", nil)
	}

	var req ExplainRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if len(req.Issues) == 0 && len(req.Logs) == 0 {
		return h.err(c, http.StatusBadRequest, "nothing to explain", map[string]any{"issues": "issues or logs required"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	start := time.Now()
	explanation, err := h.Explainer.Explain(ctx, ai.ExplainRequest{
		Issues:       req.Issues,
		Warnings:     req.Warnings,
		Logs:         req.Logs,
		DecodedError: req.DecodedError,
	})
	if err != nil {
		h.Logger.WithField("error", err.Error()).Warn("explain request failed")
		return h.err(c, http.StatusBadGateway, "explanation failed", nil)
	}

	return c.JSON(http.StatusOK, ExplainResponse{
		Explanation: explanation,
		TookMs:      time.Since(start).Milliseconds(),
	})
}
