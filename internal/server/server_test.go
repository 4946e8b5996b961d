package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aman-zulfiqar/solana-txkit/internal/codec"
	"github.com/aman-zulfiqar/solana-txkit/internal/schema"
	"github.com/gagliardetto/solana-go"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProgramID = "Bj4vH3tVu1GjCHeU3peRfYyxJpAzooyZCTU6rRFR4AnY"

const testIDL = `{
	"address": "Bj4vH3tVu1GjCHeU3peRfYyxJpAzooyZCTU6rRFR4AnY",
	"instructions": [
		{
			"name": "send_sol",
			"discriminator": [214, 24, 219, 18, 3, 205, 201, 179],
			"accounts": [
				{"name": "send_account", "writable": true},
				{"name": "sender", "writable": true, "signer": true},
				{"name": "recipient", "writable": true},
				{"name": "system_program"}
			],
			"args": [
				{"name": "amount", "type": "u64"},
				{"name": "recipient", "type": "pubkey"}
			]
		}
	],
	"errors": [
		{"code": 6000, "name": "AmountTooSmall", "msg": "Amount below minimum"}
	]
}`

func newTestEcho(t *testing.T, cfg ServerConfig) *echo.Echo {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	reg := schema.NewRegistry(logger)
	require.NoError(t, reg.Load(testProgramID, []byte(testIDL)))
	reg.RegisterErrorOverrides(testProgramID, map[uint32]string{
		6001: "Unauthorized: sender does not own the send account",
	})

	h := &Handlers{
		Schemas: reg,
		Encoder: codec.NewEncoder(reg),
		DevMode: cfg.DevMode,
		Logger:  logger,
	}

	e := echo.New()
	e.HideBanner = true
	RegisterRoutes(e, h, cfg)
	return e
}

func doRequest(e *echo.Echo, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e := newTestEcho(t, ServerConfig{})

	rec := doRequest(e, http.MethodGet, "/v1/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
}

func TestEncodeEndpoint(t *testing.T) {
	e := newTestEcho(t, ServerConfig{})

	recipient := solana.NewWallet().PublicKey()
	body, _ := json.Marshal(EncodeRequest{
		ProgramID:   testProgramID,
		Instruction: "send_sol",
		Args: map[string]any{
			"amount":    1000000000,
			"recipient": recipient.String(),
		},
		Accounts: map[string]string{
			"send_account":   solana.NewWallet().PublicKey().String(),
			"sender":         solana.NewWallet().PublicKey().String(),
			"recipient":      recipient.String(),
			"system_program": solana.SystemProgramID.String(),
		},
	})

	rec := doRequest(e, http.MethodPost, "/v1/encode", string(body), nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp EncodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 48, resp.DataLen)
	data, err := base64.StdEncoding.DecodeString(resp.DataBase64)
	require.NoError(t, err)
	assert.Equal(t, []byte{214, 24, 219, 18, 3, 205, 201, 179}, data[:8])
	require.Len(t, resp.Accounts, 4)
	assert.True(t, resp.Accounts[1].Signer)
}

func TestEncodeEndpointUnknownInstruction(t *testing.T) {
	e := newTestEcho(t, ServerConfig{})

	body := `{"program_id": "` + testProgramID + `", "instruction": "burn_sol", "args": {}, "accounts": {}}`
	rec := doRequest(e, http.MethodPost, "/v1/encode", body, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEncodeEndpointMissingArgument(t *testing.T) {
	e := newTestEcho(t, ServerConfig{DevMode: true})

	body := `{"program_id": "` + testProgramID + `", "instruction": "send_sol", "args": {"amount": 1}, "accounts": {}}`
	rec := doRequest(e, http.MethodPost, "/v1/encode", body, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "encode failed", resp.Error)
	assert.NotNil(t, resp.Details, "dev mode includes details")
}

func TestEncodeEndpointInvalidAccountAddress(t *testing.T) {
	e := newTestEcho(t, ServerConfig{})

	body := `{"program_id": "` + testProgramID + `", "instruction": "send_sol",
		"args": {}, "accounts": {"sender": "not-base58!"}}`
	rec := doRequest(e, http.MethodPost, "/v1/encode", body, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecodeErrorEndpoint(t *testing.T) {
	e := newTestEcho(t, ServerConfig{})

	// Override table wins.
	rec := doRequest(e, http.MethodGet, "/v1/errors/"+testProgramID+"/6001", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp DecodeErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Unauthorized: sender does not own the send account", resp.Message)

	// Generic schema table as fallback.
	rec = doRequest(e, http.MethodGet, "/v1/errors/"+testProgramID+"/6000", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "AmountTooSmall: Amount below minimum", resp.Message)

	// Unknown code.
	rec = doRequest(e, http.MethodGet, "/v1/errors/"+testProgramID+"/1234", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Non-numeric code.
	rec = doRequest(e, http.MethodGet, "/v1/errors/"+testProgramID+"/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIKeyAuth(t *testing.T) {
	e := newTestEcho(t, ServerConfig{APIKey: "secret"})

	rec := doRequest(e, http.MethodGet, "/v1/health", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing key is rejected")

	rec = doRequest(e, http.MethodGet, "/v1/health", "", map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(e, http.MethodGet, "/v1/health", "", map[string]string{"X-API-Key": "secret"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNotFoundReturnsJSONEnvelope(t *testing.T) {
	e := newTestEcho(t, ServerConfig{})

	rec := doRequest(e, http.MethodGet, "/nope", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUnconfiguredDependenciesRejectCleanly(t *testing.T) {
	e := newTestEcho(t, ServerConfig{})

	rec := doRequest(e, http.MethodGet, "/v1/quote?inputMint=a&outputMint=b&amount=1", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(e, http.MethodGet, "/v1/programs", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(e, http.MethodPost, "/v1/ai/explain", `{"issues": ["x"]}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
