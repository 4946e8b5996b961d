// Package ai turns raw simulation failures into plain-language diagnoses
// using an LLM behind OpenRouter.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ExplainerConfig holds configuration for the failure explainer.
type ExplainerConfig struct {
	// OpenRouter / LLM settings.
	OpenRouterAPIKey string
	// Model name as understood by OpenRouter, e.g. "openai/gpt-4.1-mini".
	Model string

	Logger *logrus.Logger
}

// Explainer summarises why a transaction was blocked or failed.
type Explainer struct {
	llm    llms.Model
	logger *logrus.Logger
}

func NewExplainer(cfg ExplainerConfig) (*Explainer, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	if cfg.OpenRouterAPIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY is required")
	}

	if cfg.Model == "" {
		cfg.Model = "openai/gpt-4.1-mini"
	}

	// OpenRouter speaks the OpenAI-compatible API.
	llm, err := openai.New(
		openai.WithToken(cfg.OpenRouterAPIKey),
		openai.WithBaseURL("https://openrouter.ai/api/v1"),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenRouter LLM: %w", err)
	}

	cfg.Logger.WithField("model", cfg.Model).Info("initialized failure explainer")

	return &Explainer{llm: llm, logger: cfg.Logger}, nil
}

// ExplainRequest carries everything known about one blocked transaction.
type ExplainRequest struct {
	Issues       []string
	Warnings     []string
	Logs         []string
	DecodedError string // output of the schema error decoder, if any
}

// Explain produces a short plain-language diagnosis and suggested next step
// for a blocked or failed transaction. Single LLM round-trip.
func (e *Explainer) Explain(ctx context.Context, req ExplainRequest) (string, error) {
	if len(req.Issues) == 0 && len(req.Logs) == 0 {
		return "", fmt.Errorf("nothing to explain: no issues or logs provided")
	}

	var sb strings.Builder
	sb.WriteString(`You are a Solana transaction triage assistant.

A transaction was blocked or failed validation before sending. Explain in
2-4 sentences what went wrong and what the user should do next. Be concrete,
no speculation beyond the evidence below. Do not return code.

Blocking issues:
`)
	for _, issue := range req.Issues {
		sb.WriteString("- " + issue + "\n")
	}
	if len(req.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, w := range req.Warnings {
			sb.WriteString("- " + w + "\n")
		}
	}
	if req.DecodedError != "" {
		sb.WriteString("\nDecoded program error: " + req.DecodedError + "\n")
	}
	if len(req.Logs) > 0 {
		sb.WriteString("\nSimulation logs:\n")
		for _, log := range req.Logs {
			sb.WriteString(log + "\n")
		}
	}

	resp, err := llms.GenerateFromSinglePrompt(ctx, e.llm, sb.String())
	if err != nil {
		return "", fmt.Errorf("failed to generate explanation: %w", err)
	}

	answer := strings.TrimSpace(resp)
	e.logger.WithFields(logrus.Fields{
		"issues": len(req.Issues),
		"chars":  len(answer),
	}).Debug("generated failure explanation")

	return answer, nil
}
