// Package gemini implements the card generation Completer on Google's
// Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/conorfennell/flashmark/internal/config"
	"github.com/conorfennell/flashmark/internal/generation"
)

// contentGenerator is the part of *genai.Models the completer uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Completer sends prompts to a Gemini model.
type Completer struct {
	models contentGenerator
	cfg    config.LLMConfig
	log    *slog.Logger
}

// NewCompleter creates a Gemini client for cfg. It fails when no API key or
// model is configured.
func NewCompleter(ctx context.Context, cfg config.LLMConfig, log *slog.Logger) (*Completer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrNotConfigured)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrNotConfigured)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return newCompleter(client.Models, cfg, log), nil
}

func newCompleter(models contentGenerator, cfg config.LLMConfig, log *slog.Logger) *Completer {
	return &Completer{
		models: models,
		cfg:    cfg,
		log:    log.With("component", "gemini", "model", cfg.Model),
	}
}

// Complete implements generation.Completer.
func (c *Completer) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("prompt cannot be empty")
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.cfg.Temperature),
		MaxOutputTokens: c.cfg.MaxTokens,
	}
	if systemPrompt != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	c.log.DebugContext(ctx, "calling Gemini", "prompt_length", len(prompt))
	resp, err := c.models.GenerateContent(ctx, c.cfg.Model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	switch {
	case resp == nil:
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	case resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "":
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	case len(resp.Candidates) == 0:
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	case resp.Candidates[0].FinishReason == genai.FinishReasonSafety:
		return "", fmt.Errorf("%w: response blocked", generation.ErrContentBlocked)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}
	c.log.DebugContext(ctx, "Gemini call succeeded", "response_length", len(text))
	return text, nil
}
