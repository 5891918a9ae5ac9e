package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const systemPrompt = "You are a concise prediction market analyst. " +
	"Given a market, reply with two short sentences on what the odds imply and what could move them. No preamble."

// HTTPConfig configures an OpenAI-compatible chat completion endpoint
type HTTPConfig struct {
	Endpoint  string // Full URL of the chat completions resource
	Model     string
	APIKey    string
	Timeout   time.Duration
	MaxTokens int
}

// HTTPService calls a chat completion endpoint for insight text
type HTTPService struct {
	cfg    HTTPConfig
	client *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewHTTPService creates a service, a zero timeout means the caller's context governs
func NewHTTPService(cfg HTTPConfig) *HTTPService {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 160
	}
	return &HTTPService{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

func (s *HTTPService) Generate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: s.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt(req)},
		},
		MaxTokens: s.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode json: %w", err)
	}
	if out.Error != nil && out.Error.Message != "" {
		return "", fmt.Errorf("completion error: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmpty
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}

func prompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Market: %s\n", req.Title)
	if req.Description != "" {
		desc := req.Description
		if r := []rune(desc); len(r) > 400 {
			desc = string(r[:400])
		}
		fmt.Fprintf(&b, "Details: %s\n", desc)
	}
	fmt.Fprintf(&b, "Yes odds: %d%%\nVolume: $%.0f\n24h move: %s %.1f%%\n", req.Odds, req.Volume, req.Trend, req.Change)
	return b.String()
}
