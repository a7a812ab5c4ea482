package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/provaloop/studyloop-backend/internal/platform/ctxutil"
	"github.com/provaloop/studyloop-backend/internal/platform/envutil"
	"github.com/provaloop/studyloop-backend/internal/platform/logger"
)

const anthropicVersion = "2023-06-01"

// Client is the text-generation collaborator. Callers hand it one prompt and
// get back the model's raw text; all structure lives in the prompt and in
// the caller's parsing.
type Client interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not set")
	}
	return &client{
		log:     log.With("client", "AnthropicClient"),
		baseURL: envutil.String("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
		apiKey:  apiKey,
		model:   envutil.String("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		httpClient: &http.Client{
			Timeout: envutil.Duration("ANTHROPIC_TIMEOUT", 120*time.Second),
		},
	}, nil
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *client) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx = ctxutil.Default(ctx)
	if maxTokens <= 0 {
		maxTokens = 1500
	}
	reqBody := messagesRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", fmt.Errorf("anthropic read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic status %d: %s", resp.StatusCode, truncate(string(body), 500))
	}

	var parsed messagesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("anthropic decode: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("anthropic error: %s", parsed.Error.Message)
	}
	if len(parsed.Content) == 0 || strings.TrimSpace(parsed.Content[0].Text) == "" {
		return "", errors.New("anthropic response has no text content")
	}

	c.log.Debug("Generation complete", "model", c.model, "duration_ms", time.Since(start).Milliseconds())
	return parsed.Content[0].Text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
