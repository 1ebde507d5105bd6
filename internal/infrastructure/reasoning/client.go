// Package reasoning talks to the external natural-language reasoning service
// through an OpenAI-compatible chat-completions endpoint.
package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/ports"
)

// ErrUnavailable is the umbrella for every failure mode of the reasoning
// service. The specific errors below all match it via errors.Is, so the
// classifier can treat them uniformly when deciding to fall back.
var (
	ErrUnavailable   = errors.New("reasoning service unavailable")
	ErrTimeout       = fmt.Errorf("request timed out: %w", ErrUnavailable)
	ErrNetwork       = fmt.Errorf("network failure: %w", ErrUnavailable)
	ErrEmptyResponse = fmt.Errorf("empty completion: %w", ErrUnavailable)
)

const (
	defaultEndpoint   = "https://api.openai.com/v1/chat/completions"
	defaultModelID    = "gpt-4o-mini"
	defaultAuthEnvVar = "OPENAI_API_KEY"
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 1

	// Low temperature keeps verdicts deterministic; the token budget only
	// needs to fit a short JSON reply.
	requestTemperature = 0.1
	requestMaxTokens   = 300
)

// Client implements ports.Reasoner.
type Client struct {
	endpoint   string
	modelID    string
	authEnvVar string
	maxRetries int
	httpClient *http.Client
	logger     ports.Logger
}

// NewClient builds a client from config, substituting documented defaults for
// zero values. The request timeout is owned here, not by callers.
func NewClient(settings domain.ReasonerSettings, log ports.Logger) *Client {
	endpoint := settings.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	modelID := settings.ModelID
	if modelID == "" {
		modelID = defaultModelID
	}
	authEnvVar := settings.AuthEnvVar
	if authEnvVar == "" {
		authEnvVar = defaultAuthEnvVar
	}
	timeout := time.Duration(settings.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := settings.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	return &Client{
		endpoint:   endpoint,
		modelID:    modelID,
		authEnvVar: authEnvVar,
		maxRetries: maxRetries,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

// Analyze implements ports.Reasoner: it sends the policy prompt embedding the
// command and returns the raw completion text. Failures are one of
// ErrTimeout, ErrNetwork or ErrEmptyResponse; transport failures are retried
// within the configured budget, an empty completion is not.
func (c *Client) Analyze(ctx context.Context, command string) (string, error) {
	payload := chatCompletionRequest{
		Model: c.modelID,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: policyPrompt(command)},
		},
		MaxTokens:   requestMaxTokens,
		Temperature: requestTemperature,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		content, err := c.doRequest(ctx, body)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if errors.Is(err, ErrEmptyResponse) || ctx.Err() != nil {
			break
		}
		if c.logger != nil && attempt < c.maxRetries {
			c.logger.Warn("reasoner request failed, retrying", map[string]interface{}{
				"attempt": attempt + 1,
				"error":   err.Error(),
			})
		}
	}
	return "", lastErr
}

func (c *Client) doRequest(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("content-type", "application/json")
	if apiKey := os.Getenv(c.authEnvVar); apiKey != "" {
		req.Header.Set("authorization", "Bearer "+apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: %s", ErrNetwork, resp.Status)
	}

	var decoded chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	content := decoded.FirstMessage()
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}

var _ ports.Reasoner = (*Client)(nil)
