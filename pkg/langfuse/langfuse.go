package langfuse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	ingestionPath        = "/api/public/ingestion"
	promptsPath          = "/api/public/v2/prompts"
	maxResponseSizeBytes = 2 << 20
)

type Config struct {
	Host      string        `split_words:"true" default:"https://cloud.langfuse.com"`
	PublicKey string        `split_words:"true"`
	SecretKey string        `split_words:"true"`
	Timeout   time.Duration `split_words:"true" default:"10s"`
}

// Configured reports whether both API keys are present; callers skip the
// integration entirely when they are not.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.PublicKey) != "" && strings.TrimSpace(c.SecretKey) != ""
}

// ClientOption customizes Client.
type ClientOption func(*Client)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// Client talks to the Langfuse public REST API: prompt management and
// observation ingestion. Authentication is HTTP basic with the project
// key pair.
type Client struct {
	baseURL    string
	publicKey  string
	secretKey  string
	httpClient *http.Client
}

func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.Host), "/")
	if baseURL == "" {
		return nil, errors.New("langfuse host is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid langfuse host: %w", err)
	}
	if !cfg.Configured() {
		return nil, errors.New("langfuse public and secret keys are required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL:   baseURL,
		publicKey: strings.TrimSpace(cfg.PublicKey),
		secretKey: strings.TrimSpace(cfg.SecretKey),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

func MustNew(cfg Config, opts ...ClientOption) *Client {
	client, err := NewClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// Prompt is a managed prompt version. Only text-type prompts are consumed
// here; chat-type prompts are not used by this project.
type Prompt struct {
	Name    string   `json:"name"`
	Version int      `json:"version"`
	Type    string   `json:"type"`
	Prompt  string   `json:"prompt"`
	Labels  []string `json:"labels"`
}

// GetPrompt fetches the latest production-labeled version of a managed
// text prompt.
func (c *Client) GetPrompt(ctx context.Context, name string) (*Prompt, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, errors.New("prompt name is required")
	}

	raw, err := c.do(ctx, http.MethodGet, promptsPath+"/"+url.PathEscape(trimmed), nil)
	if err != nil {
		return nil, err
	}

	var prompt Prompt
	if err := json.Unmarshal(raw, &prompt); err != nil {
		return nil, fmt.Errorf("decode prompt response: %w", err)
	}
	if prompt.Type != "" && prompt.Type != "text" {
		return nil, fmt.Errorf("prompt %q has unsupported type %q", trimmed, prompt.Type)
	}
	return &prompt, nil
}

// CreatePromptRequest creates a new version of a managed text prompt.
type CreatePromptRequest struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Prompt string   `json:"prompt"`
	Labels []string `json:"labels,omitempty"`
}

func (c *Client) CreatePrompt(ctx context.Context, req CreatePromptRequest) (*Prompt, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New("prompt name is required")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, errors.New("prompt body is required")
	}
	if req.Type == "" {
		req.Type = "text"
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal prompt request: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, promptsPath, body)
	if err != nil {
		return nil, err
	}

	var prompt Prompt
	if err := json.Unmarshal(raw, &prompt); err != nil {
		return nil, fmt.Errorf("decode prompt response: %w", err)
	}
	return &prompt, nil
}

// IngestionEvent is one element of an ingestion batch. Body shape depends
// on Type (trace-create, generation-create, span-create).
type IngestionEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Body      any       `json:"body"`
}

type TraceBody struct {
	ID        string   `json:"id"`
	Name      string   `json:"name,omitempty"`
	SessionID string   `json:"sessionId,omitempty"`
	Input     any      `json:"input,omitempty"`
	Output    any      `json:"output,omitempty"`
	Metadata  any      `json:"metadata,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

type GenerationBody struct {
	ID        string     `json:"id"`
	TraceID   string     `json:"traceId"`
	Name      string     `json:"name,omitempty"`
	Model     string     `json:"model,omitempty"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Input     any        `json:"input,omitempty"`
	Output    any        `json:"output,omitempty"`
	Metadata  any        `json:"metadata,omitempty"`
}

type SpanBody struct {
	ID        string     `json:"id"`
	TraceID   string     `json:"traceId"`
	Name      string     `json:"name,omitempty"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Input     any        `json:"input,omitempty"`
	Output    any        `json:"output,omitempty"`
	Metadata  any        `json:"metadata,omitempty"`
}

type ingestionRequest struct {
	Batch []IngestionEvent `json:"batch"`
}

type ingestionResponse struct {
	Successes []json.RawMessage `json:"successes"`
	Errors    []struct {
		ID      string `json:"id"`
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Ingest submits a batch of observation events. The endpoint replies 207
// with per-event outcomes; any rejected event turns into an error.
func (c *Client) Ingest(ctx context.Context, events []IngestionEvent) error {
	if len(events) == 0 {
		return nil
	}

	body, err := json.Marshal(ingestionRequest{Batch: events})
	if err != nil {
		return fmt.Errorf("marshal ingestion batch: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, ingestionPath, body)
	if err != nil {
		return err
	}

	var parsed ingestionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("decode ingestion response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		first := parsed.Errors[0]
		return fmt.Errorf("ingestion rejected %d event(s): id=%s status=%d %s",
			len(parsed.Errors), first.ID, first.Status, first.Message)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	if c == nil {
		return nil, errors.New("nil langfuse client")
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build langfuse request: %w", err)
	}
	req.SetBasicAuth(c.publicKey, c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute langfuse request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read langfuse response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("langfuse http status=%d body=%s", resp.StatusCode, string(raw))
	}

	return raw, nil
}
