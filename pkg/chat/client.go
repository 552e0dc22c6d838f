package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mossrock/copilot-chat/pkg/auth"
	"github.com/mossrock/copilot-chat/pkg/events"
)

const (
	// DefaultBaseURL is the Copilot completions host.
	DefaultBaseURL = "https://api.githubcopilot.com"

	completionsPath = "/chat/completions"
	integrationID   = "vscode-chat"
)

// Credentials yields the short-lived key completion calls authenticate
// with. *auth.Manager satisfies it.
type Credentials interface {
	APIKey(ctx context.Context) (auth.APIKey, error)
}

// Client talks to the Copilot completions endpoint.
type Client struct {
	baseURL  string
	http     *http.Client
	creds    Credentials
	registry *Registry
	events   *events.Recorder
}

type Option func(*Client) error

// New builds a Client around a credential source.
func New(creds Credentials, opts ...Option) (*Client, error) {
	if creds == nil {
		return nil, errors.New("credentials are required")
	}
	c := &Client{
		baseURL:  DefaultBaseURL,
		http:     &http.Client{Timeout: 120 * time.Second},
		creds:    creds,
		registry: DefaultRegistry(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func WithBaseURL(baseURL string) Option {
	return func(c *Client) error {
		if baseURL == "" {
			return errors.New("base URL is required")
		}
		c.baseURL = strings.TrimSuffix(baseURL, "/")
		return nil
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		if httpClient == nil {
			return errors.New("http client is required")
		}
		c.http = httpClient
		return nil
	}
}

func WithRegistry(registry *Registry) Option {
	return func(c *Client) error {
		if registry == nil {
			return errors.New("registry is required")
		}
		c.registry = registry
		return nil
	}
}

func WithEvents(recorder *events.Recorder) Option {
	return func(c *Client) error {
		c.events = recorder
		return nil
	}
}

// Registry returns the client's model registry.
func (c *Client) Registry() *Registry { return c.registry }

// Request is one completion call.
type Request struct {
	// Model is the caller-facing model identifier.
	Model string
	// Prompt is the new user turn.
	Prompt string
	// Conversation is the optional prior history.
	Conversation *Conversation
	// Options tune the completion.
	Options Options
	// Stream requests incremental delta fragments.
	Stream bool
}

type completionPayload struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

// Execute runs one completion, delivering output through emit. Every
// failure — credentials, transport, HTTP status — becomes one terminal
// error fragment; Execute never propagates an error to the caller.
//
// A non-streaming diagnostic call goes out first: a non-empty body is
// emitted whole and ends the call. Streaming happens only when the
// diagnostic body was empty.
func (c *Client) Execute(ctx context.Context, req Request, emit func(fragment string)) {
	if err := req.Options.Validate(); err != nil {
		emit(fmt.Sprintf("Error validating options: %v", err))
		return
	}

	key, err := c.creds.APIKey(ctx)
	if err != nil {
		c.events.Emit(ctx, &events.Event{
			Type:    events.EventCompletionFailed,
			Details: map[string]any{"stage": "credentials", "error": err.Error()},
		})
		emit(fmt.Sprintf("Error getting GitHub Copilot API key: %v", err))
		return
	}

	apiModel := c.registry.Resolve(req.Model)
	payload := completionPayload{
		Model:       apiModel,
		Messages:    BuildMessages(req.Conversation, req.Prompt),
		MaxTokens:   req.Options.maxTokens(),
		Temperature: req.Options.temperature(),
		Stream:      req.Stream,
	}
	c.events.Emit(ctx, &events.Event{
		Type: events.EventCompletionStarted,
		Details: map[string]any{
			"model":     req.Model,
			"api_model": apiModel,
			"stream":    req.Stream,
		},
	})

	if body, ok := c.probe(ctx, key.Token, payload); ok {
		emit(body)
		return
	}

	c.stream(ctx, key.Token, payload, emit)
}

// probe issues the non-streaming diagnostic call. It reports the body and
// whether that body short-circuits the completion. Probe failures are not
// terminal; the streaming call still gets its chance.
func (c *Client) probe(ctx context.Context, apiKey string, payload completionPayload) (string, bool) {
	diagnostic := payload
	diagnostic.Stream = false

	resp, err := c.post(ctx, apiKey, diagnostic)
	if err != nil {
		c.events.Emit(ctx, &events.Event{
			Type:    events.EventCompletionProbe,
			Details: map[string]any{"error": err.Error()},
		})
		return "", false
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.events.Emit(ctx, &events.Event{
			Type:    events.EventCompletionProbe,
			Details: map[string]any{"status": resp.StatusCode, "error": err.Error()},
		})
		return "", false
	}

	c.events.Emit(ctx, &events.Event{
		Type:    events.EventCompletionProbe,
		Details: map[string]any{"status": resp.StatusCode, "bytes": len(body)},
	})
	if len(body) == 0 {
		return "", false
	}
	return string(body), true
}

func (c *Client) stream(ctx context.Context, apiKey string, payload completionPayload, emit func(string)) {
	resp, err := c.post(ctx, apiKey, payload)
	if err != nil {
		c.events.Emit(ctx, &events.Event{
			Type:    events.EventCompletionFailed,
			Details: map[string]any{"stage": "stream", "error": err.Error()},
		})
		emit(fmt.Sprintf("Error with GitHub Copilot request: %v", err))
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		c.events.Emit(ctx, &events.Event{
			Type:    events.EventCompletionFailed,
			Details: map[string]any{"stage": "stream", "status": resp.StatusCode},
		})
		emit(fmt.Sprintf("HTTP error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
		return
	}

	c.events.Emit(ctx, &events.Event{
		Type:    events.EventStreamStarted,
		Details: map[string]any{"status": resp.StatusCode},
	})

	fragments, err := consumeStream(resp.Body, emit)
	if err != nil {
		c.events.Emit(ctx, &events.Event{
			Type:    events.EventCompletionFailed,
			Details: map[string]any{"stage": "stream", "error": err.Error()},
		})
		emit(fmt.Sprintf("Error with GitHub Copilot request: %v", err))
		return
	}

	c.events.Emit(ctx, &events.Event{
		Type:    events.EventStreamDone,
		Details: map[string]any{"fragments": fragments},
	})
}

func (c *Client) post(ctx context.Context, apiKey string, payload completionPayload) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	auth.SetEditorHeaders(req.Header)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Copilot-Integration-Id", integrationID)
	req.Header.Set("X-Request-Id", uuid.New().String())
	return c.http.Do(req)
}
