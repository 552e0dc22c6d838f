package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/mossrock/copilot-chat/pkg/events"
)

const grantTypeDeviceCode = "urn:ietf:params:oauth:grant-type:device_code"

// FlowState is the lifecycle position of a DeviceFlow.
type FlowState string

const (
	StateInit                FlowState = "INIT"
	StateDeviceCodeRequested FlowState = "DEVICE_CODE_REQUESTED"
	StatePolling             FlowState = "POLLING"
	StateAuthorized          FlowState = "AUTHORIZED"
	StateExpired             FlowState = "EXPIRED"
	StateFailed              FlowState = "FAILED"
)

// DeviceCodeSession is the ephemeral handle for one authorization attempt.
type DeviceCodeSession struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	Scope       string `json:"scope,omitempty"`
	Error       string `json:"error,omitempty"`
	ErrorDesc   string `json:"error_description,omitempty"`
}

// Per-iteration poll outcome. Expected intermediate states are values, not
// errors.
type pollStatus int

const (
	pollAuthorized pollStatus = iota
	pollPending
	pollSlowDown
	pollDenied
	pollIndeterminate
)

type pollResult struct {
	status pollStatus
	token  string
	err    error
}

// DeviceFlow drives the OAuth device authorization grant against GitHub.
// The zero value is usable; unset fields fall back to the GitHub defaults.
type DeviceFlow struct {
	ClientID      string
	Scope         string
	DeviceCodeURL string
	TokenURL      string

	// MaxAttempts bounds the token poll loop. PollInterval is the gap
	// between polls when the server does not dictate one.
	MaxAttempts  int
	PollInterval time.Duration

	// Prompt receives the user-facing verification instructions.
	Prompt io.Writer
	// OpenBrowser launches the verification URI locally once the prompt
	// has been printed.
	OpenBrowser bool

	HTTPClient *http.Client
	Events     *events.Recorder

	state FlowState
}

// State returns the flow's current lifecycle state.
func (f *DeviceFlow) State() FlowState {
	if f.state == "" {
		return StateInit
	}
	return f.state
}

func (f *DeviceFlow) clientID() string {
	if f.ClientID != "" {
		return f.ClientID
	}
	return ClientID
}

func (f *DeviceFlow) scope() string {
	if f.Scope != "" {
		return f.Scope
	}
	return OAuthScope
}

func (f *DeviceFlow) deviceCodeURL() string {
	if f.DeviceCodeURL != "" {
		return f.DeviceCodeURL
	}
	return DefaultDeviceCodeURL
}

func (f *DeviceFlow) tokenURL() string {
	if f.TokenURL != "" {
		return f.TokenURL
	}
	return DefaultTokenURL
}

func (f *DeviceFlow) maxAttempts() int {
	if f.MaxAttempts > 0 {
		return f.MaxAttempts
	}
	return 12
}

func (f *DeviceFlow) pollInterval() time.Duration {
	if f.PollInterval > 0 {
		return f.PollInterval
	}
	return 5 * time.Second
}

func (f *DeviceFlow) prompt() io.Writer {
	if f.Prompt != nil {
		return f.Prompt
	}
	return os.Stdout
}

func (f *DeviceFlow) httpClient() *http.Client {
	if f.HTTPClient != nil {
		return f.HTTPClient
	}
	return defaultHTTPClient
}

var defaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

// RequestDeviceCode performs the device code request and validates that the
// response carries everything the rest of the flow needs.
func (f *DeviceFlow) RequestDeviceCode(ctx context.Context) (*DeviceCodeSession, error) {
	f.state = StateInit

	body, err := json.Marshal(map[string]string{
		"client_id": f.clientID(),
		"scope":     f.scope(),
	})
	if err != nil {
		f.state = StateFailed
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.deviceCodeURL(), bytes.NewReader(body))
	if err != nil {
		f.state = StateFailed
		return nil, err
	}
	SetEditorHeaders(req.Header)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient().Do(req)
	if err != nil {
		f.state = StateFailed
		return nil, &TransportError{URL: f.deviceCodeURL(), Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		f.state = StateFailed
		return nil, fmt.Errorf("device code request failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var session DeviceCodeSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		f.state = StateFailed
		return nil, fmt.Errorf("failed to parse device code response: %w", err)
	}

	var missing []string
	if session.DeviceCode == "" {
		missing = append(missing, "device_code")
	}
	if session.UserCode == "" {
		missing = append(missing, "user_code")
	}
	if session.VerificationURI == "" {
		missing = append(missing, "verification_uri")
	}
	if len(missing) > 0 {
		f.state = StateFailed
		return nil, &ProtocolError{Endpoint: "device code", Missing: missing}
	}

	f.state = StateDeviceCodeRequested
	f.Events.Emit(ctx, &events.Event{
		Type:    events.EventDeviceCodeRequested,
		Details: map[string]any{"verification_uri": session.VerificationURI},
	})
	return &session, nil
}

// PollForToken exchanges the device code for an access token, polling until
// the user authorizes, a terminal grant error arrives, or the attempt
// budget runs out.
func (f *DeviceFlow) PollForToken(ctx context.Context, session *DeviceCodeSession) (string, error) {
	f.state = StatePolling

	interval := f.pollInterval()
	if session.Interval > 0 {
		interval = time.Duration(session.Interval) * time.Second
	}
	attempts := f.maxAttempts()

	for attempt := 1; attempt <= attempts; attempt++ {
		res := f.pollOnce(ctx, session.DeviceCode)
		switch res.status {
		case pollAuthorized:
			f.state = StateAuthorized
			f.Events.Emit(ctx, &events.Event{
				Type:    events.EventLoginSucceeded,
				Details: map[string]any{"attempt": attempt},
			})
			return res.token, nil
		case pollPending:
			f.Events.Emit(ctx, &events.Event{
				Type:    events.EventPollPending,
				Details: map[string]any{"attempt": attempt, "max_attempts": attempts},
			})
		case pollSlowDown:
			interval += f.pollInterval()
			f.Events.Emit(ctx, &events.Event{
				Type:    events.EventPollSlowDown,
				Details: map[string]any{"attempt": attempt, "interval": interval.String()},
			})
		case pollIndeterminate:
			// Unexpected but not terminal; keep polling.
			f.Events.Emit(ctx, &events.Event{
				Type:    events.EventPollIndeterminate,
				Details: map[string]any{"attempt": attempt, "error": res.err.Error()},
			})
		case pollDenied:
			f.state = StateFailed
			return "", res.err
		}

		if attempt < attempts {
			select {
			case <-ctx.Done():
				f.state = StateFailed
				return "", ctx.Err()
			case <-time.After(interval):
			}
		}
	}

	f.state = StateExpired
	return "", ErrTimeout
}

func (f *DeviceFlow) pollOnce(ctx context.Context, deviceCode string) pollResult {
	body, err := json.Marshal(map[string]string{
		"client_id":   f.clientID(),
		"device_code": deviceCode,
		"grant_type":  grantTypeDeviceCode,
	})
	if err != nil {
		return pollResult{status: pollDenied, err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.tokenURL(), bytes.NewReader(body))
	if err != nil {
		return pollResult{status: pollDenied, err: err}
	}
	SetEditorHeaders(req.Header)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient().Do(req)
	if err != nil {
		return pollResult{status: pollDenied, err: &TransportError{URL: f.tokenURL(), Err: err}}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pollResult{status: pollDenied, err: &TransportError{URL: f.tokenURL(), Err: err}}
	}

	var payload accessTokenResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return pollResult{status: pollIndeterminate, err: fmt.Errorf("malformed token response: %s", strings.TrimSpace(string(raw)))}
	}

	if payload.AccessToken != "" {
		return pollResult{status: pollAuthorized, token: payload.AccessToken}
	}
	switch payload.Error {
	case "authorization_pending":
		return pollResult{status: pollPending}
	case "slow_down":
		return pollResult{status: pollSlowDown}
	case "expired_token", "access_denied", "incorrect_device_code", "unsupported_grant_type":
		return pollResult{status: pollDenied, err: fmt.Errorf("device token error: %s", payload.Error)}
	default:
		return pollResult{status: pollIndeterminate, err: fmt.Errorf("unexpected token response (%d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))}
	}
}

// Login runs the whole flow: request a device code, prompt the user, poll
// for the token. The human acts out-of-band in a browser, so this blocks
// for up to a minute.
func (f *DeviceFlow) Login(ctx context.Context) (string, error) {
	session, err := f.RequestDeviceCode(ctx)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(f.prompt(), "\nPlease visit %s and enter code %s to authenticate GitHub Copilot.\n\n",
		session.VerificationURI, session.UserCode)
	f.Events.Emit(ctx, &events.Event{
		Type:    events.EventLoginPrompt,
		Details: map[string]any{"user_code": session.UserCode},
	})
	if f.OpenBrowser {
		_ = openBrowser(session.VerificationURI)
	}

	return f.PollForToken(ctx, session)
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
