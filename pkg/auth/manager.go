package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mossrock/copilot-chat/pkg/events"
)

// Manager yields valid Copilot credentials. Lookups consult the store
// first; the device flow and the key exchange run only on a miss or an
// expired record.
type Manager struct {
	Store      *TokenStore
	Flow       *DeviceFlow
	APIKeyURL  string
	HTTPClient *http.Client
	Events     *events.Recorder

	// LoginAttempts and RefreshAttempts bound the acquisition loops;
	// RetryGap is the pause between key-exchange attempts.
	LoginAttempts   int
	RefreshAttempts int
	RetryGap        time.Duration
}

func (m *Manager) loginAttempts() int {
	if m.LoginAttempts > 0 {
		return m.LoginAttempts
	}
	return 3
}

func (m *Manager) refreshAttempts() int {
	if m.RefreshAttempts > 0 {
		return m.RefreshAttempts
	}
	return 3
}

func (m *Manager) retryGap() time.Duration {
	if m.RetryGap > 0 {
		return m.RetryGap
	}
	return time.Second
}

func (m *Manager) apiKeyURL() string {
	if m.APIKeyURL != "" {
		return m.APIKeyURL
	}
	return DefaultAPIKeyURL
}

func (m *Manager) httpClient() *http.Client {
	if m.HTTPClient != nil {
		return m.HTTPClient
	}
	return defaultHTTPClient
}

func (m *Manager) flow() *DeviceFlow {
	if m.Flow != nil {
		return m.Flow
	}
	return &DeviceFlow{HTTPClient: m.HTTPClient, Events: m.Events}
}

// AccessToken returns the stored access token, running the device login up
// to three times when none is cached. The first successful login is
// persisted; a persist failure is reported through the event sink but does
// not fail the call.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	if token, err := m.Store.AccessToken(); err == nil {
		return token, nil
	}

	attempts := m.loginAttempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		token, err := m.flow().Login(ctx)
		if err != nil {
			lastErr = err
			m.Events.Emit(ctx, &events.Event{
				Type:    events.EventLoginRetried,
				Details: map[string]any{"attempt": attempt, "error": err.Error()},
			})
			continue
		}
		if err := m.Store.SaveAccessToken(token); err != nil {
			// Losing the cache is not fatal; the token in hand still works.
			m.Events.Emit(ctx, &events.Event{
				Type:    events.EventTokenSaveFailed,
				Details: map[string]any{"error": err.Error()},
			})
		} else {
			m.Events.Emit(ctx, &events.Event{Type: events.EventTokenSaved})
		}
		return token, nil
	}

	m.Events.Emit(ctx, &events.Event{
		Type:    events.EventLoginFailed,
		Details: map[string]any{"attempts": attempts},
	})
	return "", &AuthError{Op: "login", Attempts: attempts, Err: lastErr}
}

// APIKey returns a usable API key, refreshing when the stored record is
// absent, mangled, or expired.
func (m *Manager) APIKey(ctx context.Context) (APIKey, error) {
	if key, err := m.Store.APIKey(); err == nil {
		return key, nil
	}
	return m.RefreshAPIKey(ctx)
}

// RefreshAPIKey exchanges the access token for a fresh API key, trying up
// to three times with a short gap. The new record is persisted with the
// server-declared expiry before it is returned.
func (m *Manager) RefreshAPIKey(ctx context.Context) (APIKey, error) {
	accessToken, err := m.AccessToken(ctx)
	if err != nil {
		return APIKey{}, err
	}

	attempts := m.refreshAttempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		key, err := m.exchangeAPIKey(ctx, accessToken)
		if err == nil {
			if err := m.Store.SaveAPIKey(key); err != nil {
				return APIKey{}, fmt.Errorf("failed to persist api key: %w", err)
			}
			m.Events.Emit(ctx, &events.Event{
				Type:    events.EventKeyRefreshed,
				Details: map[string]any{"expires_at": key.ExpiresAt},
			})
			return key, nil
		}
		lastErr = err
		m.Events.Emit(ctx, &events.Event{
			Type:    events.EventKeyRetried,
			Details: map[string]any{"attempt": attempt, "error": err.Error()},
		})
		if attempt < attempts {
			select {
			case <-ctx.Done():
				return APIKey{}, ctx.Err()
			case <-time.After(m.retryGap()):
			}
		}
	}

	m.Events.Emit(ctx, &events.Event{
		Type:    events.EventKeyFailed,
		Details: map[string]any{"attempts": attempts},
	})
	return APIKey{}, &AuthError{Op: "api key refresh", Attempts: attempts, Err: lastErr}
}

func (m *Manager) exchangeAPIKey(ctx context.Context, accessToken string) (APIKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.apiKeyURL(), nil)
	if err != nil {
		return APIKey{}, err
	}
	SetEditorHeaders(req.Header)
	req.Header.Set("Authorization", "token "+accessToken)

	resp, err := m.httpClient().Do(req)
	if err != nil {
		return APIKey{}, &TransportError{URL: m.apiKeyURL(), Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return APIKey{}, &TransportError{URL: m.apiKeyURL(), Err: err}
	}
	if resp.StatusCode >= 400 {
		return APIKey{}, fmt.Errorf("api key exchange failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var key APIKey
	if err := json.Unmarshal(raw, &key); err != nil {
		return APIKey{}, fmt.Errorf("failed to parse api key response: %w", err)
	}
	if key.Token == "" {
		return APIKey{}, &ProtocolError{Endpoint: "api key exchange", Missing: []string{"token"}}
	}
	if !key.ValidAt(time.Now()) {
		return APIKey{}, fmt.Errorf("api key exchange returned an expired key (expires_at=%d)", key.ExpiresAt)
	}
	return key, nil
}
