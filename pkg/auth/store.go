package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zalando/go-keyring"
)

// StorageMode selects where the long-lived access token lives. The
// short-lived API key always stays on disk; it is worthless within minutes.
type StorageMode string

const (
	StorageFile    StorageMode = "file"
	StorageKeyring StorageMode = "keyring"
)

const (
	envTokenDir        = "GITHUB_COPILOT_TOKEN_DIR"
	envAccessTokenFile = "GITHUB_COPILOT_ACCESS_TOKEN_FILE"
	envAPIKeyFile      = "GITHUB_COPILOT_API_KEY_FILE"

	accessTokenFileName = "access-token"
	apiKeyFileName      = "api-key.json"

	keyringService = "copilot-chat"
	keyringUser    = "access-token"
)

// APIKey is the short-lived Copilot bearer token with its server-declared
// expiry in unix seconds.
type APIKey struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// ValidAt reports whether the key can still be used at the given time.
func (k APIKey) ValidAt(t time.Time) bool {
	return k.Token != "" && k.ExpiresAt > t.Unix()
}

// StoreConfig configures a TokenStore. Zero values fall back to the
// environment overrides and then the per-user config directory.
type StoreConfig struct {
	Dir             string
	AccessTokenPath string
	APIKeyPath      string
	Mode            StorageMode
}

// TokenStore persists the two Copilot credentials: the plaintext access
// token and the JSON API key record.
type TokenStore struct {
	dir             string
	accessTokenPath string
	apiKeyPath      string
	mode            StorageMode

	now func() time.Time
}

// NewTokenStore resolves the storage layout and creates the token
// directory. Directory creation is idempotent.
func NewTokenStore(cfg StoreConfig) (*TokenStore, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = os.Getenv(envTokenDir)
	}
	if dir == "" {
		dir = defaultTokenDir()
	}

	accessTokenPath := cfg.AccessTokenPath
	if accessTokenPath == "" {
		accessTokenPath = os.Getenv(envAccessTokenFile)
	}
	if accessTokenPath == "" {
		accessTokenPath = filepath.Join(dir, accessTokenFileName)
	}

	apiKeyPath := cfg.APIKeyPath
	if apiKeyPath == "" {
		apiKeyPath = os.Getenv(envAPIKeyFile)
	}
	if apiKeyPath == "" {
		apiKeyPath = filepath.Join(dir, apiKeyFileName)
	}

	mode := cfg.Mode
	if mode == "" {
		mode = StorageFile
	}
	if mode != StorageFile && mode != StorageKeyring {
		return nil, fmt.Errorf("unknown storage mode %q", mode)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create token dir: %w", err)
	}

	return &TokenStore{
		dir:             dir,
		accessTokenPath: accessTokenPath,
		apiKeyPath:      apiKeyPath,
		mode:            mode,
		now:             time.Now,
	}, nil
}

func defaultTokenDir() string {
	base, err := os.UserConfigDir()
	if err == nil {
		return filepath.Join(base, "copilot-chat")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".copilot-chat")
}

// Dir returns the resolved token directory.
func (s *TokenStore) Dir() string { return s.dir }

// Mode returns the access-token storage mode.
func (s *TokenStore) Mode() StorageMode { return s.mode }

// AccessToken returns the stored access token. A missing or empty
// credential is ErrNotFound.
func (s *TokenStore) AccessToken() (string, error) {
	if s.mode == StorageKeyring {
		secret, err := keyring.Get(keyringService, keyringUser)
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return "", ErrNotFound
			}
			return "", fmt.Errorf("keyring read: %w", err)
		}
		if strings.TrimSpace(secret) == "" {
			return "", ErrNotFound
		}
		return strings.TrimSpace(secret), nil
	}

	content, err := os.ReadFile(s.accessTokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	token := strings.TrimSpace(string(content))
	if token == "" {
		return "", ErrNotFound
	}
	return token, nil
}

// SaveAccessToken persists the access token.
func (s *TokenStore) SaveAccessToken(token string) error {
	if s.mode == StorageKeyring {
		if err := keyring.Set(keyringService, keyringUser, token); err != nil {
			return fmt.Errorf("keyring write: %w", err)
		}
		return nil
	}
	return os.WriteFile(s.accessTokenPath, []byte(token), 0o600)
}

// APIKey returns the stored API key record. Missing or mangled records are
// ErrNotFound; a present record past its expiry is ErrExpired.
func (s *TokenStore) APIKey() (APIKey, error) {
	content, err := os.ReadFile(s.apiKeyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return APIKey{}, ErrNotFound
		}
		return APIKey{}, err
	}
	var key APIKey
	if err := json.Unmarshal(content, &key); err != nil {
		// Treat a mangled record like a missing one so the caller
		// refreshes instead of failing.
		return APIKey{}, ErrNotFound
	}
	if key.Token == "" {
		return APIKey{}, ErrNotFound
	}
	if !key.ValidAt(s.now()) {
		return key, ErrExpired
	}
	return key, nil
}

// SaveAPIKey overwrites the persisted API key record.
func (s *TokenStore) SaveAPIKey(key APIKey) error {
	content, err := json.MarshalIndent(key, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal api key: %w", err)
	}
	return os.WriteFile(s.apiKeyPath, content, 0o600)
}

// DeleteAll removes every stored credential. Absent credentials are not an
// error.
func (s *TokenStore) DeleteAll() error {
	var errs []error
	if s.mode == StorageKeyring {
		if err := keyring.Delete(keyringService, keyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			errs = append(errs, fmt.Errorf("keyring delete: %w", err))
		}
	}
	if err := os.Remove(s.accessTokenPath); err != nil && !os.IsNotExist(err) {
		errs = append(errs, err)
	}
	if err := os.Remove(s.apiKeyPath); err != nil && !os.IsNotExist(err) {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
