package auth

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates no credential of the requested kind is stored.
	ErrNotFound = errors.New("credential not found")
	// ErrExpired indicates the stored credential is past its expiry.
	ErrExpired = errors.New("credential expired")
	// ErrTimeout indicates the user did not complete device authorization
	// within the polling window.
	ErrTimeout = errors.New("device authorization timed out")
)

// ProtocolError indicates a server response was missing fields the flow
// cannot continue without.
type ProtocolError struct {
	Endpoint string
	Missing  []string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s response missing required fields: %s", e.Endpoint, strings.Join(e.Missing, ", "))
}

// AuthError indicates credential acquisition gave up after exhausting its
// attempt budget.
type AuthError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// TransportError wraps a network-level failure reaching GitHub.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
