package auth

import (
	"net/http"

	"golang.org/x/oauth2/endpoints"
)

const (
	// ClientID identifies the OAuth app Copilot editors authenticate as.
	ClientID = "Iv1.b507a08c87ecfe98"

	// OAuthScope is the scope requested during device authorization.
	OAuthScope = "read:user"

	// DefaultAPIKeyURL exchanges a GitHub access token for a short-lived
	// Copilot API key.
	DefaultAPIKeyURL = "https://api.github.com/copilot_internal/v2/token"

	editorVersion       = "vscode/1.85.1"
	editorPluginVersion = "copilot/1.155.0"
	userAgent           = "GithubCopilot/1.155.0"
)

// Device authorization endpoints, from the oauth2 endpoint catalog.
var (
	DefaultDeviceCodeURL = endpoints.GitHub.DeviceAuthURL
	DefaultTokenURL      = endpoints.GitHub.TokenURL
)

// SetEditorHeaders applies the headers GitHub expects from a Copilot editor
// integration. Accept-Encoding is left to the transport so it decodes
// compressed responses itself.
func SetEditorHeaders(h http.Header) {
	h.Set("Accept", "application/json")
	h.Set("Editor-Version", editorVersion)
	h.Set("Editor-Plugin-Version", editorPluginVersion)
	h.Set("User-Agent", userAgent)
}
