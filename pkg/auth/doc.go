// Package auth implements GitHub Copilot credential acquisition and storage:
// the OAuth device authorization flow, the exchange of the resulting access
// token for a short-lived Copilot API key, and the on-disk (or keyring)
// persistence of both.
package auth
