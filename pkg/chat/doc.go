// Package chat streams completions from the GitHub Copilot chat endpoint.
// A Client resolves model identifiers through a Registry, borrows an API
// key from its credential source, and delivers output fragment by fragment
// through a caller-supplied emit function. Execute never returns an error;
// every failure is converted into one terminal error fragment so the
// output sequence is always well formed.
package chat
