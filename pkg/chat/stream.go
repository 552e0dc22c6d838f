package chat

import (
	"bufio"
	"io"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	ssePrefix = "data: "
	sseDone   = "[DONE]"

	// maxLineBytes bounds a single SSE line; completion deltas are tiny
	// but error bodies can arrive as one long line.
	maxLineBytes = 1 << 20
)

// decodeStreamLine classifies one line of a streaming response. It returns
// the fragment to emit (empty for nothing) and whether the stream is done.
//
// Only `data: `-prefixed lines are event payloads. The `[DONE]` payload
// terminates the stream. Structured payloads contribute the first choice's
// delta content; payloads that are not valid JSON pass through as raw
// text, as do lines without the prefix.
func decodeStreamLine(line string) (fragment string, done bool) {
	payload, ok := strings.CutPrefix(line, ssePrefix)
	if !ok {
		return line, false
	}
	if payload == sseDone {
		return "", true
	}
	if !gjson.Valid(payload) {
		return payload, false
	}
	return gjson.Get(payload, "choices.0.delta.content").String(), false
}

// consumeStream reads a streaming response body line by line, emitting
// fragments until the done marker or EOF. It returns the number of
// fragments emitted and any read error.
func consumeStream(body io.Reader, emit func(string)) (int, error) {
	fragments := 0
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fragment, done := decodeStreamLine(line)
		if done {
			break
		}
		if fragment != "" {
			emit(fragment)
			fragments++
		}
	}
	return fragments, scanner.Err()
}
