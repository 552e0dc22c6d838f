package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStreamLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		fragment string
		done     bool
	}{
		{
			name:     "delta content",
			line:     `data: {"choices":[{"delta":{"content":"Hi"}}]}`,
			fragment: "Hi",
		},
		{
			name: "done marker",
			line: "data: [DONE]",
			done: true,
		},
		{
			name:     "payload that is not json",
			line:     "data: not-json",
			fragment: "not-json",
		},
		{
			name: "delta without content",
			line: `data: {"choices":[{"delta":{}}]}`,
		},
		{
			name: "empty choices",
			line: `data: {"choices":[]}`,
		},
		{
			name:     "line without event prefix",
			line:     `{"error":"bad request"}`,
			fragment: `{"error":"bad request"}`,
		},
		{
			name:     "prefix without space is not an event",
			line:     `data:{"choices":[{"delta":{"content":"Hi"}}]}`,
			fragment: `data:{"choices":[{"delta":{"content":"Hi"}}]}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fragment, done := decodeStreamLine(tc.line)
			assert.Equal(t, tc.fragment, fragment)
			assert.Equal(t, tc.done, done)
		})
	}
}

func TestConsumeStream_DeltaSequence(t *testing.T) {
	body := strings.Join([]string{
		`data: {"choices":[{"delta":{"content":"Hi"}}]}`,
		"",
		`data: {"choices":[{"delta":{"content":" there"}}]}`,
		"",
		"data: [DONE]",
		`data: {"choices":[{"delta":{"content":"never emitted"}}]}`,
	}, "\n")

	var got []string
	fragments, err := consumeStream(strings.NewReader(body), func(f string) { got = append(got, f) })

	require.NoError(t, err)
	assert.Equal(t, []string{"Hi", " there"}, got)
	assert.Equal(t, 2, fragments)
}

func TestConsumeStream_RawPayloadKeepsGoing(t *testing.T) {
	body := strings.Join([]string{
		"data: not-json",
		`data: {"choices":[{"delta":{"content":"still here"}}]}`,
		"data: [DONE]",
	}, "\n")

	var got []string
	fragments, err := consumeStream(strings.NewReader(body), func(f string) { got = append(got, f) })

	require.NoError(t, err)
	assert.Equal(t, []string{"not-json", "still here"}, got)
	assert.Equal(t, 2, fragments)
}

func TestConsumeStream_EOFWithoutDone(t *testing.T) {
	body := `data: {"choices":[{"delta":{"content":"partial"}}]}` + "\n"

	var got []string
	fragments, err := consumeStream(strings.NewReader(body), func(f string) { got = append(got, f) })

	require.NoError(t, err)
	assert.Equal(t, []string{"partial"}, got)
	assert.Equal(t, 1, fragments)
}
