package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"table", "json", "yaml"} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, Format(name), f)
	}

	_, err := ParseFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestWriteObject(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		buf := &bytes.Buffer{}
		require.NoError(t, WriteObject(buf, FormatJSON, map[string]int{"fragments": 7}))

		var got map[string]int
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, 7, got["fragments"])
	})

	t.Run("yaml", func(t *testing.T) {
		buf := &bytes.Buffer{}
		require.NoError(t, WriteObject(buf, FormatYAML, map[string]string{"model": "gpt-4o"}))

		var got map[string]string
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "gpt-4o", got["model"])
	})

	t.Run("table has no generic rendering", func(t *testing.T) {
		err := WriteObject(&bytes.Buffer{}, FormatTable, struct{}{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no generic table rendering")
	})

	t.Run("unknown format", func(t *testing.T) {
		err := WriteObject(&bytes.Buffer{}, Format("xml"), struct{}{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown output format")
	})

	t.Run("marshal failure", func(t *testing.T) {
		// Channels cannot be marshalled to JSON.
		err := WriteObject(&bytes.Buffer{}, FormatJSON, make(chan int))
		require.Error(t, err)
	})
}
