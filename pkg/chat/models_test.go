package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Resolve(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		name string
		id   string
		want string
	}{
		{name: "base model", id: "github-copilot", want: "gpt-4o"},
		{name: "prefixed model", id: "github-copilot/claude-3-7-sonnet-thought", want: "claude-3-7-sonnet-thought"},
		{name: "other prefix with known suffix", id: "copilot/claude-3-7-sonnet-thought", want: "claude-3-7-sonnet-thought"},
		{name: "prefixed unknown suffix", id: "github-copilot/gpt-99", want: DefaultAPIModel},
		{name: "unknown model", id: "some-other-model", want: DefaultAPIModel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, reg.Resolve(tc.id))
		})
	}
}

func TestRegistry_Register(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	require.NoError(t, reg.Register(Model{ID: "github-copilot/o1", APIModel: "o1"}))
	assert.Equal(t, "o1", reg.Resolve("github-copilot/o1"))

	assert.Error(t, reg.Register(Model{APIModel: "o1"}))
	assert.Error(t, reg.Register(Model{ID: "github-copilot/o1"}))
}

func TestRegistry_Lookup(t *testing.T) {
	reg := DefaultRegistry()

	m, ok := reg.Lookup("github-copilot")
	require.True(t, ok)
	assert.Equal(t, "gpt-4o", m.APIModel)

	_, ok = reg.Lookup("nope")
	assert.False(t, ok)
}

func TestRegistry_ModelsSorted(t *testing.T) {
	reg, err := NewRegistry(
		Model{ID: "zeta", APIModel: "z"},
		Model{ID: "alpha", APIModel: "a"},
		Model{ID: "mid", APIModel: "m"},
	)
	require.NoError(t, err)

	models := reg.Models()
	require.Len(t, models, 3)
	assert.Equal(t, "alpha", models[0].ID)
	assert.Equal(t, "mid", models[1].ID)
	assert.Equal(t, "zeta", models[2].ID)
}

func TestNewRegistry_PropagatesRegisterError(t *testing.T) {
	_, err := NewRegistry(Model{ID: ""})
	assert.Error(t, err)
}
