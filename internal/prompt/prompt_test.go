package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptInput(t *testing.T) {
	s := NewScript("alice", "", "third")

	got, err := s.Input("Name", "default")
	require.NoError(t, err)
	assert.Equal(t, "alice", got)

	// Empty scripted answer falls back to the default
	got, err = s.Input("Email", "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", got)

	got, err = s.Input("Other", "")
	require.NoError(t, err)
	assert.Equal(t, "third", got)

	_, err = s.Input("Exhausted", "")
	assert.ErrorIs(t, err, ErrScriptExhausted)
}

func TestScriptPassword(t *testing.T) {
	s := NewScript("hunter2")

	got, err := s.Password("Password")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)

	_, err = s.Password("Password")
	assert.ErrorIs(t, err, ErrScriptExhausted)
}

func TestScriptConfirm(t *testing.T) {
	tests := []struct {
		answer string
		def    bool
		want   bool
	}{
		{"y", false, true},
		{"yes", false, true},
		{"n", true, false},
		{"no", true, false},
		{"", true, true},
		{"", false, false},
		{"garbage", true, true},
	}

	for _, tt := range tests {
		s := NewScript(tt.answer)
		got, err := s.Confirm("Continue?", tt.def)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "answer=%q def=%v", tt.answer, tt.def)
	}
}
