package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONFields(t *testing.T) {
	var buf bytes.Buffer

	l, err := New(&buf, "debug", "json")
	require.NoError(t, err)

	l.With("request_id", "r1").Info("mapped", "keys", 3, "err", errors.New("boom"), "dangling")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "mapped", entry["message"])
	assert.Equal(t, "r1", entry["request_id"])
	assert.EqualValues(t, 3, entry["keys"])
	assert.Equal(t, "boom", entry["err"])
	assert.Contains(t, entry, "dangling")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer

	l, err := New(&buf, "warn", "json")
	require.NoError(t, err)

	l.Info("hidden")
	l.Debug("hidden")
	assert.Zero(t, buf.Len())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud", "json")
	require.Error(t, err)

	_, err = New(&bytes.Buffer{}, "info", "xml")
	require.Error(t, err)
}

func TestNew_EmptyLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer

	l, err := New(&buf, "", "")
	require.NoError(t, err)

	l.Debug("hidden")
	assert.Zero(t, buf.Len())

	l.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNop(t *testing.T) {
	var l Logger = Nop()
	l.Error("ignored", "k", "v")
}
