package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log, err := New("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())

	log, err = New("debug")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, log.GetLevel())

	_, err = New("loud")
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("reconciled")
	assert.Contains(t, buf.String(), "reconciled")
}

func TestFromContext_Default(t *testing.T) {
	log := FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
}

func TestWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithFields(NewWithWriter(buf), map[string]any{
		"asset_id": "m1",
		"count":    2,
	})
	log.Info().Msg("updated")

	out := buf.String()
	assert.Contains(t, out, `"asset_id":"m1"`)
	assert.Contains(t, out, `"count":2`)
}

func TestNewConsole(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := NewConsole(buf, "warn")
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Str("asset_id", "m1").Msg("balance drifted")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "balance drifted")
	assert.Contains(t, buf.String(), "asset_id=")
}
