package logger

import (
	"bytes"
	"testing"

	"github.com/buger/jsonparser"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "warn")
	t.Cleanup(func() { Log = zerolog.Nop() })

	Log.Info().Msg("hidden")
	assert.Zero(t, buf.Len(), "Info should be filtered at warn level")

	Log.Warn().Str("path", "/dashboard").Msg("redirected")
	line := buf.Bytes()

	app, err := jsonparser.GetString(line, "app")
	require.NoError(t, err)
	assert.Equal(t, "songdash", app)
	msg, _ := jsonparser.GetString(line, "message")
	assert.Equal(t, "redirected", msg)
	path, _ := jsonparser.GetString(line, "path")
	assert.Equal(t, "/dashboard", path)
}

func TestSetOutput_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf, "chatty")
	t.Cleanup(func() { Log = zerolog.Nop() })

	Log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
	Log.Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}
