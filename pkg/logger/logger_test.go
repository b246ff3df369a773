package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" info ":  zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestInit_JSONWithServiceAndComponent(t *testing.T) {
	t.Cleanup(Reset)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var buf bytes.Buffer
	Init(Options{Level: "debug", Output: &buf})
	log := Component("session_registry")
	log.Info().Str("session_id", "s-1").Msg("session created")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "rashad", entry["service"])
	assert.Equal(t, "session_registry", entry["component"])
	assert.Equal(t, "s-1", entry["session_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	t.Cleanup(Reset)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var first, second bytes.Buffer
	Init(Options{Level: "warn", Output: &first, Service: "a"})
	Init(Options{Level: "debug", Output: &second, Service: "b"})

	log := Get()
	log.Info().Msg("dropped")
	log.Warn().Msg("kept")

	assert.Empty(t, second.String())
	assert.NotContains(t, first.String(), "dropped")
	assert.Contains(t, first.String(), `"service":"a"`)
}

func TestGet_PanicsBeforeInit(t *testing.T) {
	Reset()
	assert.Panics(t, func() { Get() })
}
