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
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestInit_FieldsAndSingleton(t *testing.T) {
	t.Cleanup(func() {
		Reset()
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})
	Reset()

	var buf bytes.Buffer
	Init(Options{Level: "info", Output: &buf, Service: "sitterhub-api"})

	// second Init is ignored
	var other bytes.Buffer
	Init(Options{Level: "debug", Output: &other})

	componentLog := Component("booking")
	componentLog.Info().Str("booking_id", "bk-1").Msg("booking created")
	processLog := Get()
	processLog.Debug().Msg("hidden")

	assert.Zero(t, other.Len())

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line), buf.String())
	assert.Equal(t, "sitterhub-api", line["service"])
	assert.Equal(t, "booking", line["component"])
	assert.Equal(t, "bk-1", line["booking_id"])
	assert.Equal(t, "booking created", line["message"])
}

func TestGet_BeforeInitPanics(t *testing.T) {
	Reset()
	assert.Panics(t, func() { Get() })
}
