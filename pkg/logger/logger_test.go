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
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""), "nivel vacío cae en info")
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"))
}

func TestNop_NoEscribe(t *testing.T) {
	l := Nop().Named("session")
	assert.Equal(t, zerolog.Disabled, l.Zerolog().GetLevel())
	l.Info().Msg("no debe fallar")
}

func TestNew_CampoServiceYComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Service: "supermercado", Output: &buf}).Named("auth")
	l.Debug().Msg("filtrado por nivel")
	l.Info().Int64("user_id", 3).Msg("inicio de sesión")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line), buf.String())
	assert.Equal(t, "supermercado", line["service"])
	assert.Equal(t, "auth", line["component"])
	assert.Equal(t, "inicio de sesión", line["message"])
	assert.EqualValues(t, 3, line["user_id"])
}

func TestNew_SinService(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Output: &buf}).Info().Msg("x")
	assert.NotContains(t, buf.String(), `"service"`)
}
