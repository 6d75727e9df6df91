package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "debug", Out: &buf}).Component("audit")

	l.Warn().Str("action_type", "report_submitted").Msg("registro fallido")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "audit", entry["component"])
	assert.Equal(t, "report_submitted", entry["action_type"])
}

func TestNew_NivelFiltraEventos(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "error", Out: &buf})

	l.Info().Msg("no debe aparecer")
	assert.Empty(t, buf.String())
}

func TestParseLevel_Invalido(t *testing.T) {
	assert.Equal(t, "info", parseLevel("ruido").String())
	assert.Equal(t, "info", parseLevel("").String())
}
