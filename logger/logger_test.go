package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"unknown", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			NewTo(&bytes.Buffer{}, Config{Level: tt.level})
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func TestNewTo(t *testing.T) {
	var buf bytes.Buffer
	log := NewTo(&buf, Config{Level: "info"})
	log.Info().Str("ticker", "ABC").Msg("priced")
	log.Debug().Msg("hidden")

	assert.Contains(t, buf.String(), `"ticker":"ABC"`)
	assert.Contains(t, buf.String(), `"message":"priced"`)
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewPretty(t *testing.T) {
	var buf bytes.Buffer
	log := NewTo(&buf, Config{Level: "info", Pretty: true})
	log.Info().Msg("snapshot computed")
	assert.Contains(t, buf.String(), "snapshot computed")
	assert.NotContains(t, buf.String(), `"message"`)
}
