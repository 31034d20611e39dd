package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewReadsLogLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	tests := []struct {
		value string
		want  zerolog.Level
	}{
		{"warn", zerolog.WarnLevel},
		{"debug", zerolog.DebugLevel},
		{"", zerolog.InfoLevel},
		{"shouting", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.value)
			New()
			if got := zerolog.GlobalLevel(); got != tt.want {
				t.Errorf("global level = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSetLevelFilters(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	l := zerolog.New(&buf)

	SetLevel(zerolog.WarnLevel)
	l.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info written at warn level: %s", buf.String())
	}
	l.Warn().Msg("kept")
	if buf.Len() == 0 {
		t.Fatal("warn not written at warn level")
	}
}
