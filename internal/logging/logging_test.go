package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestSetupWriter(t *testing.T) {
	prevLevel, prevLogger := zerolog.GlobalLevel(), log.Logger
	defer func() {
		zerolog.SetGlobalLevel(prevLevel)
		log.Logger = prevLogger
	}()

	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{level: "debug", expected: zerolog.DebugLevel},
		{level: "warn", expected: zerolog.WarnLevel},
		{level: "", expected: zerolog.InfoLevel},
		{level: "loud", expected: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			SetupWriter(tt.level, &buf)

			assert.Equal(t, tt.expected, zerolog.GlobalLevel())

			log.Info().Int("npoints", 3).Msg("loaded")
			if tt.expected <= zerolog.InfoLevel {
				assert.Contains(t, buf.String(), `"npoints":3`)
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}
