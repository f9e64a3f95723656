package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestInit_Level(t *testing.T) {
	tests := []struct {
		name  string
		level string
		debug bool
	}{
		{name: "debug habilitado", level: "debug", debug: true},
		{name: "info por defecto", level: "info", debug: false},
		{name: "nivel desconocido", level: "verbose", debug: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.level)
			assert.Equal(t, tt.debug, Logger().Core().Enabled(zapcore.DebugLevel))
			assert.NotNil(t, Sugar())
		})
	}
}
