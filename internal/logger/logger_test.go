package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Setenv("GIN_MODE", "release")

	tests := []struct {
		name      string
		level     string
		wantLevel logrus.Level
		wantWarn  bool
	}{
		{name: "debug", level: "debug", wantLevel: logrus.DebugLevel},
		{name: "error", level: "error", wantLevel: logrus.ErrorLevel},
		{name: "blank", level: "", wantLevel: logrus.InfoLevel},
		{name: "unknown", level: "loud", wantLevel: logrus.InfoLevel, wantWarn: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&buf, tt.level)

			assert.Equal(t, tt.wantLevel, l.GetLevel())
			assert.IsType(t, new(logrus.JSONFormatter), l.Formatter)
			if tt.wantWarn {
				assert.Contains(t, buf.String(), "unknown log level")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}
