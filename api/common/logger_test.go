package common

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lni/dragonboat/v4/logger"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]logger.LogLevel{
		"debug":   logger.DEBUG,
		"INFO":    logger.INFO,
		"warn":    logger.WARNING,
		"warning": logger.WARNING,
		"error":   logger.ERROR,
	}
	for in, want := range cases {
		got, err := ParseLogLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLogLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLogLevel("verbose"); err == nil {
		t.Error("Expected an error for an unknown level")
	}
	if err := InitLoggers("verbose"); err == nil {
		t.Error("Expected InitLoggers to reject an unknown level")
	}
}

func TestLoggerFactoryFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerFactory(&buf)("server")

	l.Debugf("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("Expected debug to be filtered at info level, got %q", buf.String())
	}

	l.Infof("listening on %s", "127.0.0.1:8080")
	out := buf.String()
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "server") || !strings.Contains(out, "listening on 127.0.0.1:8080") {
		t.Errorf("Unexpected log line %q", out)
	}

	buf.Reset()
	l.SetLevel(logger.ERROR)
	l.Warningf("dropped")
	l.Errorf("kept")
	if out := buf.String(); strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Errorf("Level filter not applied: %q", out)
	}
}
