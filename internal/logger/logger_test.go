package logger

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestOutputFallsBackToStdout(t *testing.T) {
	for _, name := range []string{"", "stdout"} {
		if out := output(Config{Output: name}); out == nil {
			t.Errorf("Expected writer for output %q", name)
		}
	}
}

func TestOutputCreatesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	out := output(Config{Output: path})
	if _, ok := out.(zerolog.ConsoleWriter); ok {
		t.Fatal("Expected a plain file writer when Pretty is false")
	}

	l := zerolog.New(out)
	l.Info().Msg("hello")
}

func TestComponentAddsField(t *testing.T) {
	l := Component("ingest")
	if l.GetLevel() > zerolog.PanicLevel {
		t.Errorf("Unexpected level %v", l.GetLevel())
	}
}
