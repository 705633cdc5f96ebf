package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"dropline/internal/logging"
)

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "json", Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("hidden")
	logger.Warn("episode document malformed, serving seed", "error", "unexpected EOF")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatal(err)
	}
	if rec["level"] != "WARN" || rec["error"] != "unexpected EOF" {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("episode created", "id", "ep-1")
	if out := buf.String(); !strings.Contains(out, "msg=\"episode created\"") || !strings.Contains(out, "id=ep-1") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatalf("expected error")
	}
}
