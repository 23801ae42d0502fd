package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestLoggerStampsServiceName(t *testing.T) {
	var buf bytes.Buffer
	log := newJSONLogger(&buf, "docflow-api", "info")

	log.Info("document processed", "doc_id", "doc-1")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal log record: %v", err)
	}
	if record["service"] != "docflow-api" {
		t.Fatalf("service = %v", record["service"])
	}
	if record["doc_id"] != "doc-1" {
		t.Fatalf("doc_id = %v", record["doc_id"])
	}
}

func TestLoggerDefaultsServiceName(t *testing.T) {
	var buf bytes.Buffer
	log := newJSONLogger(&buf, "  ", "info")

	log.Info("hello")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal log record: %v", err)
	}
	if record["service"] != "docflow" {
		t.Fatalf("service = %v", record["service"])
	}
}

func TestLoggerSuppressesBelowConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	log := newJSONLogger(&buf, "docflow-api", "warn")

	log.Info("too quiet to pass")
	if buf.Len() != 0 {
		t.Fatalf("info record should be suppressed at warn level: %s", buf.String())
	}

	log.Warn("loud enough")
	if buf.Len() == 0 {
		t.Fatalf("warn record should be emitted")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
