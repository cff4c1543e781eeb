package slog

import (
	"bytes"
	"encoding/json"
	stdslog "log/slog"
	"strings"
	"testing"

	"github.com/unkn0wn-root/geocache"
)

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	h := stdslog.NewJSONHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelInfo})
	l := New(stdslog.New(h))

	l.Debug("dropped", geocache.Fields{"k": 1})
	l.Warn("slow sweep", geocache.Fields{"cache": "geocoding", "removed": 2})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines=%d want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec["msg"] != "slow sweep" || rec["level"] != "WARN" || rec["cache"] != "geocoding" || rec["removed"] != float64(2) {
		t.Fatalf("record: %v", rec)
	}
	if !strings.Contains(lines[0], `"cache":"geocoding","removed":2`) {
		t.Fatalf("attrs not in key order: %s", lines[0])
	}
}

func TestSlogDebugEnabled(t *testing.T) {
	var lvl stdslog.LevelVar
	lvl.Set(stdslog.LevelInfo)
	l := New(stdslog.New(stdslog.NewJSONHandler(&bytes.Buffer{}, &stdslog.HandlerOptions{Level: &lvl})))
	if l.DebugEnabled() {
		t.Fatalf("info level should report debug disabled")
	}
	lvl.Set(stdslog.LevelDebug)
	if !l.DebugEnabled() {
		t.Fatalf("level changes should be visible")
	}
}
