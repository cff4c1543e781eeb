package logrus

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/unkn0wn-root/geocache"
)

func TestLogrusLogger(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.InfoLevel)
	l := New(base)

	l.Debug("dropped", nil)
	l.Info("cleared all entries", geocache.Fields{"cache": "geocoding", "removed": 3})
	l.Error("error loading value", geocache.Fields{"err": errors.New("boom")})

	if n := len(hook.Entries); n != 2 {
		t.Fatalf("entries=%d want 2", n)
	}
	first := hook.Entries[0]
	if first.Message != "cleared all entries" || first.Data["removed"] != 3 || first.Data["cache"] != "geocoding" {
		t.Fatalf("first entry: %+v", first)
	}
	last := hook.LastEntry()
	if last.Level != logrus.ErrorLevel {
		t.Fatalf("level=%v", last.Level)
	}
	if err, ok := last.Data[logrus.ErrorKey].(error); !ok || err.Error() != "boom" {
		t.Fatalf("error key: %v", last.Data)
	}
}

func TestLogrusDebugEnabled(t *testing.T) {
	base, _ := test.NewNullLogger()
	base.SetLevel(logrus.InfoLevel)
	l := New(base)
	if l.DebugEnabled() {
		t.Fatalf("info level should report debug disabled")
	}
	base.SetLevel(logrus.DebugLevel)
	if !l.DebugEnabled() {
		t.Fatalf("level changes should be visible")
	}
}
