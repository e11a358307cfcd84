package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestComponentAttribute(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{
		Component: ComponentWorker,
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	l.Info("exporting", FieldTxID, "tx-1")

	out := buf.String()
	if !strings.Contains(out, "component=worker") {
		t.Errorf("missing component attribute: %s", out)
	}
	if !strings.Contains(out, "transaction_id=tx-1") {
		t.Errorf("missing field: %s", out)
	}
}

func TestWithComponent(t *testing.T) {
	l := New(DefaultConfig())
	h := l.WithComponent(ComponentHTTP)
	if h.Component() != ComponentHTTP {
		t.Errorf("Component() = %q", h.Component())
	}
	if l.Component() != ComponentApp {
		t.Errorf("original logger mutated: %q", l.Component())
	}
}
