package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected exactly one JSON entry, got %q: %v", buf.String(), err)
	}
	return entry
}

func uninstall(t *testing.T) {
	t.Helper()
	process.Store(nil)
	t.Cleanup(func() { process.Store(nil) })
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		" DEBUG ": zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
		"panic":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestNew_DoesNotInstall(t *testing.T) {
	uninstall(t)

	var buf bytes.Buffer
	log := New(Options{Level: "debug", Output: &buf, Service: "portal", Caller: true})
	log.Debug().Msg("hello")

	entry := decode(t, &buf)
	if entry["service"] != "portal" || entry["caller"] == nil {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if process.Load() != nil {
		t.Fatal("New must not install the process logger")
	}
}

func TestInit_FirstCallWins(t *testing.T) {
	uninstall(t)

	var first, second bytes.Buffer
	Init(Options{Level: "warn", Output: &first, Service: "api"})
	got := Init(Options{Level: "debug", Output: &second})

	got.Info().Msg("dropped")
	proc := Get()
	proc.Warn().Msg("kept")

	if second.Len() != 0 {
		t.Fatalf("second Init must not take effect, got %q", second.String())
	}
	entry := decode(t, &first)
	if entry["message"] != "kept" || entry["service"] != "api" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestComponent_TagsEntries(t *testing.T) {
	uninstall(t)

	var buf bytes.Buffer
	Init(Options{Output: &buf})
	log := Component("session")
	log.Info().Msg("hello")

	if entry := decode(t, &buf); entry["component"] != "session" {
		t.Fatalf("expected component field, got %+v", entry)
	}
}

func TestGet_DisabledBeforeInit(t *testing.T) {
	uninstall(t)

	if lvl := Get().GetLevel(); lvl != zerolog.Disabled {
		t.Fatalf("expected a disabled logger, got level %s", lvl)
	}
}
