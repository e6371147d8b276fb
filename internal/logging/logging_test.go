package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/felixgeelhaar/bolt/v3"
)

func TestParseLevel(t *testing.T) {
	for _, tc := range []struct {
		input    string
		expected bolt.Level
	}{
		{"trace", bolt.TRACE},
		{"debug", bolt.DEBUG},
		{"info", bolt.INFO},
		{"warn", bolt.WARN},
		{"error", bolt.ERROR},
		{"", bolt.INFO},
		{"verbose", bolt.INFO},
	} {
		t.Run(tc.input, func(t *testing.T) {
			if got := parseLevel(tc.input); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestFieldsAreWritten(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Config{Level: "debug", Format: "json", Output: buf})
	With(log.Info(),
		ChartKind("pie"),
		Size(640, 480),
		Index(3),
		Value(2.5),
		Path("charts/pie.yaml"),
		ErrorField(errors.New("boom")),
	).Msg("hello")

	out := buf.String()
	for _, want := range []string{`"chart":"pie"`, `"width":640`, `"height":480`, `"index":3`, `"value":"2.5"`, `"path":"charts/pie.yaml"`, "boom", "hello"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %s, got: %s", want, out)
		}
	}
}

func TestLevelFilters(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Config{Level: "warn", Format: "json", Output: buf})
	log.Debug().Msg("hidden")
	log.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected nothing below warn to be logged, got: %s", buf.String())
	}
	log.Warn().Msg("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn message, got: %s", buf.String())
	}
}

func TestGetInitializesOnce(t *testing.T) {
	a := Get()
	b := Get()
	if a != b {
		t.Errorf("expected the same default logger on repeated calls")
	}
	buf := &bytes.Buffer{}
	Init(Config{Level: "info", Format: "json", Output: buf})
	Get().Info().Msg("replaced")
	if !strings.Contains(buf.String(), "replaced") {
		t.Errorf("expected Init to replace the default logger, got: %s", buf.String())
	}
	Init(DefaultConfig())
}
