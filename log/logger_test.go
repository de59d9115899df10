package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	type spec struct {
		in     string
		exp    Level
		expErr bool
	}
	specs := []spec{
		{"debug", Debug, false},
		{" INFO ", Info, false},
		{"notice", Notice, false},
		{"Warning", Warning, false},
		{"error", Error, false},
		{"chatty", Notice, true},
	}

	for index, s := range specs {
		level, err := ParseLevel(s.in)
		if s.expErr {
			if err == nil {
				t.Fatalf("[spec %d] expected an error parsing %q", index, s.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", index, err)
		}
		if level != s.exp {
			t.Fatalf("[spec %d] expected level %s; got %s", index, s.exp, level)
		}
	}
}

func TestSinkAndLevel(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	SetLevel(Warning)
	defer func() {
		SetLevel(Notice)
		SetSink(os.Stdout)
	}()

	logger := New("logtest")
	logger.Notice("suppressed")
	logger.Warningf("visible %d", 42)

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Fatalf("expected notice message to be filtered out; got %q", out)
	}
	if !strings.Contains(out, "visible 42") || !strings.Contains(out, "[logtest]") {
		t.Fatalf("expected warning message tagged with module name; got %q", out)
	}
}
