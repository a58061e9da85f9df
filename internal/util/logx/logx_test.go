package logx

import (
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	SetLevel(Warn)
	defer SetLevel(Info)
	Infof("hidden %d", 1)
	Warnf("persistence write failed: %s", "quota")
	lines := Lines()
	if len(lines) == 0 {
		t.Fatalf("expected buffered lines")
	}
	last := lines[len(lines)-1]
	if !strings.Contains(last, "WARN") || !strings.Contains(last, "quota") {
		t.Fatalf("unexpected last line: %q", last)
	}
	for _, l := range lines {
		if strings.Contains(l, "hidden 1") {
			t.Fatalf("info line should have been filtered: %q", l)
		}
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": Debug, " INFO ": Info, "warning": Warn, "error": Error}
	for in, want := range cases {
		got, ok := ParseLevel(in)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v,%v want %v", in, got, ok, want)
		}
	}
	if _, ok := ParseLevel("loud"); ok {
		t.Fatalf("expected unknown level to be rejected")
	}
}
