package display

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleTable(t *testing.T) {
	buf := &bytes.Buffer{}
	c := NewWriterConsole(buf)

	c.Table([]string{"NAME", "SIZE"}, [][]string{
		{"rustc", "1.0 KiB"},
		{"cargo-long-name", "2 B"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "NAME") || !strings.Contains(lines[0], "SIZE") {
		t.Errorf("expected header, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "---") {
		t.Errorf("expected separator, got %q", lines[1])
	}
	if lines[2] != "rustc            1.0 KiB" {
		t.Errorf("unexpected padded row %q", lines[2])
	}
	if lines[3] != "cargo-long-name  2 B" {
		t.Errorf("unexpected row %q", lines[3])
	}
}

func TestConsoleTableNoHeader(t *testing.T) {
	buf := &bytes.Buffer{}
	NewWriterConsole(buf).Table(nil, [][]string{{"x"}})
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
