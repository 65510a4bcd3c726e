package core

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		args     []any
		want     string
	}{
		{"plain", "hello", nil, "hello"},
		{"single", "hello {0}", []any{"world"}, "hello world"},
		{"reorder", "{1} {0}", []any{"a", "b"}, "b a"},
		{"repeat", "{0}{0}", []any{7}, "77"},
		{"right align", "[{0,5}]", []any{"ab"}, "[   ab]"},
		{"left align", "[{0,-5}]", []any{"ab"}, "[ab   ]"},
		{"align shorter than value", "[{0,2}]", []any{"abcd"}, "[abcd]"},
		{"verb", "{0:x}", []any{255}, "ff"},
		{"verb with precision", "{0:.2f}", []any{3.14159}, "3.14"},
		{"escapes", "{{literal}} {0}", []any{1}, "{literal} 1"},
		{"error value", "failed: {0}", []any{errors.New("boom")}, "failed: boom"},
		{"nil value", "{0}", []any{nil}, "<nil>"},
		{"bool and float", "{0} {1}", []any{true, 1.5}, "true 1.5"},
		{"extra args ignored", "{0}", []any{"a", "b"}, "a"},
		{"unicode align", "{0,4}|", []any{"äö"}, "  äö|"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.template, tt.args...)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}

func TestFormat_Malformed(t *testing.T) {
	tests := []struct {
		template string
		args     []any
		pos      int
	}{
		{"oops {0", []any{1}, 5},
		{"oops }", nil, 5},
		{"{1}", []any{1}, 0},
		{"a {x}", []any{1}, 2},
		{"{-1}", []any{1}, 0},
		{"{0,wide}", []any{1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			_, err := Format(tt.template, tt.args...)
			var terr *TemplateError
			if !errors.As(err, &terr) {
				t.Fatalf("Format(%q) error = %v, want *TemplateError", tt.template, err)
			}
			if terr.Pos != tt.pos {
				t.Errorf("TemplateError.Pos = %d, want %d", terr.Pos, tt.pos)
			}
		})
	}
}

func TestPad(t *testing.T) {
	if got := PadRight("ab", 4); got != "ab  " {
		t.Errorf("PadRight() = %q", got)
	}
	if got := PadLeft("ab", 4); got != "  ab" {
		t.Errorf("PadLeft() = %q", got)
	}
	if got := PadLeft("abcdef", 4); got != "abcdef" {
		t.Errorf("PadLeft() should not truncate, got %q", got)
	}
}

func BenchmarkFormat(b *testing.B) {
	b.ReportAllocs()
	buf := make([]byte, 0, 128)
	for i := 0; i < b.N; i++ {
		buf, _ = AppendFormat(buf[:0], "user {0} logged in from {1} after {2} tries", "alice", "10.0.0.1", 3)
	}
}
