package cursor

import (
	"errors"
	"strings"
	"testing"
)

func TestSkipWhitespace(t *testing.T) {
	c := New(strings.NewReader("   \t\nabc"))
	c.SkipWhitespace()
	if got := c.Current(); got != 'a' {
		t.Fatalf("Current() = %q, want 'a'", got)
	}
}

func TestReadASCIIUntil(t *testing.T) {
	c := New(strings.NewReader("hello world"))
	got := c.ReadASCIIUntil(' ')
	if got != "hello" {
		t.Fatalf("ReadASCIIUntil(' ') = %q, want %q", got, "hello")
	}
	if c.Current() != ' ' {
		t.Fatalf("Current() = %q, want ' ' (delimiter not consumed)", c.Current())
	}
}

func TestReadIntDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want int32
	}{
		{"0", 0},
		{"42", 42},
		{"-17", -17},
		{"1234/", 1234},
	}
	for _, tc := range tests {
		c := New(strings.NewReader(tc.in))
		got, err := c.ReadIntDecimal()
		if err != nil {
			t.Errorf("ReadIntDecimal(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ReadIntDecimal(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestReadIntDecimalFormatFailure(t *testing.T) {
	c := New(strings.NewReader("abc"))
	_, err := c.ReadIntDecimal()
	if err == nil {
		t.Fatal("expected a FormatFailure, got nil")
	}
	var ff *FormatFailure
	if !errors.As(err, &ff) {
		t.Fatalf("err = %v, want *FormatFailure", err)
	}
}

func TestEndOfStream(t *testing.T) {
	c := New(strings.NewReader("x"))
	if c.EndOfStream() {
		t.Fatal("EndOfStream() = true before reading anything")
	}
	c.Advance()
	if !c.EndOfStream() {
		t.Fatal("EndOfStream() = false after consuming the only byte")
	}
	if c.Current() != 0 {
		t.Fatalf("Current() at end of stream = %q, want 0", c.Current())
	}
}

func TestMarkRestore(t *testing.T) {
	c := New(strings.NewReader("abcdef"))
	tok := c.Mark()
	got := c.ReadASCIIUntil('d')
	if got != "abc" {
		t.Fatalf("ReadASCIIUntil before restore = %q, want %q", got, "abc")
	}
	c.Restore(tok)
	// The whole sequence must replay identically.
	got2 := c.ReadASCIIUntil('d')
	if got2 != "abc" {
		t.Fatalf("ReadASCIIUntil after restore = %q, want %q", got2, "abc")
	}
	// And reading past the restored region continues from the real
	// source.
	rest := c.ReadASCIIUntil(0)
	if rest != "def" {
		t.Fatalf("ReadASCIIUntil(0) after restore+replay = %q, want %q", rest, "def")
	}
}

func TestPeek(t *testing.T) {
	c := New(strings.NewReader("xyz"))
	if got := c.Peek(0); got != 'x' {
		t.Fatalf("Peek(0) = %q, want 'x'", got)
	}
	if got := c.Peek(1); got != 'y' {
		t.Fatalf("Peek(1) = %q, want 'y'", got)
	}
	if got := c.Peek(10); got != 0 {
		t.Fatalf("Peek(10) = %q, want 0", got)
	}
	// Peek must not consume.
	if got := c.Current(); got != 'x' {
		t.Fatalf("Current() after Peek = %q, want 'x'", got)
	}
}
