package normalize

import (
	"reflect"
	"testing"
)

func TestCollapseSpace(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"   \t\n  ", ""},
		{"a  b", "a b"},
		{"  City \n Council\tMeeting ", "City Council Meeting"},
		{"one\r\ntwo", "one two"},
	}
	for _, c := range cases {
		if got := CollapseSpace(c.in); got != c.want {
			t.Errorf("CollapseSpace(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCleanLines(t *testing.T) {
	in := "• First item\n\n  - Second   item \r\n\t\nThird"
	want := []string{"First item", "Second item", "Third"}
	if got := CleanLines(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("CleanLines = %v, want %v", got, want)
	}
}

func TestFoldKey(t *testing.T) {
	if FoldKey("  Budget  HEARING ") != FoldKey("budget hearing") {
		t.Fatal("expected case- and space-insensitive keys to match")
	}
	if FoldKey("budget hearing") == FoldKey("budget meeting") {
		t.Fatal("distinct strings must not collide")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Fatalf("short string should be untouched, got %q", got)
	}
	got := Truncate("héllo world", 6)
	if len(got) > 6 {
		t.Fatalf("truncated to %d bytes, want <= 6", len(got))
	}
	for _, r := range got {
		if r == '�' {
			t.Fatal("truncation split a rune")
		}
	}
}
