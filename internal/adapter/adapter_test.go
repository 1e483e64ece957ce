package adapter

import (
	"context"
	"testing"

	"github.com/human83/meetingwatch/internal/meeting"
)

type fakeAdapter struct{ name string }

func (f fakeAdapter) Name() string { return f.name }

func (f fakeAdapter) Meetings(context.Context) ([]meeting.Record, error) { return nil, nil }

func TestRegisterAndAll(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := Register(fakeAdapter{name}); err != nil {
			t.Fatalf("Register(%q): %v", name, err)
		}
	}
	all := All()
	if len(all) != 3 {
		t.Fatalf("expected 3 adapters, got %d", len(all))
	}
	want := []string{"alpha", "mid", "zeta"}
	for i, a := range all {
		if a.Name() != want[i] {
			t.Fatalf("order: got %q at %d, want %q", a.Name(), i, want[i])
		}
	}
}

func TestRegisterDuplicate(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if err := Register(fakeAdapter{"x"}); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := Register(fakeAdapter{"x"}); err == nil {
		t.Fatal("duplicate Register must fail")
	}
}

func TestRegisterEmptyName(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if err := Register(fakeAdapter{""}); err == nil {
		t.Fatal("empty name must fail")
	}
}
