package command

import (
	"errors"
	"testing"

	"heightmap-converter/internal/job"
)

func noop(*Env, []string) error { return nil }

func TestRegisterAndLookupByContext(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Command{Spec: Spec{Name: "Info", Description: "show info"}, Run: noop}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(Command{Spec: Spec{Name: "help", Context: ContextAny}, Run: noop}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(Command{Spec: Spec{Name: "history", Context: ContextBeforeImport}, Run: noop}); err != nil {
		t.Fatal(err)
	}

	if _, ok := r.Lookup("INFO", ContextAfterImport); !ok {
		t.Fatal("expected case-insensitive match for info")
	}
	if _, ok := r.Lookup("info", ContextBeforeImport); ok {
		t.Fatal("info defaults to after-import only")
	}
	if _, ok := r.Lookup("help", ContextBeforeImport); !ok {
		t.Fatal("help should be usable before import")
	}
	if _, ok := r.Lookup("history", ContextAfterImport); ok {
		t.Fatal("history is before-import only")
	}

	after := r.Commands(ContextAfterImport)
	if len(after) != 2 || after[0].Name != "info" || after[1].Name != "help" {
		t.Fatalf("after-import commands = %+v", after)
	}
}

func TestRegisterRejectsBadCommands(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Command{Spec: Spec{Name: "x"}}); !errors.Is(err, ErrInvalidCommand) {
		t.Fatalf("nil handler: %v", err)
	}
	if err := r.Register(Command{Spec: Spec{Name: "two words"}, Run: noop}); !errors.Is(err, ErrInvalidCommand) {
		t.Fatalf("bad name: %v", err)
	}
	if err := r.Register(Command{Spec: Spec{Name: "x"}, Run: noop}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(Command{Spec: Spec{Name: "X"}, Run: noop}); !errors.Is(err, ErrDuplicateCommand) {
		t.Fatalf("duplicate: %v", err)
	}
}

func TestRegisterModifier(t *testing.T) {
	r := NewRegistry()
	build := func(*Env, []string) (job.Modifier, error) { return nil, nil }
	if err := r.RegisterModifier(ModifierCommand{Spec: Spec{Name: "Scale", Args: "<factor>"}, Build: build}); err != nil {
		t.Fatal(err)
	}
	m, ok := r.LookupModifier("scale")
	if !ok {
		t.Fatal("expected modifier")
	}
	if m.Usage() != "scale <factor>" {
		t.Fatalf("usage = %q", m.Usage())
	}
	if err := r.RegisterModifier(ModifierCommand{Spec: Spec{Name: "scale"}, Build: build}); !errors.Is(err, ErrDuplicateCommand) {
		t.Fatalf("duplicate modifier: %v", err)
	}
	if _, ok := r.Lookup("scale", ContextAny); ok {
		t.Fatal("modifiers must not resolve as plain commands")
	}
}

func TestSuggest(t *testing.T) {
	names := []string{"export", "abort", "format", "equalizeheightmaps"}
	cases := map[string]string{
		"exprt":    "export",
		"equalize": "equalizeheightmaps",
		"formatt":  "format",
		"zzz":      "",
	}
	for in, want := range cases {
		if got := Suggest(in, names); got != want {
			t.Fatalf("Suggest(%q) = %q, want %q", in, got, want)
		}
	}
}
