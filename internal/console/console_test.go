package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestWarningAndErrorFireHook(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, zerolog.Nop())
	fired := 0
	c.SetErrorHook(func() { fired++ })

	c.Line("plain")
	c.Success("ok")
	c.Special("note")
	c.Echo("format asc")
	if fired != 0 {
		t.Fatalf("hook fired %d times for non-error output", fired)
	}

	c.Warning("careful")
	c.Error("broken")
	if fired != 2 {
		t.Fatalf("hook fired %d times, want 2", fired)
	}

	out := buf.String()
	for _, want := range []string{"plain", "ok", "note", "> format asc", "careful", "broken"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestListEntryColumns(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, zerolog.Nop())
	c.ListEntry("format N..", "Export to the specified format(s)", 0, true)
	c.ListEntry("asc", "ESRI ASCII grid", 1, false)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "*   format N..          Export to the specified format(s)" {
		t.Fatalf("unexpected required row %q", lines[0])
	}
	if lines[1] != "        asc             ESRI ASCII grid" {
		t.Fatalf("unexpected nested row %q", lines[1])
	}
}
