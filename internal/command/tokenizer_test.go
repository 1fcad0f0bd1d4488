package command

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		line string
		cmd  string
		args []string
	}{
		{`format "a b" c`, "format", []string{"a b", "c"}},
		{`format   a    b`, "format", []string{"a", "b"}},
		{`FORMAT asc`, "format", []string{"asc"}},
		{`export`, "export", []string{}},
		{`  export  `, "export", []string{}},
		{`define x ""`, "define", []string{"x", ""}},
		{`exec "my scripts/run.txt"`, "exec", []string{"my scripts/run.txt"}},
		{`mod scale "2`, "mod", []string{"scale", `"2`}},
		{`mod offset "1 2" "3`, "mod", []string{"offset", "1 2", `"3`}},
		{`definep name "Enter a name:"`, "definep", []string{"name", "Enter a name:"}},
	}
	for _, tc := range cases {
		cmd, args := Tokenize(tc.line)
		if cmd != tc.cmd {
			t.Fatalf("Tokenize(%q) cmd = %q, want %q", tc.line, cmd, tc.cmd)
		}
		if !reflect.DeepEqual(args, tc.args) {
			t.Fatalf("Tokenize(%q) args = %q, want %q", tc.line, args, tc.args)
		}
	}
}

func TestTokenizeEmpty(t *testing.T) {
	cmd, args := Tokenize("   ")
	if cmd != "" || len(args) != 0 {
		t.Fatalf("got %q %q", cmd, args)
	}
}

func TestTokenizeKeepsArgumentCase(t *testing.T) {
	_, args := Tokenize(`Define Name "Mixed Case"`)
	if !reflect.DeepEqual(args, []string{"Name", "Mixed Case"}) {
		t.Fatalf("args = %q", args)
	}
}
