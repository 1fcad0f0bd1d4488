package script

import (
	"regexp"
	"sort"
)

var reVarRef = regexp.MustCompile(`\$\{([A-Za-z0-9_.\-]+)\}`)

// Variables maps names to values for ${name} substitution.
type Variables struct {
	values map[string]string
}

func NewVariables() *Variables {
	return &Variables{values: make(map[string]string)}
}

// Define stores value under name, replacing any previous value.
func (v *Variables) Define(name, value string) {
	v.values[name] = value
}

func (v *Variables) Get(name string) (string, bool) {
	val, ok := v.values[name]
	return val, ok
}

func (v *Variables) Len() int {
	return len(v.values)
}

func (v *Variables) Names() []string {
	out := make([]string, 0, len(v.values))
	for k := range v.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Substitute replaces every ${name} reference with its value. Unknown references
// are left untouched.
func (v *Variables) Substitute(line string) string {
	if len(v.values) == 0 {
		return line
	}
	return reVarRef.ReplaceAllStringFunc(line, func(ref string) string {
		name := reVarRef.FindStringSubmatch(ref)[1]
		if val, ok := v.values[name]; ok {
			return val
		}
		return ref
	})
}
