package command

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest returns the closest known name to an unknown input, or "" when
// nothing is close enough.
func Suggest(input string, candidates []string) string {
	if input == "" || len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(input, candidates)
	if len(ranks) == 0 {
		// typos rarely keep every letter in order; retry the other way round
		for _, c := range candidates {
			if len(c) >= 3 && fuzzy.MatchFold(c, input) {
				return c
			}
		}
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

// Names lists the plain command names usable in ctx followed by the extra names.
func (r *Registry) Names(ctx Context, extra ...string) []string {
	out := make([]string, 0, len(r.commands)+len(extra))
	for _, c := range r.Commands(ctx) {
		out = append(out, c.Name)
	}
	return append(out, extra...)
}

func (r *Registry) ModifierNames() []string {
	out := make([]string, 0, len(r.modifiers))
	for _, m := range r.modifiers {
		out = append(out, m.Name)
	}
	return out
}
