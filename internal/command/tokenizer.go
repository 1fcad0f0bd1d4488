package command

import "strings"

// Tokenize splits an input line into a lower-cased command name and its
// arguments. A double-quoted run is one argument with the quotes removed; a
// quote without a closing partner is kept as a literal character.
func Tokenize(line string) (string, []string) {
	s := strings.TrimSpace(line)
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	if s == "" {
		return "", nil
	}

	cmd, rest, _ := strings.Cut(s, " ")
	return strings.ToLower(cmd), SplitArgs(rest)
}

// SplitArgs tokenizes an argument string on spaces, honouring double quotes.
func SplitArgs(s string) []string {
	args := []string{}
	i := 0
	for i < len(s) {
		if s[i] == ' ' || s[i] == '\t' {
			i++
			continue
		}
		if s[i] == '"' {
			if end := strings.IndexByte(s[i+1:], '"'); end >= 0 {
				args = append(args, s[i+1:i+1+end])
				i += end + 2
				continue
			}
		}
		start := i
		for i < len(s) && s[i] != ' ' && s[i] != '\t' {
			i++
		}
		args = append(args, s[start:i])
	}
	return args
}
