package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func promptConfirm(in *os.File, out io.Writer, prompt string) (bool, error) {
	if !stdinIsTTY(in) {
		return false, errors.New("confirmation required (rerun with --force in non-interactive mode)")
	}
	fmt.Fprint(out, prompt)
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func stdinIsTTY(in *os.File) bool {
	if in == nil {
		return false
	}
	return term.IsTerminal(int(in.Fd()))
}

// reportFatal prints an unrecoverable failure in full and, on a terminal,
// waits for Enter so the message stays readable before the process exits.
func reportFatal(cause any, in *os.File, stderr io.Writer, log zerolog.Logger) error {
	stack := debug.Stack()
	log.Error().Interface("cause", cause).Bytes("stack", stack).Msg("fatal error")

	fmt.Fprintln(stderr, "A FATAL ERROR OCCURRED, THE APPLICATION WILL BE TERMINATED:")
	fmt.Fprintln(stderr, cause)
	if _, isErr := cause.(error); !isErr {
		fmt.Fprintln(stderr, string(stack))
	}
	if stdinIsTTY(in) {
		fmt.Fprintln(stderr, "Press Enter to exit")
		_, _ = bufio.NewReader(in).ReadString('\n')
	}
	return &FatalError{Cause: cause}
}
