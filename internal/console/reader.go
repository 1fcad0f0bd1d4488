package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

var ErrInterrupted = errors.New("input interrupted")

// LineReader supplies one line of interactive input at a time.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// NewLineReader picks the terminal editor when in is a TTY and a plain stream
// reader for pipes and redirected files.
func NewLineReader(in *os.File, out io.Writer) LineReader {
	if term.IsTerminal(int(in.Fd())) {
		return NewTerminalReader(in, out)
	}
	return NewStreamReader(in, out)
}

type StreamReader struct {
	r   *bufio.Reader
	out io.Writer
}

func NewStreamReader(in io.Reader, out io.Writer) *StreamReader {
	return &StreamReader{r: bufio.NewReader(in), out: out}
}

func (s *StreamReader) ReadLine(prompt string) (string, error) {
	if prompt != "" && s.out != nil {
		fmt.Fprint(s.out, prompt)
	}
	line, err := s.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// TerminalReader runs a one-line bubbletea editor per call and keeps an
// in-memory history for the up/down keys.
type TerminalReader struct {
	in      *os.File
	out     io.Writer
	history []string
}

func NewTerminalReader(in *os.File, out io.Writer) *TerminalReader {
	return &TerminalReader{in: in, out: out}
}

func (t *TerminalReader) ReadLine(prompt string) (string, error) {
	p := tea.NewProgram(newPromptModel(prompt, t.history), tea.WithInput(t.in), tea.WithOutput(t.out))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	pm, ok := final.(promptModel)
	if !ok {
		return "", fmt.Errorf("unexpected prompt model %T", final)
	}
	if pm.cancelled {
		return "", ErrInterrupted
	}
	if strings.TrimSpace(pm.value) != "" {
		t.history = append(t.history, pm.value)
	}
	return pm.value, nil
}
