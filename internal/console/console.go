package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

// Console is the transcript the user reads. Warnings and errors also fire the
// error hook, which the session uses to drop any scripted input still queued.
type Console struct {
	out     io.Writer
	log     zerolog.Logger
	onError func()

	boxStyle     lipgloss.Style
	specialStyle lipgloss.Style
	successStyle lipgloss.Style
	warningStyle lipgloss.Style
	errorStyle   lipgloss.Style
	echoStyle    lipgloss.Style
}

func New(out io.Writer, log zerolog.Logger) *Console {
	r := lipgloss.NewRenderer(out)
	return &Console{
		out:          out,
		log:          log,
		boxStyle:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Border(lipgloss.DoubleBorder()).Padding(0, 2),
		specialStyle: r.NewStyle().Foreground(lipgloss.Color("81")),
		successStyle: r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		warningStyle: r.NewStyle().Foreground(lipgloss.Color("214")),
		errorStyle:   r.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		echoStyle:    r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

func (c *Console) SetErrorHook(fn func()) {
	c.onError = fn
}

func (c *Console) Line(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) Linef(format string, args ...any) {
	c.Line(fmt.Sprintf(format, args...))
}

// Special prints highlighted, non-error information such as batch-only options.
func (c *Console) Special(s string) {
	fmt.Fprintln(c.out, c.specialStyle.Render(s))
}

func (c *Console) Success(s string) {
	fmt.Fprintln(c.out, c.successStyle.Render(s))
	c.log.Info().Msg(s)
}

func (c *Console) Warning(s string) {
	fmt.Fprintln(c.out, c.warningStyle.Render(s))
	c.log.Warn().Msg(s)
	c.fireErrorHook()
}

func (c *Console) Error(s string) {
	fmt.Fprintln(c.out, c.errorStyle.Render(s))
	c.log.Error().Msg(s)
	c.fireErrorHook()
}

// Echo writes a line that was consumed from a script so the transcript shows it.
func (c *Console) Echo(line string) {
	fmt.Fprintln(c.out, c.echoStyle.Render("> "+line))
	c.log.Debug().Str("line", line).Msg("queued input")
}

func (c *Console) Box(title string) {
	fmt.Fprintln(c.out, c.boxStyle.Render(title))
}

// ListEntry prints one row of an options listing; required rows get a '*'.
func (c *Console) ListEntry(cmd, desc string, indent int, required bool) {
	s := ""
	if required {
		s = "*"
	}
	s = padRight(s, (indent+1)*4)
	s += cmd
	s = padRight(s, 24)
	s += desc
	c.Line(s)
}

func (c *Console) fireErrorHook() {
	if c.onError != nil {
		c.onError()
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
