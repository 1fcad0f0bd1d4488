package modules

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"heightmap-converter/internal/command"
	"heightmap-converter/internal/history"
	"heightmap-converter/internal/job"
)

// HistoryReader is the part of the history store the history command needs.
type HistoryReader interface {
	Recent(limit int) ([]history.JobRecord, error)
}

// Deps are the collaborators the built-in commands report on. History may be nil.
type Deps struct {
	Exporter job.Exporter
	History  HistoryReader
	Registry *command.Registry
}

// statser is implemented by data types that can summarise their values.
type statser interface {
	Stats() (job.DataInfo, bool)
}

// RegisterCore adds the built-in plain commands.
func RegisterCore(reg *command.Registry, deps Deps) error {
	if deps.Registry == nil {
		deps.Registry = reg
	}
	cmds := []command.Command{
		{
			Spec: command.Spec{Name: "help", Description: "List available commands", Context: command.ContextAny},
			Run:  deps.help,
		},
		{
			Spec: command.Spec{Name: "formats", Description: "List supported export formats", Context: command.ContextAny},
			Run:  deps.formats,
		},
		{
			Spec: command.Spec{Name: "info", Description: "Show the current job and file"},
			Run:  info,
		},
		{
			Spec: command.Spec{Name: "vars", Description: "List defined variables"},
			Run:  vars,
		},
		{
			Spec: command.Spec{Name: "chain", Description: "List queued modifications"},
			Run:  chain,
		},
		{
			Spec: command.Spec{Name: "events", Description: "List progress events of this job", Args: "[after-seq]"},
			Run:  events,
		},
		{
			Spec: command.Spec{Name: "history", Description: "Show recent conversion jobs", Args: "[count]", Context: command.ContextAny},
			Run:  deps.history,
		},
	}
	for _, c := range cmds {
		if c.Name == "history" && deps.History == nil {
			continue
		}
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (d Deps) help(env *command.Env, _ []string) error {
	ctx := command.ContextBeforeImport
	if env.Job != nil {
		ctx = command.ContextAfterImport
	}
	env.Out.Line("Commands:")
	for _, c := range d.Registry.Commands(ctx) {
		env.Out.ListEntry(c.Usage(), c.Description, 0, false)
	}
	if env.Job == nil {
		return nil
	}
	env.Out.Line("Modifiers (use with 'mod'):")
	for _, m := range d.Registry.Modifiers() {
		env.Out.ListEntry(m.Usage(), m.Description, 1, false)
	}
	return nil
}

func (d Deps) formats(env *command.Env, _ []string) error {
	if d.Exporter == nil {
		return fmt.Errorf("no exporter available")
	}
	for _, f := range d.Exporter.SupportedFormats() {
		env.Out.ListEntry(f.CommandKey, fmt.Sprintf("%s (%s, %s)", f.Description, f.ID, f.Extension), 1, false)
	}
	return nil
}

func info(env *command.Env, _ []string) error {
	j := env.Job
	if j == nil || j.CurrentIndex() < 0 {
		return fmt.Errorf("no file imported")
	}
	inputs := j.InputFiles()
	settings := j.Settings()
	env.Out.Linef("Job:      %s", j.ID())
	if j.Batch() {
		env.Out.Linef("File:     %d/%d %s", j.CurrentIndex()+1, len(inputs), inputs[j.CurrentIndex()])
	} else {
		env.Out.Linef("File:     %s", inputs[j.CurrentIndex()])
	}
	env.Out.Linef("Formats:  %s", formatList(settings.Formats))
	env.Out.Linef("Modifiers: %d", j.Chain().Len())
	if settings.Range != nil {
		env.Out.Linef("Range:    %s..%s", formatFloat(settings.Range.Low), formatFloat(settings.Range.High))
	}
	if s, ok := j.CurrentData().(statser); ok {
		if st, ok := s.Stats(); ok {
			env.Out.Linef("Values:   low %s, high %s, average %s", formatFloat(st.Low), formatFloat(st.High), formatFloat(st.Average))
		}
	}
	return nil
}

func vars(env *command.Env, _ []string) error {
	v := env.Job.Variables()
	if v.Len() == 0 {
		env.Out.Line("No variables defined")
		return nil
	}
	for _, name := range v.Names() {
		value, _ := v.Get(name)
		env.Out.Linef("    ${%s} = %s", name, value)
	}
	return nil
}

func chain(env *command.Env, _ []string) error {
	names := env.Job.Chain().Names()
	if len(names) == 0 {
		env.Out.Line("No modifications queued")
		return nil
	}
	for i, n := range names {
		env.Out.Linef("    %d. %s", i+1, n)
	}
	return nil
}

func events(env *command.Env, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("too many arguments")
	}
	var after int64
	if len(args) == 1 {
		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || n < 0 {
			return fmt.Errorf("sequence must be a non-negative number, got %q", args[0])
		}
		after = n
	}
	list := env.Job.Events().Since(after)
	if len(list) == 0 {
		env.Out.Line("No events")
		return nil
	}
	for _, e := range list {
		line := fmt.Sprintf("    %d. %s %s", e.Seq, e.Type, e.Path)
		if e.Message != "" {
			line += ": " + e.Message
		}
		env.Out.Line(line)
	}
	return nil
}

func (d Deps) history(env *command.Env, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("too many arguments")
	}
	limit := 10
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("count must be a positive number, got %q", args[0])
		}
		limit = n
	}
	recs, err := d.History.Recent(limit)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if len(recs) == 0 {
		env.Out.Line("No jobs recorded yet")
		return nil
	}
	for _, r := range recs {
		kind := "single"
		if r.Batch {
			kind = "batch"
		}
		env.Out.Linef("%s  %-6s  %-18s  %d in, %d exported, %d failed  %s",
			r.CreatedAt.Local().Format(time.DateTime), kind, r.Status, r.Inputs, r.Exported, r.Failed, formatList(splitFormats(r.Formats)))
	}
	return nil
}

func formatList(ids []string) string {
	if len(ids) == 0 {
		return "<NONE>"
	}
	return strings.Join(ids, ", ")
}

func splitFormats(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
