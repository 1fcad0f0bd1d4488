package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"heightmap-converter/internal/command"
	"heightmap-converter/internal/job"
	"heightmap-converter/internal/model"
)

type outcome int

const (
	stay outcome = iota
	doExport
	doAbort
	doQuit
)

const (
	cmdJoin     = "join"
	cmdEqualize = "equalizeheightmaps"
)

var builtins = []string{"export", "abort", "format", "mod", "modify", "define", "definep", "exec", "exit", "quit"}

// configure runs the export options prompt. It returns true once the settings
// pass validation after 'export', false after 'abort'.
func (s *Session) configure(j *job.Job) (bool, error) {
	s.printOptions(j)
	for {
		line, err := s.readCommand(j)
		if err != nil {
			return false, err
		}
		cmd, args := command.Tokenize(line)
		if cmd == "" {
			continue
		}
		next, err := s.handleCommand(j, cmd, args)
		if err != nil {
			return false, err
		}
		switch next {
		case stay:
			continue
		case doQuit:
			return false, errQuit
		case doAbort:
			s.out.Warning("Export aborted")
			if err := j.Abort(); err != nil {
				return false, err
			}
			return false, nil
		case doExport:
			if err := s.exporter.ValidateSettings(j.Settings(), j.CurrentData()); err != nil {
				s.out.Warning("Export settings are not valid: " + err.Error())
				continue
			}
			return true, nil
		}
	}
}

// handleCommand resolves one configuration line. The first match wins:
// built-ins, registered commands, then batch-only options. Only input
// failures are returned as errors.
func (s *Session) handleCommand(j *job.Job, cmd string, args []string) (outcome, error) {
	switch cmd {
	case "export":
		return doExport, nil
	case "abort":
		return doAbort, nil
	case "format":
		s.setFormats(j, args)
		return stay, nil
	case "mod", "modify":
		s.addModifier(j, args)
		return stay, nil
	case "define":
		s.define(j, args)
		return stay, nil
	case "definep":
		if err := s.definePrompt(j, args); err != nil {
			if errors.Is(err, errQuit) {
				return doQuit, nil
			}
			return stay, err
		}
		return stay, nil
	case "exec":
		s.execArgs(args)
		return stay, nil
	case "exit", "quit":
		return doQuit, nil
	}

	if c, ok := s.reg.Lookup(cmd, command.ContextAfterImport); ok {
		s.runPlain(c, j, args)
		return stay, nil
	}

	if j.Batch() {
		switch cmd {
		case cmdJoin:
			s.out.Warning("join is not available yet")
			return stay, nil
		case cmdEqualize:
			s.equalize(j)
			return stay, nil
		}
	}

	candidates := s.reg.Names(command.ContextAfterImport, builtins...)
	if j.Batch() {
		candidates = append(candidates, cmdJoin, cmdEqualize)
	}
	s.out.Warning("Unknown option: " + cmd + didYouMean(cmd, candidates))
	return stay, nil
}

func (s *Session) setFormats(j *job.Job, args []string) {
	supported := s.exporter.SupportedFormats()
	ids := make([]string, 0, len(args))
	for _, a := range args {
		f, ok := findFormat(supported, a)
		if !ok {
			keys := make([]string, 0, len(supported))
			for _, sf := range supported {
				keys = append(keys, sf.CommandKey)
			}
			s.out.Warning("Unknown format: " + a + didYouMean(strings.ToLower(a), keys))
			continue
		}
		ids = append(ids, f.ID)
	}
	j.SetFormats(ids)
	selected := j.Settings().Formats
	if len(selected) == 0 {
		s.out.Line("Export formats: <NONE>")
		return
	}
	s.out.Line("Export formats: " + strings.Join(selected, ", "))
}

func (s *Session) addModifier(j *job.Job, args []string) {
	if len(args) == 0 {
		s.out.Warning("Usage: mod <name> <args...>")
		return
	}
	name := strings.ToLower(args[0])
	m, ok := s.reg.LookupModifier(name)
	if !ok {
		s.out.Warning("Unknown modifier: " + args[0] + didYouMean(name, s.reg.ModifierNames()))
		return
	}
	mod, err := m.Build(&command.Env{Job: j, Out: s.out}, args[1:])
	if err == nil && mod == nil {
		err = errors.New("modifier could not be created")
	}
	if err == nil {
		err = j.Chain().Add(mod)
	}
	if err != nil {
		s.out.Warning(err.Error())
		s.out.Warning("Usage: " + m.Usage())
		return
	}
	s.out.Linef("Added modifier %s (%d in chain)", mod.Name(), j.Chain().Len())
}

func (s *Session) define(j *job.Job, args []string) {
	switch {
	case len(args) < 2:
		s.out.Warning("not enough arguments")
		s.out.Warning("Usage: define <name> <value>")
		return
	case len(args) > 2:
		s.out.Warning("too many arguments")
		s.out.Warning("Usage: define <name> <value>")
		return
	}
	j.Variables().Define(args[0], args[1])
	s.out.Linef("${%s} = %s", args[0], args[1])
}

// definePrompt asks the user directly, never the queue, for a variable value.
func (s *Session) definePrompt(j *job.Job, args []string) error {
	if len(args) == 0 {
		s.out.Warning("not enough arguments")
		s.out.Warning("Usage: definep <name> [prompt]")
		return nil
	}
	name := args[0]
	prompt := strings.Join(args[1:], " ")
	if prompt == "" {
		prompt = fmt.Sprintf("Enter value for variable '%s':", name)
	}
	s.out.Line(prompt)
	value, err := s.readRaw(promptSymbol)
	if err != nil {
		return err
	}
	j.Variables().Define(name, value)
	return nil
}

func (s *Session) equalize(j *job.Job) {
	res, err := job.Equalize(j.InputFiles(), s.importer.DataInfo,
		func(i, total int) { s.out.Linef("%d/%d", i, total) },
		func(_ string, err error) { s.out.Error(err.Error()) },
	)
	if err != nil {
		s.out.Error(err.Error())
		return
	}
	s.out.Line("Success:")
	s.out.Line("    lowest:   " + formatFloat(res.Low))
	s.out.Line("    highest:  " + formatFloat(res.High))
	s.out.Line("    average:  " + formatFloat(res.Average))
	j.SetRange(&model.ValueRange{Low: res.Low, High: res.High})
}

func (s *Session) printOptions(j *job.Job) {
	s.out.Line("--------------------")
	if j.Batch() {
		s.out.Line("Note: The following export options will be applied to all files in this batch.")
	}
	s.out.Line("* = Required setting")
	s.out.Line("Export options:")
	s.out.ListEntry("format N..", "Export to the specified format(s)", 0, true)
	for _, f := range s.exporter.SupportedFormats() {
		s.out.ListEntry(f.CommandKey, f.Description, 1, false)
	}
	for _, c := range s.reg.Commands(command.ContextAfterImport) {
		s.out.ListEntry(c.Name, c.Description, 0, false)
	}
	s.out.ListEntry("mod X..", "Modification commands", 0, false)
	for _, m := range s.reg.Modifiers() {
		s.out.ListEntry(m.Name, m.Description, 1, false)
	}
	s.out.ListEntry("define N V", "Define a variable for ${N} references", 0, false)
	s.out.ListEntry("definep N [P]", "Ask for a variable value", 0, false)
	s.out.ListEntry("exec F", "Run the commands in script file F", 0, false)
	if j.Batch() {
		s.out.Special("Batch export options:")
		s.out.Special("    join                Joins all files into one large file")
		s.out.Special("    equalizeheightmaps  Equalizes all heightmaps with the same low and high values")
	}
	s.out.Line("")
	s.out.Line("Type 'export' when ready to export")
	s.out.Line("Type 'abort' to abort export")
	s.out.Line("--------------------")
}

func didYouMean(input string, candidates []string) string {
	if sug := command.Suggest(input, candidates); sug != "" && sug != input {
		return fmt.Sprintf(" (did you mean '%s'?)", sug)
	}
	return ""
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
