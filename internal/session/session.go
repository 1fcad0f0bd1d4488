package session

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"heightmap-converter/internal/command"
	"heightmap-converter/internal/console"
	"heightmap-converter/internal/job"
	"heightmap-converter/internal/model"
	"heightmap-converter/internal/runstore"
	"heightmap-converter/internal/script"
)

const (
	Banner       = "HEIGHTMAP CONVERTER V1.1"
	promptSymbol = "> "
	separator    = "---------------------------------"
)

// errQuit unwinds the loop when the user quits or input runs out.
var errQuit = errors.New("quit")

// Recorder persists job outcomes. Failures are logged, never shown to the user.
type Recorder interface {
	StartJob(j *job.Job) error
	FinishJob(j *job.Job, sum job.Summary) error
	RecordEvent(e job.Event) error
}

// jobStatusReader is implemented by recorders that can look up past jobs.
type jobStatusReader interface {
	JobStatus(id string) (status string, ok bool, err error)
}

type Options struct {
	Console  *console.Console
	Reader   console.LineReader
	Registry *command.Registry
	Importer job.Importer
	Exporter job.Exporter
	History  Recorder
	Log      zerolog.Logger

	DefaultFormats []string
	WriteManifest  bool
}

// Session runs the input → configure → export loop, one job at a time.
// The command queue outlives jobs; variables belong to the job.
type Session struct {
	out      *console.Console
	reader   console.LineReader
	reg      *command.Registry
	importer job.Importer
	exporter job.Exporter
	history  Recorder
	log      zerolog.Logger

	defaultFormats []string
	writeManifest  bool

	queue     *script.Queue
	keepQueue bool
}

func New(opts Options) (*Session, error) {
	switch {
	case opts.Console == nil:
		return nil, errors.New("session: console is required")
	case opts.Reader == nil:
		return nil, errors.New("session: reader is required")
	case opts.Importer == nil || opts.Exporter == nil:
		return nil, errors.New("session: importer and exporter are required")
	}
	reg := opts.Registry
	if reg == nil {
		reg = command.NewRegistry()
	}
	s := &Session{
		out:            opts.Console,
		reader:         opts.Reader,
		reg:            reg,
		importer:       opts.Importer,
		exporter:       opts.Exporter,
		history:        opts.History,
		log:            opts.Log,
		defaultFormats: append([]string(nil), opts.DefaultFormats...),
		writeManifest:  opts.WriteManifest,
		queue:          script.NewQueue(),
	}
	s.out.SetErrorHook(s.onReportedError)
	return s, nil
}

func (s *Session) Queue() *script.Queue {
	return s.queue
}

// Exec queues the lines of a script file ahead of anything already queued.
func (s *Session) Exec(path string) error {
	lines, err := script.LoadScript(path)
	if err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}
	if err := s.queue.Prepend(lines); err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}
	s.log.Debug().Str("script", path).Int("lines", len(lines)).Msg("script queued")
	return nil
}

// Run loops over jobs until the user quits or input is exhausted.
func (s *Session) Run() error {
	s.out.Box(Banner)
	for {
		inputs, batch, err := s.selectInput()
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.runJob(inputs, batch); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
}

func (s *Session) runJob(inputs []string, batch bool) error {
	j, err := job.New(inputs, batch)
	if err != nil {
		return err
	}
	s.log.Info().Str("job_id", j.ID()).Bool("batch", batch).Int("inputs", len(inputs)).Msg("job created")
	j.Subscribe(s.feedback(j))
	if s.history != nil {
		if err := s.history.StartJob(j); err != nil {
			s.log.Warn().Err(err).Msg("history: start job")
		}
		j.Subscribe(func(e job.Event) {
			if err := s.history.RecordEvent(e); err != nil {
				s.log.Warn().Err(err).Msg("history: record event")
			}
		})
	}
	s.applyDefaultFormats(j)

	ok, err := j.NextFile(s.importer)
	if err != nil {
		return err
	}
	if !ok {
		s.finish(j, job.Summary{})
		return nil
	}

	proceed, err := s.configure(j)
	if err != nil {
		if errors.Is(err, errQuit) {
			if aerr := j.Abort(); aerr != nil {
				return aerr
			}
			s.finish(j, job.Summary{})
		}
		return err
	}
	if !proceed {
		s.finish(j, job.Summary{})
		return nil
	}

	path, err := s.promptExportPath(j)
	if err != nil {
		if errors.Is(err, errQuit) {
			if aerr := j.Abort(); aerr != nil {
				return aerr
			}
			s.finish(j, job.Summary{})
		}
		return err
	}
	j.SetOutputPath(path)

	lockDir := path
	if !batch {
		lockDir = parentDir(path)
	}
	lock, err := s.lockOutput(lockDir, j.ID())
	if err != nil {
		s.out.Error(err.Error())
		if aerr := j.Abort(); aerr != nil {
			return aerr
		}
		s.finish(j, job.Summary{})
		return nil
	}
	defer func() {
		if err := lock.Release(); err != nil {
			s.log.Warn().Err(err).Msg("release output lock")
		}
	}()

	sum, err := j.ExportAll(s.importer, s.exporter)
	if err != nil {
		return err
	}
	if s.writeManifest {
		s.saveManifest(j, sum)
	}
	s.out.Line(separator)
	s.finish(j, sum)
	return nil
}

// lockOutput claims dir for the job. A lock left behind by a job the history
// already shows as finished is broken and claimed again.
func (s *Session) lockOutput(dir, jobID string) (*runstore.OutputLock, error) {
	lock, err := runstore.AcquireOutputLock(dir, jobID)
	var lerr *runstore.LockedError
	if !errors.As(err, &lerr) || lerr.Owner == nil || !s.jobFinished(lerr.Owner.JobID) {
		return lock, err
	}
	s.log.Warn().Str("dir", dir).Str("owner_job_id", lerr.Owner.JobID).Int("owner_pid", lerr.Owner.PID).Msg("breaking stale output lock")
	s.out.Linef("Removing stale lock left by job %s", lerr.Owner.JobID)
	if err := runstore.BreakOutputLock(dir); err != nil {
		return nil, err
	}
	return runstore.AcquireOutputLock(dir, jobID)
}

func (s *Session) jobFinished(jobID string) bool {
	r, ok := s.history.(jobStatusReader)
	if !ok {
		return false
	}
	status, found, err := r.JobStatus(jobID)
	if err != nil {
		s.log.Warn().Err(err).Str("job_id", jobID).Msg("history: job status")
		return false
	}
	return found && model.IsTerminal(model.Phase(status))
}

func (s *Session) finish(j *job.Job, sum job.Summary) {
	s.log.Info().Str("job_id", j.ID()).Str("phase", string(j.Phase())).
		Int("exported", sum.Exported).Int("failed", sum.Failed).Msg("job finished")
	if s.history == nil {
		return
	}
	if err := s.history.FinishJob(j, sum); err != nil {
		s.log.Warn().Err(err).Msg("history: finish job")
	}
}

func (s *Session) applyDefaultFormats(j *job.Job) {
	if len(s.defaultFormats) == 0 {
		return
	}
	var ids []string
	for _, id := range s.defaultFormats {
		f, ok := findFormat(s.exporter.SupportedFormats(), id)
		if !ok {
			s.log.Warn().Str("format", id).Msg("ignoring unknown default format")
			continue
		}
		ids = append(ids, f.ID)
	}
	j.SetFormats(ids)
}

func (s *Session) saveManifest(j *job.Job, sum job.Summary) {
	settings := j.Settings()
	mf := model.JobManifest{
		SchemaVersion: 1,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		JobID:         j.ID(),
		Batch:         j.Batch(),
		Inputs:        j.InputFiles(),
		Formats:       settings.Formats,
		Modifiers:     j.Chain().Names(),
		OutputPath:    settings.OutputPath,
		Exported:      sum.Exported,
		Failed:        sum.Failed,
		Files:         sum.Files,
	}
	p := runstore.ManifestPath(settings.OutputPath, j.Batch(), j.ID())
	if err := runstore.SaveManifest(p, mf); err != nil {
		s.out.Error("Could not write job manifest: " + err.Error())
		return
	}
	s.out.Line("Job manifest written to " + p)
}

// feedback prints per-file progress as the job reports it.
func (s *Session) feedback(j *job.Job) job.Observer {
	total := len(j.InputFiles())
	return func(e job.Event) {
		s.log.Info().Str("job_id", e.JobID).Int64("seq", e.Seq).Str("event", string(e.Type)).
			Int("index", e.Index).Str("path", e.Path).Str("message", e.Message).Msg("job event")
		switch e.Type {
		case job.EventFileImportFailed:
			s.out.Error("IMPORT FAILED: " + e.Path)
			s.out.Error(e.Message)
		case job.EventFileExported:
			if j.Batch() {
				s.out.Success(fmt.Sprintf("EXPORT %d/%d SUCCESSFUL", e.Index+1, total))
			} else {
				s.out.Success("EXPORT SUCCESSFUL")
			}
		case job.EventFileExportFailed:
			if j.Batch() {
				s.out.Error(fmt.Sprintf("EXPORT %d/%d FAILED:", e.Index+1, total))
			} else {
				s.out.Error("EXPORT FAILED: " + e.Path)
			}
			s.out.Error(e.Message)
		case job.EventExportCompleted:
			if j.Batch() {
				s.out.Success("DONE!")
			}
		}
	}
}

// readCommand serves the queue first, echoing what it consumes, then falls
// back to the reader. Job variables are substituted when a job is active.
func (s *Session) readCommand(j *job.Job) (string, error) {
	line, ok := s.queue.Next()
	if ok {
		s.out.Echo(line)
	} else {
		var err error
		line, err = s.readRaw(promptSymbol)
		if err != nil {
			return "", err
		}
	}
	if j != nil {
		line = j.Variables().Substitute(line)
	}
	return strings.TrimSpace(line), nil
}

// readRaw bypasses the queue.
func (s *Session) readRaw(prompt string) (string, error) {
	line, err := s.reader.ReadLine(prompt)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, console.ErrInterrupted) {
			return "", errQuit
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return line, nil
}

func (s *Session) onReportedError() {
	if s.keepQueue {
		return
	}
	if n := s.queue.Len(); n > 0 {
		s.log.Debug().Int("dropped", n).Msg("command queue cleared after error")
	}
	s.queue.Clear()
}

// scriptError reports a failed exec without touching what is already queued.
func (s *Session) scriptError(err error) {
	s.keepQueue = true
	defer func() { s.keepQueue = false }()
	s.out.Error(err.Error())
}

func (s *Session) execArgs(args []string) {
	if len(args) == 0 {
		s.out.Warning("Usage: exec <path>")
		return
	}
	path := strings.Join(args, " ")
	if err := s.Exec(path); err != nil {
		s.scriptError(err)
		return
	}
	s.out.Linef("Queued script %s (%d commands pending)", path, s.queue.Len())
}

func (s *Session) runPlain(c *command.Command, j *job.Job, args []string) {
	env := &command.Env{Job: j, Out: s.out}
	if err := c.Run(env, args); err != nil {
		s.out.Warning(err.Error())
		s.out.Warning("Usage: " + c.Usage())
	}
}

func findFormat(formats []model.Format, token string) (model.Format, bool) {
	for _, f := range formats {
		if f.Matches(token) {
			return f, true
		}
	}
	return model.Format{}, false
}
