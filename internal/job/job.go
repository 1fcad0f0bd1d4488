package job

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"heightmap-converter/internal/model"
	"heightmap-converter/internal/script"
)

var (
	ErrNoInputFiles = errors.New("no input files")
	ErrInvalidData  = errors.New("imported data is not valid")
)

// Job is the single live conversion session: its inputs, the data currently
// imported, export settings, modifier chain and variables.
type Job struct {
	id     string
	inputs []string
	batch  bool
	phase  model.Phase

	next         int
	currentIndex int
	current      Data

	settings model.ExportSettings
	chain    *Chain
	vars     *script.Variables

	importFailures []model.FileResult
	observers      []Observer
	events         *EventLog
}

// Summary is the outcome of an export pass.
type Summary struct {
	Exported int
	Failed   int
	Files    []model.FileResult
}

// New creates a job for the given inputs and moves it into the importing phase.
// The input list and batch flag are fixed for the life of the job.
func New(inputs []string, batch bool) (*Job, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputFiles
	}
	j := &Job{
		id:           uuid.NewString(),
		inputs:       append([]string(nil), inputs...),
		batch:        batch,
		phase:        model.PhaseAwaitingInput,
		currentIndex: -1,
		chain:        NewChain(),
		vars:         script.NewVariables(),
		events:       NewEventLog(0),
	}
	if err := j.transition(model.PhaseImporting); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *Job) ID() string { return j.id }
func (j *Job) Batch() bool { return j.batch }
func (j *Job) Phase() model.Phase { return j.phase }
func (j *Job) Chain() *Chain { return j.chain }
func (j *Job) Variables() *script.Variables { return j.vars }
func (j *Job) Events() *EventLog { return j.events }
func (j *Job) CurrentIndex() int { return j.currentIndex }
func (j *Job) CurrentData() Data { return j.current }

func (j *Job) InputFiles() []string {
	return append([]string(nil), j.inputs...)
}

func (j *Job) Settings() model.ExportSettings {
	s := j.settings
	s.Formats = append([]string(nil), j.settings.Formats...)
	return s
}

// Subscribe registers an observer for progress events.
func (j *Job) Subscribe(o Observer) {
	if o != nil {
		j.observers = append(j.observers, o)
	}
}

// SetFormats replaces the selected formats. Duplicates collapse, ignoring case,
// and the first spelling wins.
func (j *Job) SetFormats(ids []string) {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		v := strings.TrimSpace(id)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	j.settings.Formats = out
}

func (j *Job) SetOutputPath(path string) {
	j.settings.OutputPath = path
}

func (j *Job) SetRange(r *model.ValueRange) {
	j.settings.Range = r
}

// Abort ends the configuration phase without exporting.
func (j *Job) Abort() error {
	return j.transition(model.PhaseAborted)
}

// NextFile imports inputs from the cursor onwards until one yields valid data.
// A failed single-file job stops at the first failure; a batch job moves on.
func (j *Job) NextFile(imp Importer) (bool, error) {
	for j.next < len(j.inputs) {
		i := j.next
		j.next++
		path := j.inputs[i]

		data, err := importValid(imp, path)
		if err != nil {
			if terr := j.transition(model.PhaseImportFailed); terr != nil {
				return false, terr
			}
			j.importFailures = append(j.importFailures, model.FileResult{
				Index:  i,
				Input:  path,
				Status: model.FileStatusImportFailed,
				Error:  err.Error(),
			})
			j.emit(Event{Type: EventFileImportFailed, Index: i, Path: path, Err: err})
			if !j.batch || j.next >= len(j.inputs) {
				return false, nil
			}
			if terr := j.transition(model.PhaseImporting); terr != nil {
				return false, terr
			}
			continue
		}

		j.currentIndex = i
		j.current = data
		j.emit(Event{Type: EventFileImported, Index: i, Path: path})
		return true, j.transition(model.PhaseConfiguringExport)
	}
	return false, nil
}

// ExportAll writes the current file and every remaining input using the shared
// settings and modifier chain. Per-file failures are reported, never retried.
func (j *Job) ExportAll(imp Importer, exp Exporter) (Summary, error) {
	if err := j.transition(model.PhaseExporting); err != nil {
		return Summary{}, err
	}
	formats := j.resolveFormats(exp)
	settings := j.Settings()

	sum := Summary{Files: append([]model.FileResult(nil), j.importFailures...)}
	sum.Failed = len(j.importFailures)

	for i := j.currentIndex; i >= 0 && i < len(j.inputs); i++ {
		path := j.inputs[i]
		data := j.current
		if i != j.currentIndex {
			var err error
			data, err = importValid(imp, path)
			if err != nil {
				sum.Failed++
				sum.Files = append(sum.Files, model.FileResult{Index: i, Input: path, Status: model.FileStatusImportFailed, Error: err.Error()})
				j.emit(Event{Type: EventFileImportFailed, Index: i, Path: path, Err: err})
				continue
			}
			j.currentIndex = i
			j.current = data
			j.emit(Event{Type: EventFileImported, Index: i, Path: path})
		}

		res := j.exportOne(i, path, data, formats, settings, exp)
		sum.Files = append(sum.Files, res)
		if res.Status == model.FileStatusExported {
			sum.Exported++
		} else {
			sum.Failed++
		}
	}
	j.next = len(j.inputs)

	j.emit(Event{Type: EventExportCompleted, Index: len(j.inputs)})
	return sum, j.transition(model.PhaseDone)
}

func (j *Job) exportOne(i int, path string, data Data, formats []model.Format, settings model.ExportSettings, exp Exporter) model.FileResult {
	res := model.FileResult{Index: i, Input: path}
	modified, err := j.chain.Apply(data)
	if err != nil {
		res.Status = model.FileStatusExportFailed
		res.Error = err.Error()
		j.emit(Event{Type: EventFileExportFailed, Index: i, Path: path, Err: err})
		return res
	}

	var errs []error
	for _, f := range formats {
		target := OutputFile(settings.OutputPath, j.batch, j.inputs, i, f)
		if err := exp.Export(modified, f, settings, target); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.ID, err))
			continue
		}
		res.Outputs = append(res.Outputs, target)
	}
	if len(errs) > 0 {
		err := errors.Join(errs...)
		res.Status = model.FileStatusExportFailed
		res.Error = err.Error()
		j.emit(Event{Type: EventFileExportFailed, Index: i, Path: path, Err: err})
		return res
	}
	res.Status = model.FileStatusExported
	j.emit(Event{Type: EventFileExported, Index: i, Path: path})
	return res
}

func (j *Job) resolveFormats(exp Exporter) []model.Format {
	supported := exp.SupportedFormats()
	out := make([]model.Format, 0, len(j.settings.Formats))
	for _, id := range j.settings.Formats {
		for _, f := range supported {
			if f.Matches(id) {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

func (j *Job) emit(e Event) {
	e.JobID = j.id
	e = j.events.Publish(e)
	for _, o := range j.observers {
		o(e)
	}
}

func (j *Job) transition(to model.Phase) error {
	return model.TransitionPhase(&j.phase, to, j.id)
}

func importValid(imp Importer, path string) (Data, error) {
	data, err := imp.Import(path)
	if err != nil {
		return nil, err
	}
	if data == nil || !data.Valid() {
		return nil, ErrInvalidData
	}
	return data, nil
}
