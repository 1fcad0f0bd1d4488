package session

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"heightmap-converter/internal/command"
	"heightmap-converter/internal/console"
	"heightmap-converter/internal/job"
	"heightmap-converter/internal/model"
)

type fakeData struct {
	name  string
	trail []string
}

func (d *fakeData) Valid() bool { return true }

type fakeImporter struct {
	fail  map[string]bool
	infos map[string]job.DataInfo
}

func (f *fakeImporter) CanImport(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".asc")
}

func (f *fakeImporter) Import(path string) (job.Data, error) {
	if f.fail[filepath.Base(path)] {
		return nil, errors.New("corrupt header")
	}
	return &fakeData{name: filepath.Base(path)}, nil
}

func (f *fakeImporter) DataInfo(path string) (job.DataInfo, error) {
	di, ok := f.infos[filepath.Base(path)]
	if !ok {
		return job.DataInfo{}, errors.New("no info for " + path)
	}
	return di, nil
}

type exportCall struct {
	data     *fakeData
	format   string
	settings model.ExportSettings
	path     string
}

type fakeExporter struct {
	calls []exportCall
}

func (f *fakeExporter) SupportedFormats() []model.Format {
	return []model.Format{
		{ID: "ASC", CommandKey: "asc", Description: "ESRI ASCII grid", Extension: ".asc"},
		{ID: "XYZ", CommandKey: "xyz", Description: "XYZ point list", Extension: ".xyz"},
	}
}

func (f *fakeExporter) ValidateSettings(s model.ExportSettings, _ job.Data) error {
	if len(s.Formats) == 0 {
		return errors.New("no format selected")
	}
	return nil
}

func (f *fakeExporter) Export(data job.Data, format model.Format, s model.ExportSettings, path string) error {
	f.calls = append(f.calls, exportCall{data: data.(*fakeData), format: format.ID, settings: s, path: path})
	return nil
}

type fakeRecorder struct {
	started  []string
	finished []string
	events   int
	statuses map[string]string
}

func (r *fakeRecorder) JobStatus(id string) (string, bool, error) {
	st, ok := r.statuses[id]
	return st, ok, nil
}

func (r *fakeRecorder) StartJob(j *job.Job) error {
	r.started = append(r.started, j.ID())
	return nil
}

func (r *fakeRecorder) FinishJob(j *job.Job, _ job.Summary) error {
	r.finished = append(r.finished, string(j.Phase()))
	return nil
}

func (r *fakeRecorder) RecordEvent(job.Event) error {
	r.events++
	return nil
}

type tagModifier struct {
	tag string
}

func (m tagModifier) Name() string { return m.tag }

func (m tagModifier) Apply(d job.Data) (job.Data, error) {
	in := d.(*fakeData)
	return &fakeData{name: in.name, trail: append(append([]string(nil), in.trail...), m.tag)}, nil
}

func testRegistry(t *testing.T) *command.Registry {
	t.Helper()
	reg := command.NewRegistry()
	err := reg.RegisterModifier(command.ModifierCommand{
		Spec: command.Spec{Name: "tag", Description: "Tag the data", Args: "<label>"},
		Build: func(_ *command.Env, args []string) (job.Modifier, error) {
			if len(args) != 1 {
				return nil, errors.New("expected one label")
			}
			return tagModifier{tag: args[0]}, nil
		},
	})
	if err != nil {
		t.Fatalf("RegisterModifier: %v", err)
	}
	err = reg.Register(command.Command{
		Spec: command.Spec{Name: "hello", Description: "Greet", Context: command.ContextBeforeImport},
		Run: func(env *command.Env, _ []string) error {
			env.Out.Line("hello there")
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	err = reg.Register(command.Command{
		Spec: command.Spec{Name: "fail", Description: "Always fails", Args: "<x>"},
		Run: func(*command.Env, []string) error {
			return errors.New("cannot do that")
		},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return reg
}

type harness struct {
	s   *Session
	out *bytes.Buffer
	imp *fakeImporter
	exp *fakeExporter
	rec *fakeRecorder
}

func newHarness(t *testing.T, input string, mutate ...func(*Options)) *harness {
	t.Helper()
	h := &harness{
		out: &bytes.Buffer{},
		imp: &fakeImporter{fail: map[string]bool{}, infos: map[string]job.DataInfo{}},
		exp: &fakeExporter{},
		rec: &fakeRecorder{},
	}
	opts := Options{
		Console:  console.New(h.out, zerolog.Nop()),
		Reader:   console.NewStreamReader(strings.NewReader(input), nil),
		Registry: testRegistry(t),
		Importer: h.imp,
		Exporter: h.exp,
		History:  h.rec,
		Log:      zerolog.Nop(),
	}
	for _, fn := range mutate {
		fn(&opts)
	}
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.s = s
	return h
}

func (h *harness) run(t *testing.T) string {
	t.Helper()
	if err := h.s.Run(); err != nil {
		t.Fatalf("Run: %v\n%s", err, h.out.String())
	}
	return h.out.String()
}

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

func mustContain(t *testing.T, transcript string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(transcript, w) {
			t.Fatalf("expected %q in transcript:\n%s", w, transcript)
		}
	}
}

func jobInfo(low, high, avg float64) job.DataInfo {
	return job.DataInfo{Low: low, High: high, Average: avg}
}
