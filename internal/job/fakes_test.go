package job

import (
	"errors"
	"strings"

	"heightmap-converter/internal/model"
)

type fakeData struct {
	name  string
	valid bool
	trail []string
}

func (d *fakeData) Valid() bool { return d.valid }

type fakeImporter struct {
	data  map[string]*fakeData
	infos map[string]DataInfo
	calls []string
}

func (f *fakeImporter) CanImport(path string) bool {
	_, ok := f.data[path]
	return ok
}

func (f *fakeImporter) Import(path string) (Data, error) {
	f.calls = append(f.calls, path)
	d, ok := f.data[path]
	if !ok {
		return nil, errors.New("file not found")
	}
	return d, nil
}

func (f *fakeImporter) DataInfo(path string) (DataInfo, error) {
	di, ok := f.infos[path]
	if !ok {
		return DataInfo{}, errors.New("no info")
	}
	return di, nil
}

type exportCall struct {
	data   *fakeData
	format string
	path   string
}

type fakeExporter struct {
	calls []exportCall
	fail  map[string]bool
}

func (f *fakeExporter) SupportedFormats() []model.Format {
	return []model.Format{
		{ID: "ASC", CommandKey: "asc", Description: "ESRI ASCII grid", Extension: ".asc"},
		{ID: "XYZ", CommandKey: "xyz", Description: "XYZ points", Extension: ".xyz"},
	}
}

func (f *fakeExporter) ValidateSettings(s model.ExportSettings, _ Data) error {
	if len(s.Formats) == 0 {
		return errors.New("no format selected")
	}
	return nil
}

func (f *fakeExporter) Export(data Data, format model.Format, _ model.ExportSettings, path string) error {
	d := data.(*fakeData)
	f.calls = append(f.calls, exportCall{data: d, format: format.ID, path: path})
	if f.fail[d.name] {
		return errors.New("disk full")
	}
	return nil
}

type tagModifier struct {
	tag  string
	fail bool
}

func (m tagModifier) Name() string { return m.tag }

func (m tagModifier) Apply(d Data) (Data, error) {
	if m.fail {
		return nil, errors.New("boom")
	}
	in := d.(*fakeData)
	out := &fakeData{name: in.name, valid: in.valid, trail: append(append([]string(nil), in.trail...), m.tag)}
	return out, nil
}

func eventTypes(events []Event) string {
	parts := make([]string, 0, len(events))
	for _, e := range events {
		parts = append(parts, string(e.Type))
	}
	return strings.Join(parts, ",")
}
