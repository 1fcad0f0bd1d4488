package heightmap

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"heightmap-converter/internal/model"
)

func writeSample(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestCodecCanImport(t *testing.T) {
	c := NewCodec()
	if !c.CanImport("tile.ASC") {
		t.Fatalf("expected .ASC to be importable")
	}
	if c.CanImport("tile.png") {
		t.Fatalf("expected .png to be rejected")
	}
}

func TestCodecImportAndDataInfo(t *testing.T) {
	dir := t.TempDir()
	p := writeSample(t, dir, "tile.asc", sampleASC)
	c := NewCodec()

	data, err := c.Import(p)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !data.Valid() {
		t.Fatalf("expected valid grid")
	}

	info, err := c.DataInfo(p)
	if err != nil {
		t.Fatalf("DataInfo: %v", err)
	}
	if info.Low != 1 || info.High != 6 || info.Average != 3.2 {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestCodecImportMissingFile(t *testing.T) {
	c := NewCodec()
	if _, err := c.Import(filepath.Join(t.TempDir(), "missing.asc")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCodecCorruptHeaderIsAnImportError(t *testing.T) {
	p := writeSample(t, t.TempDir(), "huge.asc", "ncols 4000000000\nnrows 4000000000\nxllcorner 0\nyllcorner 0\ncellsize 1\n1\n")
	c := NewCodec()
	if _, err := c.Import(p); err == nil {
		t.Fatalf("expected Import error")
	}
	if _, err := c.DataInfo(p); err == nil {
		t.Fatalf("expected DataInfo error")
	}
}

func TestCodecValidateSettings(t *testing.T) {
	c := NewCodec()
	g := NewGrid(1, 1, 1)

	if err := c.ValidateSettings(model.ExportSettings{}, g); !errors.Is(err, ErrNoFormat) {
		t.Fatalf("expected ErrNoFormat, got %v", err)
	}
	if err := c.ValidateSettings(model.ExportSettings{Formats: []string{"TIFF"}}, g); err == nil {
		t.Fatalf("expected unknown format error")
	}
	if err := c.ValidateSettings(model.ExportSettings{Formats: []string{"ASC"}}, &Grid{}); err == nil {
		t.Fatalf("expected invalid grid error")
	}
	bad := &model.ValueRange{Low: 5, High: 1}
	if err := c.ValidateSettings(model.ExportSettings{Formats: []string{"png"}, Range: bad}, g); err == nil {
		t.Fatalf("expected inverted range error")
	}
	if err := c.ValidateSettings(model.ExportSettings{Formats: []string{"asc", "PNG16"}}, g); err != nil {
		t.Fatalf("expected valid settings, got %v", err)
	}
}

func TestCodecExportWritesEachFormat(t *testing.T) {
	dir := t.TempDir()
	c := NewCodec()
	data, err := c.Import(writeSample(t, dir, "in.asc", sampleASC))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	for _, f := range c.SupportedFormats() {
		out := filepath.Join(dir, "out", "tile"+f.Extension)
		if err := c.Export(data, f, model.ExportSettings{Formats: []string{f.ID}}, out); err != nil {
			t.Fatalf("Export %s: %v", f.ID, err)
		}
		raw, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("read %s: %v", out, err)
		}
		if len(raw) == 0 {
			t.Fatalf("%s output is empty", f.ID)
		}
	}
	raw, _ := os.ReadFile(filepath.Join(dir, "out", "tile.asc"))
	if !strings.HasPrefix(string(raw), "ncols 3\n") {
		t.Fatalf("unexpected asc output %q", raw)
	}
}
