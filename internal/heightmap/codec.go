package heightmap

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"heightmap-converter/internal/job"
	"heightmap-converter/internal/model"
	"heightmap-converter/internal/runstore"
)

const (
	FormatASC   = "ASC"
	FormatXYZ   = "XYZ"
	FormatPNG16 = "PNG16"
)

var formats = []model.Format{
	{ID: FormatASC, CommandKey: "asc", Description: "ESRI ASCII grid", Extension: ".asc"},
	{ID: FormatXYZ, CommandKey: "xyz", Description: "XYZ point list", Extension: ".xyz"},
	{ID: FormatPNG16, CommandKey: "png", Description: "16-bit grayscale PNG heightmap", Extension: ".png"},
}

var ErrNoFormat = errors.New("no export format selected")

// Codec imports ASCII grids and exports them in every supported format.
type Codec struct{}

func NewCodec() *Codec {
	return &Codec{}
}

func (c *Codec) CanImport(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".asc")
}

func (c *Codec) Import(path string) (job.Data, error) {
	if !c.CanImport(path) {
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
	return readGridFile(path)
}

func (c *Codec) DataInfo(path string) (job.DataInfo, error) {
	g, err := readGridFile(path)
	if err != nil {
		return job.DataInfo{}, err
	}
	info, ok := g.Stats()
	if !ok {
		return job.DataInfo{}, fmt.Errorf("%s holds no data cells", path)
	}
	return info, nil
}

func (c *Codec) SupportedFormats() []model.Format {
	return append([]model.Format(nil), formats...)
}

func (c *Codec) ValidateSettings(settings model.ExportSettings, data job.Data) error {
	if len(settings.Formats) == 0 {
		return ErrNoFormat
	}
	for _, id := range settings.Formats {
		if _, ok := lookupFormat(id); !ok {
			return fmt.Errorf("unknown format %q", id)
		}
	}
	g, ok := data.(*Grid)
	if !ok || !g.Valid() {
		return fmt.Errorf("data is not a valid grid")
	}
	if r := settings.Range; r != nil && r.High < r.Low {
		return fmt.Errorf("value range %v..%v is inverted", r.Low, r.High)
	}
	return nil
}

func (c *Codec) Export(data job.Data, format model.Format, settings model.ExportSettings, outputPath string) error {
	g, ok := data.(*Grid)
	if !ok {
		return fmt.Errorf("cannot export %T", data)
	}
	var buf bytes.Buffer
	var err error
	switch format.ID {
	case FormatASC:
		err = WriteASC(&buf, g)
	case FormatXYZ:
		err = WriteXYZ(&buf, g)
	case FormatPNG16:
		err = WritePNG16(&buf, g, settings.Range)
	default:
		return fmt.Errorf("unknown format %q", format.ID)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format.ID, err)
	}
	return runstore.WriteBytes(outputPath, buf.Bytes())
}

func lookupFormat(id string) (model.Format, bool) {
	for _, f := range formats {
		if f.Matches(id) {
			return f, true
		}
	}
	return model.Format{}, false
}

func readGridFile(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	g, err := ReadASC(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
