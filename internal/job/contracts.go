package job

import "heightmap-converter/internal/model"

// Data is an imported dataset. The core only asks whether it is usable.
type Data interface {
	Valid() bool
}

// Modifier transforms imported data before it is written.
type Modifier interface {
	Name() string
	Apply(Data) (Data, error)
}

// DataInfo summarises the values of a file without a full import.
type DataInfo struct {
	Low     float64
	High    float64
	Average float64
}

type Importer interface {
	CanImport(path string) bool
	Import(path string) (Data, error)
	DataInfo(path string) (DataInfo, error)
}

type Exporter interface {
	SupportedFormats() []model.Format
	ValidateSettings(settings model.ExportSettings, data Data) error
	Export(data Data, format model.Format, settings model.ExportSettings, outputPath string) error
}
