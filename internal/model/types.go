package model

import "strings"

// Format describes one output format offered by an exporter.
type Format struct {
	ID          string `json:"id"`
	CommandKey  string `json:"command_key"`
	Description string `json:"description"`
	Extension   string `json:"extension"`
}

// Matches reports whether token names this format by ID or command key.
func (f Format) Matches(token string) bool {
	t := strings.TrimSpace(token)
	return strings.EqualFold(t, f.ID) || strings.EqualFold(t, f.CommandKey)
}

// ValueRange is a shared low/high pair applied when scaling values into a fixed range.
type ValueRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

type ExportSettings struct {
	Formats    []string    `json:"formats"`
	OutputPath string      `json:"output_path,omitempty"`
	Range      *ValueRange `json:"range,omitempty"`
}

const (
	FileStatusExported     = "exported"
	FileStatusExportFailed = "export_failed"
	FileStatusImportFailed = "import_failed"
)

// JobManifest is the summary written next to the outputs of a finished job.
type JobManifest struct {
	SchemaVersion int          `json:"schema_version"`
	GeneratedAt   string       `json:"generated_at"`
	JobID         string       `json:"job_id"`
	Batch         bool         `json:"batch"`
	Inputs        []string     `json:"inputs"`
	Formats       []string     `json:"formats"`
	Modifiers     []string     `json:"modifiers,omitempty"`
	OutputPath    string       `json:"output_path"`
	Exported      int          `json:"exported"`
	Failed        int          `json:"failed"`
	Files         []FileResult `json:"files"`
}

type FileResult struct {
	Index   int      `json:"index"`
	Input   string   `json:"input"`
	Outputs []string `json:"outputs,omitempty"`
	Status  string   `json:"status"`
	Error   string   `json:"error,omitempty"`
}
