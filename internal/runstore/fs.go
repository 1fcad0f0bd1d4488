package runstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"heightmap-converter/internal/model"
)

const manifestSuffix = ".job.json"

// WriteBytes replaces path atomically through a temp file in the same directory.
func WriteBytes(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create parent for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, ".hmcon-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file for %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("chmod temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("atomic rename for %s: %w", path, err)
	}
	return nil
}

func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON for %s: %w", path, err)
	}
	data = append(data, '\n')
	return WriteBytes(path, data)
}

func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse JSON %s: %w", path, err)
	}
	return nil
}

// ManifestPath places the manifest inside the output directory for batch jobs and
// next to the output file otherwise.
func ManifestPath(outputPath string, batch bool, jobID string) string {
	if batch {
		return filepath.Join(outputPath, "job-"+jobID+manifestSuffix)
	}
	base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	return base + manifestSuffix
}

func SaveManifest(path string, mf model.JobManifest) error {
	return WriteJSON(path, mf)
}

func LoadManifest(path string) (model.JobManifest, error) {
	var mf model.JobManifest
	if err := ReadJSON(path, &mf); err != nil {
		return model.JobManifest{}, err
	}
	return mf, nil
}
