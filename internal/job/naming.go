package job

import (
	"fmt"
	"path/filepath"
	"strings"

	"heightmap-converter/internal/model"
)

// OutputFile resolves where input i is written in format f. Batch jobs write into
// the output directory, suffixing the index when two inputs share a file stem.
// Single-file jobs treat the output path as a file name whose extension follows f.
func OutputFile(outputPath string, batch bool, inputs []string, i int, f model.Format) string {
	if !batch {
		return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + f.Extension
	}
	stem := fileStem(inputs[i])
	dupes := 0
	for _, in := range inputs {
		if strings.EqualFold(fileStem(in), stem) {
			dupes++
		}
	}
	if dupes > 1 {
		stem = fmt.Sprintf("%s_%d", stem, i+1)
	}
	return filepath.Join(outputPath, stem+f.Extension)
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
