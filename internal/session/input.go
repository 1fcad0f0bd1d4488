package session

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"heightmap-converter/internal/command"
	"heightmap-converter/internal/job"
)

// selectInput reads lines until one names something to convert: a single
// file, or a batch directory with at least one importable file.
func (s *Session) selectInput() ([]string, bool, error) {
	s.out.Line("Enter path to input file:")
	s.out.Line("or type 'batch' and a path to perform batch operations")
	for {
		line, err := s.readCommand(nil)
		if err != nil {
			return nil, false, err
		}
		cmd, args := command.Tokenize(line)
		switch cmd {
		case "":
			continue
		case "exit", "quit":
			return nil, false, errQuit
		case "exec":
			s.execArgs(args)
			continue
		case "batch":
			if len(args) == 0 {
				s.out.Warning("Usage: batch <directory>")
				continue
			}
			files, err := s.collectBatch(strings.Join(args, " "))
			if err != nil {
				s.out.Warning(err.Error())
				continue
			}
			return files, true, nil
		}
		if c, ok := s.reg.Lookup(cmd, command.ContextBeforeImport); ok {
			s.runPlain(c, nil, args)
			continue
		}

		path := stripQuotes(line)
		s.out.Line("Reading file " + path + " ...")
		return []string{path}, false, nil
	}
}

// collectBatch walks dir recursively, keeping every file the importer accepts.
func (s *Session) collectBatch(dir string) ([]string, error) {
	if !isDir(dir) {
		return nil, fmt.Errorf("directory not found: %s", dir)
	}
	s.out.Line("Starting batch in directory " + dir + " ...")
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && d.Name() == ".hmcon.lock" {
				return filepath.SkipDir
			}
			return nil
		}
		if s.importer.CanImport(path) {
			files = append(files, path)
		} else {
			s.out.Warning(fmt.Sprintf("Skipping file '%s', unknown or unsupported file type.", path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	s.out.Linef("%d files have been added to the batch queue", len(files))
	if len(files) == 0 {
		return nil, fmt.Errorf("no importable files in %s", dir)
	}
	return files, nil
}

// promptExportPath asks until the destination is usable: an existing directory
// for batch jobs, a file in an existing directory otherwise.
func (s *Session) promptExportPath(j *job.Job) (string, error) {
	if j.Batch() {
		s.out.Line("Enter destination path:")
	} else {
		s.out.Line("Enter path and filename to write the file(s):")
	}
	for {
		line, err := s.readCommand(j)
		if err != nil {
			return "", err
		}
		path := stripQuotes(line)
		if path != "" {
			if j.Batch() && isDir(path) {
				return path, nil
			}
			if !j.Batch() && isDir(parentDir(path)) {
				return path, nil
			}
		}
		s.out.Warning("Directory not found!")
	}
}

func stripQuotes(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}

func parentDir(path string) string {
	return filepath.Dir(path)
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
