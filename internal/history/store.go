package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"heightmap-converter/internal/job"
)

// StatusRunning marks a job that has not finished yet. Finished jobs store the
// phase they ended in.
const StatusRunning = "running"

// Store records conversion jobs and their per-file events in sqlite.
type Store struct {
	db *sql.DB
}

type JobRecord struct {
	ID         string    `json:"id"`
	Batch      bool      `json:"batch"`
	Inputs     int       `json:"inputs"`
	Formats    string    `json:"formats"`
	OutputPath string    `json:"output_path"`
	Status     string    `json:"status"`
	Exported   int       `json:"exported"`
	Failed     int       `json:"failed"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	jobTable := `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		batch INTEGER,
		inputs INTEGER,
		formats TEXT,
		output_path TEXT,
		status TEXT,
		exported INTEGER,
		failed INTEGER,
		created_at DATETIME,
		updated_at DATETIME
	);
	`
	eventTable := `
	CREATE TABLE IF NOT EXISTS job_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		job_id TEXT,
		seq INTEGER,
		type TEXT,
		file_index INTEGER,
		path TEXT,
		message TEXT,
		created_at DATETIME
	);
	`
	for _, stmt := range []string{jobTable, eventTable} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init history db: %w", err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// StartJob inserts a running job row.
func (s *Store) StartJob(j *job.Job) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(`INSERT INTO jobs (id, batch, inputs, formats, output_path, status, exported, failed, created_at, updated_at) VALUES (?, ?, ?, '', '', ?, 0, 0, ?, ?)`,
		j.ID(), j.Batch(), len(j.InputFiles()), StatusRunning, now, now)
	return err
}

// FinishJob stores the final phase and totals of a job.
func (s *Store) FinishJob(j *job.Job, sum job.Summary) error {
	status := string(j.Phase())
	settings := j.Settings()
	now := time.Now().UTC()
	_, err := s.db.Exec(`UPDATE jobs SET status = ?, formats = ?, output_path = ?, exported = ?, failed = ?, updated_at = ? WHERE id = ?`,
		status, strings.Join(settings.Formats, ","), settings.OutputPath, sum.Exported, sum.Failed, now, j.ID())
	return err
}

// JobStatus returns the stored status of one job. ok is false when the job
// was never recorded.
func (s *Store) JobStatus(jobID string) (status string, ok bool, err error) {
	err = s.db.QueryRow(`SELECT status FROM jobs WHERE id = ?`, jobID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return status, true, nil
}

func (s *Store) RecordEvent(e job.Event) error {
	_, err := s.db.Exec(`INSERT INTO job_events (job_id, seq, type, file_index, path, message, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.JobID, e.Seq, string(e.Type), e.Index, e.Path, e.Message, e.Timestamp.UTC())
	return err
}

// Recent returns up to limit jobs, newest first.
func (s *Store) Recent(limit int) ([]JobRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`SELECT id, batch, inputs, formats, output_path, status, exported, failed, created_at, updated_at FROM jobs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JobRecord
	for rows.Next() {
		var r JobRecord
		if err := rows.Scan(&r.ID, &r.Batch, &r.Inputs, &r.Formats, &r.OutputPath, &r.Status, &r.Exported, &r.Failed, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Events returns the recorded events of one job in sequence order.
func (s *Store) Events(jobID string) ([]job.Event, error) {
	rows, err := s.db.Query(`SELECT seq, type, file_index, path, message, created_at FROM job_events WHERE job_id = ? ORDER BY seq`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []job.Event
	for rows.Next() {
		e := job.Event{JobID: jobID}
		var typ string
		if err := rows.Scan(&e.Seq, &typ, &e.Index, &e.Path, &e.Message, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Type = job.EventType(typ)
		out = append(out, e)
	}
	return out, rows.Err()
}
