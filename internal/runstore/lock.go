package runstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	outputLockDirName   = ".hmcon.lock"
	outputLockOwnerFile = "owner.json"
)

var ErrOutputLocked = errors.New("output directory is locked")

// LockOwner identifies the job holding an output directory.
type LockOwner struct {
	PID        int       `json:"pid"`
	JobID      string    `json:"job_id"`
	Host       string    `json:"host,omitempty"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// LockedError is returned when another job holds the directory. Owner is nil
// when the owner file is missing or unreadable.
type LockedError struct {
	Dir   string
	Owner *LockOwner
}

func (e *LockedError) Error() string {
	if e.Owner == nil {
		return fmt.Sprintf("output directory %s is locked", e.Dir)
	}
	return fmt.Sprintf("output directory %s is locked by job %s (pid %d on %s since %s)",
		e.Dir, e.Owner.JobID, e.Owner.PID, e.Owner.Host, e.Owner.AcquiredAt.Format(time.RFC3339))
}

func (e *LockedError) Is(target error) bool {
	return target == ErrOutputLocked
}

// OutputLock keeps two jobs from exporting into the same directory at once.
type OutputLock struct {
	dir   string
	owner LockOwner
}

// AcquireOutputLock claims dir for jobID. The lock is a marker directory, so
// the claim is atomic on the local filesystem.
func AcquireOutputLock(dir, jobID string) (*OutputLock, error) {
	target := strings.TrimSpace(dir)
	if target == "" {
		return nil, errors.New("output directory is required")
	}
	if strings.TrimSpace(jobID) == "" {
		return nil, errors.New("job id is required")
	}

	marker := filepath.Join(target, outputLockDirName)
	if err := os.Mkdir(marker, 0o755); err != nil {
		if os.IsExist(err) {
			lerr := &LockedError{Dir: target}
			if owner, rerr := ReadLockOwner(target); rerr == nil {
				lerr.Owner = &owner
			}
			return nil, lerr
		}
		return nil, fmt.Errorf("lock output directory %s: %w", target, err)
	}

	owner := LockOwner{
		PID:        os.Getpid(),
		JobID:      jobID,
		Host:       hostname(),
		AcquiredAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := WriteJSON(filepath.Join(marker, outputLockOwnerFile), owner); err != nil {
		_ = os.RemoveAll(marker)
		return nil, fmt.Errorf("record output lock owner for %s: %w", target, err)
	}
	return &OutputLock{dir: target, owner: owner}, nil
}

// ReadLockOwner returns who holds the lock on dir.
func ReadLockOwner(dir string) (LockOwner, error) {
	var owner LockOwner
	if err := ReadJSON(filepath.Join(dir, outputLockDirName, outputLockOwnerFile), &owner); err != nil {
		return LockOwner{}, err
	}
	if owner.JobID == "" {
		return LockOwner{}, fmt.Errorf("lock owner in %s has no job id", dir)
	}
	return owner, nil
}

// BreakOutputLock removes a lock whose owner is known to be gone.
func BreakOutputLock(dir string) error {
	if err := os.RemoveAll(filepath.Join(dir, outputLockDirName)); err != nil {
		return fmt.Errorf("break output lock in %s: %w", dir, err)
	}
	return nil
}

func (l *OutputLock) Owner() LockOwner {
	return l.owner
}

func (l *OutputLock) Release() error {
	if l == nil || l.dir == "" {
		return nil
	}
	if err := os.RemoveAll(filepath.Join(l.dir, outputLockDirName)); err != nil {
		return fmt.Errorf("release output lock in %s: %w", l.dir, err)
	}
	return nil
}

func hostname() string {
	host, err := os.Hostname()
	if err != nil || strings.TrimSpace(host) == "" {
		return "unknown"
	}
	return strings.TrimSpace(host)
}
