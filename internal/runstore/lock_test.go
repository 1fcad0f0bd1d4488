package runstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestAcquireOutputLock_BlocksConcurrentAcquire(t *testing.T) {
	dir := t.TempDir()

	lock, err := AcquireOutputLock(dir, "job-1")
	if err != nil {
		t.Fatalf("acquire first lock: %v", err)
	}
	if got := lock.Owner(); got.JobID != "job-1" || got.PID != os.Getpid() {
		t.Fatalf("unexpected owner %+v", got)
	}

	_, err = AcquireOutputLock(dir, "job-2")
	if !errors.Is(err, ErrOutputLocked) {
		t.Fatalf("expected ErrOutputLocked, got %v", err)
	}
	var lerr *LockedError
	if !errors.As(err, &lerr) || lerr.Owner == nil || lerr.Owner.JobID != "job-1" {
		t.Fatalf("expected owner job-1 in %v", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("release lock: %v", err)
	}

	lock2, err := AcquireOutputLock(dir, "job-2")
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	if err := lock2.Release(); err != nil {
		t.Fatalf("release second lock: %v", err)
	}
}

func TestAcquireOutputLock_MissingOwnerFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, outputLockDirName), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_, err := AcquireOutputLock(dir, "job-1")
	var lerr *LockedError
	if !errors.As(err, &lerr) || lerr.Owner != nil {
		t.Fatalf("expected ownerless LockedError, got %v", err)
	}
}

func TestBreakOutputLock(t *testing.T) {
	dir := t.TempDir()
	if _, err := AcquireOutputLock(dir, "job-1"); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	owner, err := ReadLockOwner(dir)
	if err != nil || owner.JobID != "job-1" {
		t.Fatalf("ReadLockOwner: %+v %v", owner, err)
	}
	if err := BreakOutputLock(dir); err != nil {
		t.Fatalf("BreakOutputLock: %v", err)
	}
	lock, err := AcquireOutputLock(dir, "job-2")
	if err != nil {
		t.Fatalf("acquire after break: %v", err)
	}
	_ = lock.Release()
}

func TestAcquireOutputLock_RequiresDirectoryAndJob(t *testing.T) {
	if _, err := AcquireOutputLock("  ", "job-1"); err == nil {
		t.Fatalf("expected error for empty directory")
	}
	if _, err := AcquireOutputLock(t.TempDir(), ""); err == nil {
		t.Fatalf("expected error for empty job id")
	}
}
