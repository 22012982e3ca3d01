package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

const (
	retryDelay = 100 * time.Millisecond
	waitDelay  = 200 * time.Millisecond
)

// Lock locks target by creating target.lock holding a timestamp and the
// owner's PID. A lock whose owner is no longer alive, or whose content is
// unreadable, is treated as stale and taken over. While a live process holds
// the lock, Lock waits until it is released or ctx is done.
func Lock(ctx context.Context, target string) (func() error, error) {
	lockFile := target + ".lock"

	if err := os.MkdirAll(filepath.Dir(lockFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create parent dir for lock: %w", err)
	}

	for {
		ok, err := tryLock(lockFile)
		if err != nil {
			return nil, err
		}
		if ok {
			return func() error { return os.Remove(lockFile) }, nil
		}

		delay := time.Duration(0)
		switch pid, err := readOwner(lockFile); {
		case errors.Is(err, os.ErrNotExist):
			// Released between our attempts.
		case err != nil:
			delay = retryDelay
		case pid < 0 || !isPidAlive(pid):
			os.Remove(lockFile)
		default:
			delay = waitDelay
		}

		if delay == 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for lock on %s: %w", target, ctx.Err())
		case <-time.After(delay):
		}
	}
}

// tryLock creates lockFile exclusively.
func tryLock(lockFile string) (bool, error) {
	f, err := os.OpenFile(lockFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if os.IsExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}

	content := fmt.Sprintf("%s %d", time.Now().Format(time.RFC3339), os.Getpid())
	_, werr := f.WriteString(content)
	cerr := f.Close()
	if werr != nil || cerr != nil {
		os.Remove(lockFile)
		return false, fmt.Errorf("failed to write to lock file: %w", errors.Join(werr, cerr))
	}
	return true, nil
}

// readOwner returns the PID recorded in lockFile, or -1 if the file is
// corrupt.
func readOwner(lockFile string) (int, error) {
	content, err := os.ReadFile(lockFile)
	if err != nil {
		return 0, err
	}
	parts := strings.Fields(string(content))
	if len(parts) < 2 {
		return -1, nil
	}
	pid, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return -1, nil
	}
	return pid, nil
}

func isPidAlive(pid int) bool {
	if pid <= 0 {
		return false
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// Signal 0 checks existence without delivering anything.
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}

	if errors.Is(err, syscall.ESRCH) || errors.Is(err, os.ErrProcessDone) {
		return false
	}

	// EPERM: the process exists but belongs to someone else.
	return true
}
