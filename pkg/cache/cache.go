// Package cache guards files and directories in the download cache so that
// concurrent toolup processes never produce the same artifact twice.
package cache

import (
	"context"
	"os"
)

// Ensure ensures that the target path exists by running fn if it doesn't.
// It holds the target's lock while fn runs, so fn is called at most once
// across processes racing for the same target.
func Ensure(ctx context.Context, target string, fn func() error) error {
	if exists(target) {
		return nil
	}

	unlock, err := Lock(ctx, target)
	if err != nil {
		return err
	}
	defer unlock()

	// Another process may have finished while we waited.
	if exists(target) {
		return nil
	}

	return fn()
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
