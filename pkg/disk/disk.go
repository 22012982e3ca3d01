// Package disk reports and reclaims the local storage used by toolup.
package disk

import (
	"log/slog"
	"os"
	"path/filepath"

	"toolup/pkg/config"
)

// Usage represents disk usage for one category of data.
type Usage struct {
	Label string
	Size  int64
	Items int
	Path  string
}

// Info returns the usage of each toolup directory, in a fixed order, and
// the total size.
func Info(cfg config.ReadOnly) ([]Usage, int64) {
	paths := []struct{ label, path string }{
		{"Components", cfg.GetComponentDir()},
		{"Downloads", cfg.GetDownloadDir()},
		{"State", cfg.GetStateDir()},
	}

	var total int64
	stats := make([]Usage, 0, len(paths))
	for _, p := range paths {
		size, count := DirSize(p.path)
		total += size
		stats = append(stats, Usage{Label: p.label, Size: size, Items: count, Path: p.path})
	}
	return stats, total
}

// CleanDownloads empties the download cache and returns the bytes freed.
// Installed components are left alone.
func CleanDownloads(cfg config.ReadOnly) (int64, error) {
	dir := cfg.GetDownloadDir()
	if _, err := os.Stat(dir); err != nil {
		return 0, nil
	}

	freed, _ := DirSize(dir)
	slog.Info("Cleaning", "path", dir)
	if err := os.RemoveAll(dir); err != nil {
		return 0, err
	}
	return freed, os.MkdirAll(dir, 0755)
}

// DirSize calculates the total size and file count of a directory.
func DirSize(path string) (int64, int) {
	var size int64
	var count int
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
			count++
		}
		return nil
	})
	return size, count
}
