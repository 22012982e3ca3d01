package disk

import (
	"os"
	"path/filepath"
	"testing"

	"toolup/pkg/config"
)

func write(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestInfo(t *testing.T) {
	dir := t.TempDir()
	cfg := config.New(filepath.Join(dir, "cache"), filepath.Join(dir, "config"), filepath.Join(dir, "state"))

	write(t, filepath.Join(cfg.GetDownloadDir(), "rustc.tar.gz"), 100)
	write(t, filepath.Join(cfg.GetComponentDir(), "rustc", "bin", "rustc"), 300)
	write(t, filepath.Join(cfg.GetComponentDir(), "rustc", "lib", "librustc.so"), 50)

	stats, total := Info(cfg)
	if total != 450 {
		t.Errorf("expected total 450, got %d", total)
	}
	if len(stats) != 3 || stats[0].Label != "Components" || stats[1].Label != "Downloads" {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats[0].Size != 350 || stats[0].Items != 2 {
		t.Errorf("unexpected component usage %+v", stats[0])
	}
	if stats[2].Size != 0 || stats[2].Items != 0 {
		t.Errorf("missing state dir should be empty, got %+v", stats[2])
	}
}

func TestCleanDownloads(t *testing.T) {
	dir := t.TempDir()
	cfg := config.New(filepath.Join(dir, "cache"), filepath.Join(dir, "config"), filepath.Join(dir, "state"))

	freed, err := CleanDownloads(cfg)
	if err != nil || freed != 0 {
		t.Fatalf("cleaning a missing cache: freed=%d err=%v", freed, err)
	}

	write(t, filepath.Join(cfg.GetDownloadDir(), "rustc.tar.gz"), 100)
	write(t, filepath.Join(cfg.GetComponentDir(), "rustc", "bin", "rustc"), 300)

	freed, err = CleanDownloads(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if freed != 100 {
		t.Errorf("expected 100 bytes freed, got %d", freed)
	}
	if size, _ := DirSize(cfg.GetDownloadDir()); size != 0 {
		t.Errorf("download dir not emptied")
	}
	if _, err := os.Stat(cfg.GetDownloadDir()); err != nil {
		t.Errorf("download dir should be recreated: %v", err)
	}
	if size, _ := DirSize(cfg.GetComponentDir()); size != 300 {
		t.Errorf("components must be kept")
	}
}
