package installer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"toolup/pkg/archive"
	"toolup/pkg/cache"
	"toolup/pkg/downloader"
	"toolup/pkg/notify"
	"toolup/pkg/receipts"
	"toolup/pkg/tracker"
)

// Env is what the stages share across a run.
type Env struct {
	Downloader downloader.Downloader
	Receipts   *receipts.Store
	Handler    notify.Handler

	entries int
}

func (e *Env) handler() notify.Handler {
	if e.Handler == nil {
		return notify.Discard
	}
	return e.Handler
}

func (e *Env) downloader() downloader.Downloader {
	if e.Downloader == nil {
		return downloader.NewDefaultDownloader()
	}
	return e.Downloader
}

// DownloadStage retrieves the component archive, unless it is already in
// the download cache.
func DownloadStage(ctx context.Context, plan *Plan, env *Env) error {
	h := env.handler()
	return cache.Ensure(ctx, plan.DownloadPath, func() error {
		slog.Debug("Downloading component", "url", plan.Component.URL, "path", plan.DownloadPath)
		h.HandleNotification(notify.Started(plan.Component.Name))

		part := plan.DownloadPath + ".part"
		f, err := os.Create(part)
		if err != nil {
			return err
		}
		defer os.Remove(part)

		if err := env.downloader().Download(ctx, plan.Component.URL, f, h); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		return os.Rename(part, plan.DownloadPath)
	})
}

// ExtractStage unpacks the archive into the installation directory. Files
// that are not archives are copied as-is. Extraction happens in a temporary
// directory that is renamed into place.
func ExtractStage(ctx context.Context, plan *Plan, env *Env) error {
	h := env.handler()
	return cache.Ensure(ctx, plan.InstallPath, func() error {
		h.HandleNotification(notify.Extract(plan.Component.Name, plan.DownloadPath))

		tmpDir := plan.InstallPath + ".tmp"
		if err := os.RemoveAll(tmpDir); err != nil {
			return err
		}
		if err := os.MkdirAll(tmpDir, 0755); err != nil {
			return err
		}
		defer os.RemoveAll(tmpDir)

		var err error
		if archive.IsSupported(plan.DownloadPath) {
			env.entries, err = archive.Extract(plan.DownloadPath, tmpDir, h)
		} else {
			env.entries, err = 1, copyFile(plan.DownloadPath, filepath.Join(tmpDir, filepath.Base(plan.DownloadPath)))
		}
		if err != nil {
			return err
		}

		return os.Rename(tmpDir, plan.InstallPath)
	})
}

// ReceiptStage records the installed component.
func ReceiptStage(ctx context.Context, plan *Plan, env *Env) error {
	if env.Receipts == nil {
		return nil
	}
	_, err := env.Receipts.Record(receipts.Receipt{
		Name:    plan.Component.Name,
		Version: plan.Component.Version,
		URL:     plan.Component.URL,
		Path:    plan.InstallPath,
		Entries: env.entries,
	})
	return err
}

var stages = []struct {
	name  string
	stage Stage
}{
	{"download", DownloadStage},
	{"extract", ExtractStage},
	{"receipt", ReceiptStage},
}

// Install runs all stages for plan. A component whose installation
// directory already exists is reported as skipped.
func Install(ctx context.Context, plan *Plan, env *Env) error {
	h := env.handler()
	if _, err := os.Stat(plan.InstallPath); err == nil {
		slog.Debug("Component already installed", "path", plan.InstallPath)
		h.HandleNotification(notify.Skip(plan.Component.Name, plan.InstallPath))
		return nil
	}

	// Stages record per-run state on env, so each plan gets its own copy.
	run := *env
	for _, s := range stages {
		if err := s.stage(ctx, plan, &run); err != nil {
			return fmt.Errorf("%s: %s stage failed: %w", plan.Component.Name, s.name, err)
		}
	}

	h.HandleNotification(notify.Install(plan.Component.Name, plan.InstallPath))
	return nil
}

// InstallAll installs plans using at most jobs concurrent workers. With
// more than one worker, notifications are serialised through a
// tracker.Queue so env.Handler only ever sees one goroutine.
func InstallAll(ctx context.Context, plans []*Plan, jobs int, env *Env) error {
	if jobs <= 1 || len(plans) <= 1 {
		for _, p := range plans {
			if err := Install(ctx, p, env); err != nil {
				return err
			}
		}
		return nil
	}

	q := tracker.NewQueue(env.handler())
	defer q.Close()

	shared := *env
	shared.Handler = q

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, p := range plans {
		g.Go(func() error {
			return Install(ctx, p, &shared)
		})
	}
	return g.Wait()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
