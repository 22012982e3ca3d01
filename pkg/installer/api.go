// Package installer places components on the host filesystem.
// It manages the download, extraction and receipt bookkeeping of component
// archives, reporting progress as notifications.
package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"toolup/pkg/config"
	"toolup/pkg/manifest"
)

// Plan contains everything needed to install one component.
type Plan struct {
	// Component is the manifest entry being installed.
	Component manifest.Component
	// DownloadPath is where the archive is cached on the host.
	DownloadPath string
	// InstallPath is the final destination directory for the component.
	InstallPath string
}

// Stage is a single step in the installation pipeline.
type Stage func(ctx context.Context, plan *Plan, env *Env) error

// NewPlan computes the filesystem paths for installing c.
func NewPlan(cfg config.ReadOnly, c manifest.Component) (*Plan, error) {
	if err := os.MkdirAll(cfg.GetDownloadDir(), 0755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.GetComponentDir(), 0755); err != nil {
		return nil, err
	}

	folder := c.Name
	if c.Version != "" {
		folder = fmt.Sprintf("%s-%s", c.Name, c.Version)
	}

	return &Plan{
		Component:    c,
		DownloadPath: filepath.Join(cfg.GetDownloadDir(), c.FileName()),
		InstallPath:  filepath.Join(cfg.GetComponentDir(), folder),
	}, nil
}

// NewPlans resolves the named components against m.
func NewPlans(cfg config.ReadOnly, m *manifest.Manifest, names []string) ([]*Plan, error) {
	plans := make([]*Plan, 0, len(names))
	for _, name := range names {
		c, ok := m.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown component: %s", name)
		}
		p, err := NewPlan(cfg, c)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}
