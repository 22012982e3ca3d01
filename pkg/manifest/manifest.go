// Package manifest describes the components toolup can install.
//
// A manifest is a YAML (or JSON) document:
//
//	components:
//	  - name: rustc
//	    version: 1.80.0
//	    url: https://dist.example.com/rustc-1.80.0-x86_64.tar.gz
//	  - name: cargo
//	    url: https://dist.example.com/cargo-1.80.0-x86_64.tar.zst
//	    filename: cargo.tar.zst
package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"

	"gopkg.in/yaml.v3"

	"toolup/pkg/downloader"
)

// Component is an installable unit of content.
type Component struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version,omitempty"`
	URL     string `yaml:"url"`
	// Filename overrides the name of the downloaded file.
	Filename string `yaml:"filename,omitempty"`
}

// FileName returns the name the component archive is stored under.
func (c Component) FileName() string {
	if c.Filename != "" {
		return c.Filename
	}
	if u, err := url.Parse(c.URL); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" {
			return base
		}
	}
	return c.Name + ".bin"
}

// Manifest is a list of components.
// Immutable
type Manifest struct {
	Components []Component `yaml:"components"`
}

// Parse decodes and validates a manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	seen := make(map[string]bool, len(m.Components))
	var errs []error
	for i, c := range m.Components {
		switch {
		case c.Name == "":
			errs = append(errs, fmt.Errorf("component %d: missing name", i))
		case c.URL == "":
			errs = append(errs, fmt.Errorf("component %s: missing url", c.Name))
		case seen[c.Name]:
			errs = append(errs, fmt.Errorf("component %s: duplicate name", c.Name))
		}
		seen[c.Name] = true
	}
	return errors.Join(errs...)
}

// Lookup returns the component with the given name.
func (m *Manifest) Lookup(name string) (Component, bool) {
	for _, c := range m.Components {
		if c.Name == name {
			return c, true
		}
	}
	return Component{}, false
}

// Load reads a manifest from a local path or a URL.
func Load(ctx context.Context, source string) (*Manifest, error) {
	if source == "" {
		return nil, errors.New("no manifest configured")
	}

	u, err := url.Parse(source)
	if err != nil || u.Scheme == "" {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest: %w", err)
		}
		return Parse(data)
	}

	var buf bytes.Buffer
	if err := downloader.NewDefaultDownloader().Download(ctx, source, &buf, nil); err != nil {
		return nil, fmt.Errorf("failed to fetch manifest: %w", err)
	}
	return Parse(buf.Bytes())
}
