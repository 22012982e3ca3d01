// Package downloader provides a modular system for retrieving remote resources.
// It supports multiple schemes (HTTP, HTTPS, file) and reports progress as
// notifications keyed by the resource URI.
package downloader

import (
	"context"
	"io"

	"toolup/pkg/notify"
)

// Downloader manages the retrieval of resources from various URIs.
type Downloader interface {
	// Download retrieves the resource at the specified URI and writes it to w.
	// Progress is reported to h as ContentLength, Data and Finished
	// notifications whose File is uri.
	Download(ctx context.Context, uri string, w io.Writer, h notify.Handler) error
}

// SchemeHandler defines the interface for handling specific URI schemes (e.g., "http://").
type SchemeHandler interface {
	// Download executes the download for a URI supported by this handler.
	Download(ctx context.Context, uri string, w io.Writer, h notify.Handler) error
	// Schemes returns the list of URI schemes (e.g., ["http", "https"]) this handler can process.
	Schemes() []string
}
