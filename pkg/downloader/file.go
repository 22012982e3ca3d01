package downloader

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"

	"toolup/pkg/notify"
)

// Immutable
type fileHandler struct{}

// NewFileHandler returns a handler that reads file:// URIs from the local
// filesystem, e.g. for mirrors on a mounted volume.
func NewFileHandler() SchemeHandler {
	return fileHandler{}
}

func (fileHandler) Schemes() []string {
	return []string{"file"}
}

func (fileHandler) Download(ctx context.Context, uri string, w io.Writer, n notify.Handler) error {
	u, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("invalid uri: %w", err)
	}

	f, err := os.Open(u.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", u.Path)
	}

	return transfer(uri, info.Size(), &ctxReader{ctx: ctx, r: f}, w, n)
}

// ctxReader stops reading once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
