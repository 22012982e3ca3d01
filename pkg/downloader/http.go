package downloader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"toolup/pkg/notify"
)

// Immutable
type httpHandler struct {
	client *http.Client
}

func NewHTTPHandler() SchemeHandler {
	return &httpHandler{
		client: &http.Client{
			Timeout: 0, // Handled by context
		},
	}
}

func (h *httpHandler) Schemes() []string {
	return []string{"http", "https"}
}

func (h *httpHandler) Download(ctx context.Context, uri string, w io.Writer, n notify.Handler) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	slog.Debug("Response received", "url", uri, "length", resp.ContentLength)
	return transfer(uri, resp.ContentLength, resp.Body, w, n)
}

// transfer copies r to w, reporting progress for uri. A negative size means
// the length is unknown and no ContentLength notification is sent.
func transfer(uri string, size int64, r io.Reader, w io.Writer, n notify.Handler) error {
	if size >= 0 {
		n.HandleNotification(notify.ContentLength(size, uri))
	}

	pw := &progressWriter{uri: uri, handler: n}
	if _, err := io.Copy(io.MultiWriter(w, pw), r); err != nil {
		return err
	}

	n.HandleNotification(notify.Finished(uri))
	return nil
}

// Mutable
type progressWriter struct {
	uri     string
	handler notify.Handler
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	pw.handler.HandleNotification(notify.Data(len(p), pw.uri))
	return len(p), nil
}
