package jmhbench

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/browser"
	log "github.com/sirupsen/logrus"
)

// SaveFile writes the chart to path in the format named by its extension:
// .html for the interactive page, .json for the chart model, anything else
// is handed to gonum/plot.
func (c *Chart) SaveFile(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		var buf bytes.Buffer
		if err := c.WriteHTML(&buf); err != nil {
			return err
		}
		return os.WriteFile(path, buf.Bytes(), 0o644)
	case ".json":
		return WriteJSONFile(path, c)
	}
	return c.SaveImage(path)
}

// Present shows the chart. With an Output configured it is written there, otherwise
// the interactive page is served on cfg.Addr until ctx is cancelled.
func Present(ctx context.Context, c *Chart, cfg Config) error {
	if cfg.Output != "" {
		if err := c.SaveFile(cfg.Output); err != nil {
			return fmt.Errorf("%w: %w", ErrDisplayUnavailable, err)
		}
		log.WithField("output", cfg.Output).Info("chart written")
		return nil
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDisplayUnavailable, err)
	}
	if cfg.OpenBrowser {
		url := "http://" + ln.Addr().String() + "/"
		if err := openURL(url); err != nil {
			log.WithError(err).WithField("url", url).Warn("could not open a browser")
		}
	}
	return Serve(ctx, ln, c)
}

// openURL is replaced in tests.
var openURL = browser.OpenURL

// Serve answers every request on ln with the chart page and returns once ctx is done.
func Serve(ctx context.Context, ln net.Listener, c *Chart) error {
	var page bytes.Buffer
	if err := c.WriteHTML(&page); err != nil {
		ln.Close()
		return err
	}

	srv := &http.Server{
		Handler:           pageHandler(page.Bytes()),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	log.WithField("url", "http://"+ln.Addr().String()+"/").Info("serving chart, interrupt to stop")

	select {
	case err := <-errc:
		return fmt.Errorf("%w: %w", ErrDisplayUnavailable, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func pageHandler(page []byte) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	})
}
