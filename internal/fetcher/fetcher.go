// Package fetcher stages render inputs. PDFs and background clips can be
// local paths or http/ftp URLs; remote inputs are downloaded into the run's
// scratch directory before the pipeline opens them.
package fetcher

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Cytla24/poemtok/internal/config"
)

// Fetcher downloads one URL.
type Fetcher interface {
	Download(ctx context.Context, rawURL string) (io.ReadCloser, error)
	DownloadToFile(ctx context.Context, rawURL string, path string) (int64, error)
}

// Stager routes inputs by scheme and stages remote ones locally.
type Stager struct {
	http *HTTPFetcher
	ftp  *FTPFetcher
}

// NewStager builds a stager from fetch configuration.
func NewStager(cfg config.FetchConfig) *Stager {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	return &Stager{
		http: NewHTTPFetcher(HTTPOptions{
			UserAgent:  cfg.UserAgent,
			Timeout:    timeout,
			MaxRetries: cfg.MaxRetries,
			RatePerSec: cfg.RatePerSec,
		}),
		ftp: NewFTPFetcher(timeout),
	}
}

// Stage makes rawInput available as a local file and returns its path. Local
// paths are returned unchanged after an existence check; remote URLs are
// downloaded into scratchDir.
func (s *Stager) Stage(ctx context.Context, rawInput, scratchDir string) (string, error) {
	u, err := url.Parse(rawInput)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// No scheme (or a Windows drive letter): treat as a local path.
		if _, statErr := os.Stat(rawInput); statErr != nil {
			return "", eris.Wrapf(statErr, "fetcher: input %s", rawInput)
		}
		return rawInput, nil
	}

	var f Fetcher
	switch u.Scheme {
	case "http", "https":
		f = s.http
	case "ftp":
		f = s.ftp
	case "file":
		if _, statErr := os.Stat(u.Path); statErr != nil {
			return "", eris.Wrapf(statErr, "fetcher: input %s", u.Path)
		}
		return u.Path, nil
	default:
		return "", eris.Errorf("fetcher: unsupported scheme %q", u.Scheme)
	}

	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		name = "input"
	}
	dest := filepath.Join(scratchDir, name)

	zap.L().Info("staging remote input",
		zap.String("url", rawInput),
		zap.String("dest", dest),
	)

	n, err := f.DownloadToFile(ctx, rawInput, dest)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: stage %s", rawInput)
	}
	if n == 0 {
		return "", eris.Errorf("fetcher: %s downloaded empty", rawInput)
	}
	return dest, nil
}
