// Package download materializes remote tool artifacts on the local
// filesystem. A file that is already present is accepted as fresh when
// its last-modified time and size match the remote metadata, so repeated
// builds avoid re-transferring tool jars. The cache key is filesystem
// metadata, not a content hash.
package download

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/karussell/bach/pkg/errors"
	"github.com/karussell/bach/pkg/logging"
)

// SkipPredicate decides whether an existing, metadata-fresh file may be
// reused. The default accepts every path.
type SkipPredicate func(targetPath string) bool

// Options contains configuration for the downloader
type Options struct {
	// FS receives the downloaded files. Defaults to the OS filesystem.
	FS afero.Fs

	// Client performs the HTTP requests. Defaults to http.DefaultClient.
	Client *http.Client

	// Logger defaults to a component logger on the global sink when nil
	Logger *zerolog.Logger
}

// Downloader fetches artifacts with metadata-based cache validation
type Downloader struct {
	fs     afero.Fs
	client *http.Client
	logger zerolog.Logger
}

// New creates a downloader
func New(opts Options) *Downloader {
	logger := opts.Logger
	if logger == nil {
		l := logging.GetLogger("download")
		logger = &l
	}

	fs := opts.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}

	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}

	return &Downloader{fs: fs, client: client, logger: *logger}
}

// Fetch downloads the resource into targetDirectory under its URI file
// name, reusing a fresh cached copy.
func (d *Downloader) Fetch(ctx context.Context, rawURI, targetDirectory string) (string, error) {
	fileName, err := FileNameFromURI(rawURI)
	if err != nil {
		return "", err
	}
	return d.FetchFile(ctx, rawURI, targetDirectory, fileName, nil)
}

// FetchFile downloads the resource into targetDirectory under the given
// file name. An existing file is returned unchanged only if its
// last-modified time equals the remote's, its size equals the remote
// content length, and the skip predicate accepts it; otherwise the stale
// file is deleted and the body re-transferred. After a transfer the
// local modification time is set to the remote's so the next fetch can
// validate freshness without downloading.
func (d *Downloader) FetchFile(ctx context.Context, rawURI, targetDirectory, targetFileName string, skip SkipPredicate) (string, error) {
	if skip == nil {
		skip = func(string) bool { return true }
	}

	if err := d.fs.MkdirAll(targetDirectory, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "creating %q failed", targetDirectory)
	}
	targetPath := filepath.Join(targetDirectory, targetFileName)

	meta, err := d.head(ctx, rawURI)
	if err != nil {
		return "", err
	}

	if info, statErr := d.fs.Stat(targetPath); statErr == nil {
		if info.ModTime().Equal(meta.lastModified) && info.Size() == meta.contentLength && skip(targetPath) {
			d.logger.Debug().Str("path", targetPath).Msg("Download skipped, cached copy is fresh")
			return targetPath, nil
		}
		if err := d.fs.Remove(targetPath); err != nil {
			return "", errors.Wrapf(err, errors.ErrDownload, "removing stale %q failed", targetPath)
		}
	}

	d.logger.Debug().Str("uri", rawURI).Msg("Download in progress")
	if err := d.transfer(ctx, rawURI, targetPath); err != nil {
		return "", err
	}
	if err := d.fs.Chtimes(targetPath, meta.lastModified, meta.lastModified); err != nil {
		return "", errors.Wrapf(err, errors.ErrDownload, "setting timestamp on %q failed", targetPath)
	}

	d.logger.Info().
		Str("path", targetPath).
		Time("lastModified", meta.lastModified).
		Msg("Stored artifact")
	return targetPath, nil
}

type remoteMeta struct {
	lastModified  time.Time
	contentLength int64
}

// head probes the remote metadata without transferring the body
func (d *Downloader) head(ctx context.Context, rawURI string) (remoteMeta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURI, nil)
	if err != nil {
		return remoteMeta{}, errors.Wrapf(err, errors.ErrDownload, "invalid uri %q", rawURI)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return remoteMeta{}, errors.Wrapf(err, errors.ErrDownload, "probing %q failed", rawURI)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return remoteMeta{}, errors.Newf(errors.ErrDownload, "probing %q failed with status %s", rawURI, resp.Status)
	}

	lastModified, err := http.ParseTime(resp.Header.Get("Last-Modified"))
	if err != nil {
		// A missing or malformed timestamp disables caching for this
		// resource; the zero time never matches a real file.
		lastModified = time.Time{}
	}
	return remoteMeta{lastModified: lastModified, contentLength: resp.ContentLength}, nil
}

// transfer streams the remote body to the target path
func (d *Downloader) transfer(ctx context.Context, rawURI, targetPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURI, nil)
	if err != nil {
		return errors.Wrapf(err, errors.ErrDownload, "invalid uri %q", rawURI)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, errors.ErrDownload, "fetching %q failed", rawURI)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf(errors.ErrDownload, "fetching %q failed with status %s", rawURI, resp.Status)
	}

	file, err := d.fs.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, errors.ErrDownload, "creating %q failed", targetPath)
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		_ = file.Close()
		return errors.Wrapf(err, errors.ErrDownload, "writing %q failed", targetPath)
	}
	if err := file.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrDownload, "closing %q failed", targetPath)
	}
	return nil
}

// FileNameFromURI extracts the target file name from the URI: the last
// path segment, stripped of query and fragment.
func FileNameFromURI(rawURI string) (string, error) {
	parsed, err := url.Parse(rawURI)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrDownload, "invalid uri %q", rawURI)
	}
	name := path.Base(parsed.Path)
	name = strings.SplitN(name, "?", 2)[0]
	name = strings.SplitN(name, "#", 2)[0]
	if name == "" || name == "." || name == "/" {
		return "", errors.Newf(errors.ErrDownload, "cannot derive file name from %q", rawURI)
	}
	return name, nil
}
