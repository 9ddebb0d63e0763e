package common

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const FILE_SCHEME = "file:///"

var driveLetter = regexp.MustCompile(`^[A-Za-z]:`)

// InstallerSource turns an installer location into a download source.
// http(s) URLs pass through, anything else is treated as a local path.
func InstallerSource(installer string) string {
	if strings.HasPrefix(installer, "http") {
		return installer
	}
	return FILE_SCHEME + installer
}

// localPath is the inverse of InstallerSource for file:/// sources
func localPath(source string) string {
	rest := strings.TrimPrefix(source, FILE_SCHEME)
	if driveLetter.MatchString(rest) || strings.HasPrefix(rest, `\\`) {
		return rest
	}
	return "/" + strings.TrimLeft(rest, "/")
}

// Downloader fetches installer artifacts into the local cache
type Downloader struct {
	Fs      afero.Fs
	RClient *resty.Client
	Logger  *logrus.Logger
}

func NewDownloader(fs afero.Fs, logger *logrus.Logger) *Downloader {
	rClient := resty.New()
	rClient.SetCloseConnection(true)
	rClient.SetTimeout(DOWNLOAD_TIMEOUT * time.Minute)
	rClient.SetDebug(logger.IsLevelEnabled(logrus.DebugLevel))

	return &Downloader{
		Fs:      fs,
		RClient: rClient,
		Logger:  logger,
	}
}

// Download copies source to dest. A mode of 0 leaves the default permissions.
func (d *Downloader) Download(ctx context.Context, source, dest string, mode os.FileMode) error {
	if err := d.Fs.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("could not create cache directory: %w", err)
	}

	var err error
	if strings.HasPrefix(source, FILE_SCHEME) {
		err = d.copyLocal(localPath(source), dest)
	} else {
		err = d.fetch(ctx, source, dest)
	}
	if err != nil {
		return err
	}

	if mode != 0 {
		if err := d.Fs.Chmod(dest, mode); err != nil {
			return fmt.Errorf("could not set mode on %s: %w", dest, err)
		}
	}
	return nil
}

func (d *Downloader) copyLocal(src, dest string) error {
	d.Logger.Debugln("Copying installer from", src)

	in, err := d.Fs.Open(src)
	if err != nil {
		return fmt.Errorf("could not open installer: %w", err)
	}
	defer in.Close()

	return d.writeFile(dest, in)
}

func (d *Downloader) fetch(ctx context.Context, url, dest string) error {
	d.Logger.Debugln("Downloading installer from", url)

	r, err := d.RClient.R().SetContext(ctx).SetDoNotParseResponse(true).Get(url)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	body := r.RawBody()
	defer body.Close()

	if r.IsError() {
		return fmt.Errorf("download failed with status code %d", r.StatusCode())
	}

	return d.writeFile(dest, body)
}

func (d *Downloader) writeFile(dest string, src io.Reader) error {
	out, err := d.Fs.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", dest, err)
	}

	_, err = io.Copy(out, src)
	// Close without defer so the write error wins
	cerr := out.Close()
	if err != nil {
		return fmt.Errorf("could not write %s: %w", dest, err)
	}
	return cerr
}
