package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rzajanckauskas/voice-web/internal/metrics"
)

// Local implements Backend on top of the local filesystem. All keys resolve
// relative to the configured root directory.
//
// Put writes to a temporary file next to the destination and renames it into
// place, so readers only ever see complete objects and an aborted upload
// leaves nothing at the destination key.
type Local struct {
	root          string
	streamBaseURL string
}

// NewLocal creates a Local store rooted at dir. The directory is created
// (with parents) if it does not already exist. streamBaseURL is the external
// base URL of the streaming endpoint, used to build playback URLs.
func NewLocal(dir, streamBaseURL string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Local{root: abs, streamBaseURL: strings.TrimRight(streamBaseURL, "/")}, nil
}

// resolve turns a storage key into an absolute filesystem path, rejecting
// keys that escape the root.
func (l *Local) resolve(key string) (string, error) {
	full := filepath.Join(l.root, filepath.FromSlash(key))
	if full != l.root && !strings.HasPrefix(full, l.root+string(filepath.Separator)) {
		return "", fmt.Errorf("storage: key %q escapes store root: %w", key, fs.ErrInvalid)
	}
	return full, nil
}

func (l *Local) Put(ctx context.Context, key string, r io.Reader) error {
	defer observe("put", time.Now())

	full, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), "."+filepath.Base(full)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := copyContext(ctx, tmp, r); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), full)
}

func (l *Local) Open(_ context.Context, key string, rng *ByteRange) (io.ReadCloser, int64, error) {
	defer observe("open", time.Now())

	full, err := l.resolve(key)
	if err != nil {
		return nil, 0, err
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, 0, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	size := info.Size()

	if rng == nil {
		return f, size, nil
	}

	if _, err := f.Seek(rng.Start, io.SeekStart); err != nil {
		f.Close()
		return nil, 0, err
	}

	end := rng.End
	if end < 0 || end >= size {
		end = size - 1
	}
	return &limitedFile{Reader: io.LimitReader(f, end-rng.Start+1), f: f}, size, nil
}

func (l *Local) Exists(_ context.Context, key string) (bool, error) {
	full, err := l.resolve(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (l *Local) Delete(_ context.Context, key string) error {
	defer observe("delete", time.Now())

	full, err := l.resolve(key)
	if err != nil {
		return err
	}
	err = os.Remove(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (l *Local) Size(_ context.Context, key string) (int64, error) {
	full, err := l.resolve(key)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(full)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// PublicURL points playback clients at the internal streaming endpoint,
// which serves local objects with byte-range support.
func (l *Local) PublicURL(_ context.Context, key string) (string, error) {
	return l.streamBaseURL + "/stream?file=" + url.QueryEscape(key), nil
}

// limitedFile couples a range-limited reader with the underlying file handle
// so Close releases the handle.
type limitedFile struct {
	io.Reader
	f *os.File
}

func (r *limitedFile) Close() error { return r.f.Close() }

// copyContext copies src to dst, aborting between chunks once ctx is done so
// a disconnected upload does not keep writing.
func copyContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	var written int64
	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, err := src.Read(buf)
		if n > 0 {
			w, werr := dst.Write(buf[:n])
			written += int64(w)
			if werr != nil {
				return written, werr
			}
		}
		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, err
		}
	}
}

func observe(op string, start time.Time) {
	metrics.StorageOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Compile-time interface check.
var _ Backend = (*Local)(nil)
