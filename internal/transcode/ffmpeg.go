package transcode

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"golang.org/x/sync/semaphore"

	"github.com/rzajanckauskas/voice-web/internal/metrics"
)

const (
	// CanonicalExt is the file extension of the canonical container.
	CanonicalExt = ".wav"
	// CanonicalContentType is the MIME type of transcoded clips.
	CanonicalContentType = "audio/wav"

	canonicalRate     = "16000"
	canonicalChannels = "1"
	canonicalCodec    = "pcm_s16le"

	// stderr is captured only up to this many bytes for error reporting.
	maxStderrBytes = 4 << 10
)

// Error is a codec failure. It wraps the process error and carries an
// excerpt of ffmpeg's stderr for diagnosis.
type Error struct {
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("transcode failed: %v: %s", e.Err, e.Stderr)
	}
	return fmt.Sprintf("transcode failed: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// FFmpeg converts audio streams by piping them through an ffmpeg process.
// The zero value is not usable; construct with NewFFmpeg.
type FFmpeg struct {
	bin  string
	pool *semaphore.Weighted
}

// NewFFmpeg creates a transcoder using the given ffmpeg binary, allowing at
// most workers concurrent processes.
func NewFFmpeg(bin string, workers int) *FFmpeg {
	return &FFmpeg{bin: bin, pool: semaphore.NewWeighted(int64(workers))}
}

// args builds the ffmpeg invocation: read any input format from stdin,
// write canonical WAV to stdout.
func (f *FFmpeg) args() []string {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-ac", canonicalChannels,
		"-ar", canonicalRate,
		"-c:a", canonicalCodec,
		// bitexact keeps ffmpeg from appending a LIST metadata chunk, so the
		// output is a plain RIFF/fmt/data container.
		"-bitexact",
		"-f", "wav",
		"pipe:1",
	}
}

// To transcodes src into dst and reports the number of canonical bytes
// written. This is the push-style entry point: the caller gets a single
// two-outcome completion, bytes written or a failure.
//
// The ffmpeg process is killed when ctx is cancelled, so a disconnected
// uploader does not leave a codec process running.
func (f *FFmpeg) To(ctx context.Context, src io.Reader, dst io.Writer) (int64, error) {
	if err := f.pool.Acquire(ctx, 1); err != nil {
		return 0, err
	}
	defer f.pool.Release(1)

	metrics.TranscodeInFlight.Inc()
	defer metrics.TranscodeInFlight.Dec()

	cmd := exec.CommandContext(ctx, f.bin, f.args()...)
	cmd.Stdin = src

	var stderr bytes.Buffer
	cmd.Stderr = &limitedWriter{w: &stderr, n: maxStderrBytes}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("transcode: stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		metrics.TranscodeFailures.Inc()
		return 0, &Error{Err: err}
	}

	written, copyErr := io.Copy(dst, stdout)
	waitErr := cmd.Wait()

	if waitErr != nil {
		metrics.TranscodeFailures.Inc()
		return written, &Error{Err: waitErr, Stderr: strings.TrimSpace(stderr.String())}
	}
	if copyErr != nil {
		metrics.TranscodeFailures.Inc()
		return written, &Error{Err: copyErr}
	}
	return written, nil
}

// Reader is the pull-style entry point: it returns a stream of canonical
// audio transcoded from src. Codec failures surface on Read as *Error.
// The caller must close the returned reader.
func (f *FFmpeg) Reader(ctx context.Context, src io.Reader) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		_, err := f.To(ctx, src, pw)
		pw.CloseWithError(err)
	}()
	return pr
}

// limitedWriter keeps the first n bytes and silently drops the rest, so a
// chatty ffmpeg cannot grow the stderr buffer without bound.
type limitedWriter struct {
	w *bytes.Buffer
	n int
}

func (l *limitedWriter) Write(p []byte) (int, error) {
	if remaining := l.n - l.w.Len(); remaining > 0 {
		if len(p) > remaining {
			l.w.Write(p[:remaining])
		} else {
			l.w.Write(p)
		}
	}
	return len(p), nil
}
