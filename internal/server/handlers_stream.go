package server

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"regexp"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "github.com/rzajanckauskas/voice-web/internal/errors"
	"github.com/rzajanckauskas/voice-web/internal/metrics"
	"github.com/rzajanckauskas/voice-web/internal/storage"
)

// Upstream players send single-range requests only, so multi-range and
// suffix forms are treated as absent and answered with the full object.
var rangePattern = regexp.MustCompile(`^bytes=(\d+)-(\d*)$`)

// parseRange interprets a Range header. It returns nil when the header is
// missing or not a well-formed single byte range.
func parseRange(header string) *storage.ByteRange {
	m := rangePattern.FindStringSubmatch(header)
	if m == nil {
		return nil
	}

	start, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil
	}

	end := int64(-1)
	if m[2] != "" {
		end, err = strconv.ParseInt(m[2], 10, 64)
		if err != nil || end < start {
			return nil
		}
	}
	return &storage.ByteRange{Start: start, End: end}
}

// handleStream serves stored audio, honouring single byte-range requests
// with partial content responses so players can seek.
func (s *Server) handleStream(c echo.Context) error {
	key := c.QueryParam("file")
	if key == "" {
		return apperrors.ValidationError("missing file parameter").WithField("file", "cannot be empty")
	}

	ctx := c.Request().Context()
	rng := parseRange(c.Request().Header.Get("Range"))

	if rng != nil {
		total, err := s.store.Size(ctx, key)
		if err != nil {
			return streamError(err)
		}
		// An unsatisfiable or over-long range degrades to the full object,
		// mirroring how malformed headers are handled.
		if rng.Start >= total {
			rng = nil
		} else if rng.End < 0 || rng.End >= total {
			rng.End = total - 1
		}
	}

	rc, total, err := s.store.Open(ctx, key, rng)
	if err != nil {
		return streamError(err)
	}
	defer rc.Close()

	h := c.Response().Header()
	h.Set("Accept-Ranges", "bytes")
	h.Set(echo.HeaderContentType, "audio/*")

	status := http.StatusOK
	length := total
	if rng != nil {
		status = http.StatusPartialContent
		length = rng.End - rng.Start + 1
		h.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", rng.Start, rng.End, total))
		metrics.StreamRequestsTotal.WithLabelValues("partial").Inc()
	} else {
		metrics.StreamRequestsTotal.WithLabelValues("full").Inc()
	}
	h.Set(echo.HeaderContentLength, strconv.FormatInt(length, 10))

	c.Response().WriteHeader(status)
	n, _ := io.Copy(c.Response(), rc)
	metrics.StreamedBytesTotal.Add(float64(n))
	return nil
}

func streamError(err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		metrics.StreamRequestsTotal.WithLabelValues("not_found").Inc()
		return apperrors.NotFoundError("file not found")
	case errors.Is(err, fs.ErrInvalid):
		return apperrors.ValidationError("invalid file parameter").WithField("file", "must not escape the storage root")
	default:
		return apperrors.ExternalError("storage read failed", err)
	}
}
