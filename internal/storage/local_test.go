package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	l, err := NewLocal(t.TempDir(), "http://localhost:9000")
	require.NoError(t, err)
	return l
}

func TestLocal_PutAndOpen(t *testing.T) {
	l := newTestLocal(t)
	ctx := context.Background()

	require.NoError(t, l.Put(ctx, "c1/s1.wav", strings.NewReader("hello audio")))

	rc, size, err := l.Open(ctx, "c1/s1.wav", nil)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello audio", string(data))
	assert.Equal(t, int64(len("hello audio")), size)
}

func TestLocal_PutOverwritesFully(t *testing.T) {
	l := newTestLocal(t)
	ctx := context.Background()

	require.NoError(t, l.Put(ctx, "c1/s1.wav", strings.NewReader("first version, quite long")))
	require.NoError(t, l.Put(ctx, "c1/s1.wav", strings.NewReader("second")))

	rc, size, err := l.Open(ctx, "c1/s1.wav", nil)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.Equal(t, int64(6), size)
}

func TestLocal_PutLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, "http://localhost:9000")
	require.NoError(t, err)

	require.NoError(t, l.Put(context.Background(), "c1/s1.wav", strings.NewReader("data")))

	entries, err := os.ReadDir(filepath.Join(dir, "c1"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "s1.wav", entries[0].Name())
}

func TestLocal_PutAbortedLeavesNoObject(t *testing.T) {
	l := newTestLocal(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Put(ctx, "c1/s1.wav", strings.NewReader("data"))
	require.Error(t, err)

	exists, err := l.Exists(context.Background(), "c1/s1.wav")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocal_OpenRange(t *testing.T) {
	l := newTestLocal(t)
	ctx := context.Background()

	content := "0123456789"
	require.NoError(t, l.Put(ctx, "c1/s1.wav", strings.NewReader(content)))

	tests := []struct {
		name string
		rng  ByteRange
		want string
	}{
		{"middle span", ByteRange{Start: 2, End: 5}, "2345"},
		{"open end", ByteRange{Start: 7, End: -1}, "789"},
		{"end past size clamps", ByteRange{Start: 8, End: 100}, "89"},
		{"single byte", ByteRange{Start: 0, End: 0}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, size, err := l.Open(ctx, "c1/s1.wav", &tt.rng)
			require.NoError(t, err)
			defer rc.Close()

			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
			assert.Equal(t, int64(len(content)), size)
		})
	}
}

func TestLocal_OpenMissing(t *testing.T) {
	l := newTestLocal(t)

	_, _, err := l.Open(context.Background(), "nope/missing.wav", nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLocal_DeleteIsIdempotent(t *testing.T) {
	l := newTestLocal(t)
	ctx := context.Background()

	require.NoError(t, l.Put(ctx, "c1/s1.wav", strings.NewReader("data")))
	require.NoError(t, l.Delete(ctx, "c1/s1.wav"))
	require.NoError(t, l.Delete(ctx, "c1/s1.wav"))

	exists, err := l.Exists(ctx, "c1/s1.wav")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocal_Size(t *testing.T) {
	l := newTestLocal(t)
	ctx := context.Background()

	require.NoError(t, l.Put(ctx, "c1/s1.wav", strings.NewReader("12345")))

	size, err := l.Size(ctx, "c1/s1.wav")
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)
}

func TestLocal_RejectsEscapingKeys(t *testing.T) {
	l := newTestLocal(t)
	ctx := context.Background()

	err := l.Put(ctx, "../outside.wav", strings.NewReader("data"))
	assert.Error(t, err)

	_, _, err = l.Open(ctx, "../../etc/passwd", nil)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, os.ErrNotExist)
}

func TestLocal_PublicURL(t *testing.T) {
	l := newTestLocal(t)

	u, err := l.PublicURL(context.Background(), "c1/s1.wav")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/stream?file=c1%2Fs1.wav", u)
}
