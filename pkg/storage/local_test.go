package storage

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDisk(t *testing.T) *localDisk {
	t.Helper()
	return &localDisk{root: t.TempDir(), baseURL: "http://localhost:8080/static"}
}

func TestLocalDiskRoundTrip(t *testing.T) {
	d := testDisk(t)

	require.NoError(t, d.Put("products/7/image.png", []byte("png-bytes")))
	assert.True(t, d.Exists("products/7/image.png"))

	data, err := d.Get("products/7/image.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	rc, err := d.GetStream("products/7/image.png")
	require.NoError(t, err)
	streamed, err := io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, []byte("png-bytes"), streamed)

	require.NoError(t, d.Delete("products/7/image.png"))
	assert.False(t, d.Exists("products/7/image.png"))
}

func TestLocalDiskPutStream(t *testing.T) {
	d := testDisk(t)

	require.NoError(t, d.PutStream("a/b.txt", bytes.NewReader([]byte("streamed"))))
	data, err := d.Get("a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("streamed"), data)
}

func TestLocalDiskDeleteMissingIsNoop(t *testing.T) {
	d := testDisk(t)
	assert.NoError(t, d.Delete("does/not/exist.txt"))
}

func TestLocalDiskStaysInsideRoot(t *testing.T) {
	d := testDisk(t)

	// Traversal segments are cleaned relative to the jail root, so this
	// resolves inside the temp dir where no such file exists.
	_, err := d.Get("../../etc/passwd")
	assert.Error(t, err)
}

func TestLocalDiskURL(t *testing.T) {
	d := testDisk(t)
	assert.Equal(t, "http://localhost:8080/static/a/b.png", d.URL("/a/b.png"))
}
