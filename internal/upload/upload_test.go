package upload

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campustech-backend/internal/models/dto"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func image(name string, data []byte) dto.Image {
	return dto.Image{Filename: name, Size: int64(len(data)), Body: bytes.NewReader(data)}
}

func TestSavePNG(t *testing.T) {
	dir := t.TempDir()
	disk, err := NewDisk(dir, 1024)
	require.NoError(t, err)

	url, err := disk.Save(context.Background(), image("My Lamp Photo.png", pngHeader))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, "-my-lamp-photo.png"))

	stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)
}

func TestSaveJPEG(t *testing.T) {
	disk, err := NewDisk(t.TempDir(), 1024)
	require.NoError(t, err)

	url, err := disk.Save(context.Background(), image("x.jpeg", []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".jpg"))
}

func TestSaveRejectsOtherTypes(t *testing.T) {
	disk, err := NewDisk(t.TempDir(), 1024)
	require.NoError(t, err)

	_, err = disk.Save(context.Background(), image("anim.png", []byte("GIF89a\x01\x00\x01\x00")))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestSaveRejectsOversize(t *testing.T) {
	disk, err := NewDisk(t.TempDir(), 16)
	require.NoError(t, err)

	big := append(append([]byte{}, pngHeader...), make([]byte, 64)...)
	_, err = disk.Save(context.Background(), image("big.png", big))
	assert.ErrorIs(t, err, ErrTooLarge)

	// A lying size header is still caught while reading.
	img := image("big.png", big)
	img.Size = 1
	_, err = disk.Save(context.Background(), img)
	assert.ErrorIs(t, err, ErrTooLarge)
}
