// Package upload validates item images and stores them on local disk.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"campustech-backend/internal/models/dto"
)

// URLPrefix is the public path images are served under.
const URLPrefix = "/uploads"

var (
	ErrUnsupportedType = errors.New("only PNG and JPEG images are allowed")
	ErrTooLarge        = errors.New("image is too large")
)

var allowedTypes = []string{"image/png", "image/jpeg"}

// Disk writes images into a single directory served at URLPrefix.
type Disk struct {
	dir      string
	maxBytes int64
}

func NewDisk(dir string, maxBytes int64) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{dir: dir, maxBytes: maxBytes}, nil
}

// Dir is the directory holding stored images.
func (d *Disk) Dir() string { return d.dir }

// Save checks size and content type, then writes the image under a unique name
// and returns its public URL.
func (d *Disk) Save(_ context.Context, img dto.Image) (string, error) {
	if img.Size > d.maxBytes {
		return "", ErrTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(img.Body, d.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > d.maxBytes {
		return "", ErrTooLarge
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedTypes...) {
		return "", ErrUnsupportedType
	}

	name := fileName(img.Filename, mt.Extension())
	if err := os.WriteFile(filepath.Join(d.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return URLPrefix + "/" + name, nil
}

func fileName(original, ext string) string {
	base := slug.Make(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("%s-%s%s", uuid.NewString(), base, ext)
}
