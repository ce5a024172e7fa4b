// Package storage keeps sheet attachments keyed by (sheet id, kind).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/diewo77/blachy/internal/models"
)

// ErrNotFound is returned when no object exists under a key.
var ErrNotFound = errors.New("storage: object not found")

// Storage is the attachment store used by uploads, downloads and export.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Key returns the object key of one attachment of a sheet.
// Two sheets never share a key, whatever the uploaded file names are.
func Key(sheetID uint, kind models.AttachmentKind) string {
	return fmt.Sprintf("sheets/%d/%s", sheetID, kind)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SafeName reduces an uploaded file name to a base name made of
// letters, digits, dots, dashes and underscores.
func SafeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	return name
}

// DeleteSheet removes every attachment kind of a sheet, ignoring missing ones.
func DeleteSheet(ctx context.Context, s Storage, sheetID uint) error {
	var errs []error
	for _, k := range models.AttachmentKinds {
		if err := s.Delete(ctx, Key(sheetID, k)); err != nil && !errors.Is(err, ErrNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
