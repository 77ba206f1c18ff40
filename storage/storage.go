// Package storage keeps uploaded menu item pictures, on local disk or in S3.
package storage

import (
	"errors"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RefPrefix is prepended to every stored file name; GET /images/{file} serves it back.
const RefPrefix = "images/"

var ErrNotFound = errors.New("image not found")

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename reduces an uploaded file name to a safe base name.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._")
	if name == "" {
		return uuid.NewString()[:8]
	}
	return name
}

// FileName builds YYYYMMDD_HHMMSS_<sanitised name>.
func FileName(now time.Time, original string) string {
	return now.Format("20060102_150405") + "_" + SanitizeFilename(original)
}

// fileFromRef returns the bare file name of a reference, refusing anything that
// would leave the image directory.
func fileFromRef(ref string) (string, error) {
	name := strings.TrimPrefix(ref, RefPrefix)
	if name == "" || name != path.Base(name) || name == "." || name == ".." {
		return "", ErrNotFound
	}
	return name, nil
}
