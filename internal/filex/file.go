// Package filex contains file helpers for the local database and image
// uploads.
package filex

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// imageExtensions are the file types treated as displayable images.
var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
	".svg":  {},
	".avif": {},
}

// EnsureParentDir creates the directory that will hold file p.
func EnsureParentDir(p string) error {
	dir := filepath.Dir(p)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// IsImageName reports whether name carries a known image extension.
func IsImageName(name string) bool {
	_, ok := imageExtensions[strings.ToLower(path.Ext(name))]
	return ok
}

// ContentType guesses the MIME type of an image from its name, falling back
// to sniffing data.
func ContentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(name))); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}

// ReadImage loads an image file from disk and returns its bytes and MIME type.
func ReadImage(p string) ([]byte, string, error) {
	if !IsImageName(p) {
		return nil, "", fmt.Errorf("not an image file: %s", p)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", p, err)
	}
	return data, ContentType(p, data), nil
}
