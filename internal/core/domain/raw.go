package domain

import (
	"path/filepath"
	"strings"
)

// Upload is a file handed over by a driving adapter before parsing.
// It mirrors the file-like object a chat surface receives from its user.
type Upload struct {
	// Name is the original filename, including the extension.
	Name string

	// Content is the raw bytes.
	Content []byte

	// Size is the declared size in bytes. Adapters that do not know the
	// declared size should set it to len(Content).
	Size int64
}

// NewUpload creates an upload whose declared size matches its content.
func NewUpload(name string, content []byte) Upload {
	return Upload{
		Name:    name,
		Content: content,
		Size:    int64(len(content)),
	}
}

// Extension returns the lower-cased extension without the leading dot.
func (u Upload) Extension() string {
	return FileExtension(u.Name)
}

// FileExtension returns the lower-cased extension of name without the dot.
// A name without a dot yields the whole lower-cased name, so an upload
// named "pdf" is treated as a PDF.
func FileExtension(name string) string {
	ext := filepath.Ext(name)
	if ext == "" {
		return strings.ToLower(name)
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
