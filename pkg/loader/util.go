package loader

import (
	"path/filepath"
	"strings"
)

// CacheKey generates a unique cache key for a GraphFile based on its ID
// and path.
func CacheKey(file GraphFile) string {
	return file.ID + ":" + file.FilePath
}

// IsDocExtension reports whether the file extension belongs to a Word
// document that needs XML text extraction rather than a plain read.
func IsDocExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".docx" || ext == ".doc"
}
