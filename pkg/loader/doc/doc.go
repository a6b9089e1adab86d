package doc

import (
	"context"
	"sync"

	"github.com/vats98754/auto-kg/backend/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// DocGraphLoader loads Word documents (.docx) and extracts their text
// content. The underlying loader provides the raw bytes, so documents can
// come from disk or object storage alike.
type DocGraphLoader struct {
	loader loader.GraphFileLoader

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewDocGraphLoader creates a document loader that extracts text directly
// from docx XML.
func NewDocGraphLoader(loader loader.GraphFileLoader) *DocGraphLoader {
	return &DocGraphLoader{
		loader: loader,
		cache:  make(map[string][]byte),
	}
}

// ExtractText extracts the plain text of an in-memory Word document.
func ExtractText(content []byte) ([]byte, error) {
	return parseDocx(content)
}

// GetFileText extracts text content from a Word document.
func (l *DocGraphLoader) GetFileText(ctx context.Context, file loader.GraphFile) ([]byte, error) {
	key := loader.CacheKey(file)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[key]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		content, err := l.loader.GetFileText(ctx, file)
		if err != nil {
			return nil, err
		}

		result, err := parseDocx(content)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = result
		l.cacheMu.Unlock()

		return result, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
