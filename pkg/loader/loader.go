package loader

import (
	"context"
)

type GraphFileType string

const (
	GraphFileTypeDocument GraphFileType = "document"
	GraphFileTypeWeb      GraphFileType = "web"
)

// GraphFile represents a source document that can be turned into plain
// text for concept extraction. It carries metadata such as the file path
// or URL and the loader used to resolve the content.
type GraphFile struct {
	ID       string
	FilePath string
	FileType GraphFileType
	Loader   GraphFileLoader
}

// NewGraphFileParams defines the input parameters for creating a new
// GraphFile instance.
type NewGraphFileParams struct {
	ID       string
	FilePath string
	Loader   GraphFileLoader
}

// NewGraphDocumentFile creates a new GraphFile of type
// GraphFileTypeDocument. This is used for text-based documents such as
// Word files, Markdown or plain text files.
func NewGraphDocumentFile(params NewGraphFileParams) GraphFile {
	return GraphFile{
		ID:       params.ID,
		FilePath: params.FilePath,
		FileType: GraphFileTypeDocument,
		Loader:   params.Loader,
	}
}

// NewGraphWebFile creates a new GraphFile of type GraphFileTypeWeb.
// FilePath holds the URL to fetch.
func NewGraphWebFile(params NewGraphFileParams) GraphFile {
	return GraphFile{
		ID:       params.ID,
		FilePath: params.FilePath,
		FileType: GraphFileTypeWeb,
		Loader:   params.Loader,
	}
}

// GetText retrieves the plain text content of the file using its Loader.
func (f *GraphFile) GetText(ctx context.Context) ([]byte, error) {
	return f.Loader.GetFileText(ctx, *f)
}

// GraphFileLoader defines the interface for loading the contents of a
// GraphFile. Implementations may load files from disk, object storage,
// or the web.
type GraphFileLoader interface {
	GetFileText(ctx context.Context, file GraphFile) ([]byte, error)
}
