package queue

// IngestDocumentMsg asks the worker to pull an uploaded document blob
// from object storage, extract its text and run concept extraction.
// FileKey is empty for web documents, which are fetched from SourceURL
// instead.
type IngestDocumentMsg struct {
	DocumentID string   `json:"document_id"`
	Name       string   `json:"name"`
	FileKey    string   `json:"file_key,omitempty"`
	SourceURL  string   `json:"source_url,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// ScrapeMsg asks the worker to run a bounded encyclopedia crawl and
// feed every fetched page through concept extraction.
type ScrapeMsg struct {
	Seeds    []string `json:"seeds,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	MaxPages int      `json:"max_pages,omitempty"`
	MaxDepth int      `json:"max_depth,omitempty"`
}
