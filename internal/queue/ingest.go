package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vats98754/auto-kg/backend/internal/util"
	"github.com/vats98754/auto-kg/backend/pkg/common"
	"github.com/vats98754/auto-kg/backend/pkg/extract"
	"github.com/vats98754/auto-kg/backend/pkg/loader"
	"github.com/vats98754/auto-kg/backend/pkg/loader/doc"
	s3loader "github.com/vats98754/auto-kg/backend/pkg/loader/s3"
	"github.com/vats98754/auto-kg/backend/pkg/loader/web"
	"github.com/vats98754/auto-kg/backend/pkg/logger"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// ProcessIngestMessage resolves the document text referenced by an
// ingest message and runs it through the extraction pipeline. Uploaded
// blobs are read from S3 (docx and doc files go through XML text
// extraction first); web documents are fetched and cleaned with a
// readability pass.
func ProcessIngestMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	extractor *extract.Extractor,
	msg string,
) error {
	data := new(IngestDocumentMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return fmt.Errorf("unmarshal ingest message: %w", err)
	}
	if data.FileKey == "" && data.SourceURL == "" {
		return fmt.Errorf("%w: ingest message has neither file key nor source url", common.ErrInvalidInput)
	}

	var file loader.GraphFile
	switch {
	case data.FileKey != "":
		s3Bucket := util.GetEnvString("AWS_BUCKET", "auto-kg")
		s3L := s3loader.NewS3GraphFileLoaderWithClient(s3Bucket, s3Client)

		var fileLoader loader.GraphFileLoader = s3L
		if loader.IsDocExtension(data.FileKey) {
			fileLoader = doc.NewDocGraphLoader(s3L)
		}
		file = loader.NewGraphDocumentFile(loader.NewGraphFileParams{
			ID:       data.DocumentID,
			FilePath: data.FileKey,
			Loader:   fileLoader,
		})
	default:
		file = loader.NewGraphWebFile(loader.NewGraphFileParams{
			ID:       data.DocumentID,
			FilePath: data.SourceURL,
			Loader:   web.NewWebGraphLoader(),
		})
	}

	text, err := file.GetText(ctx)
	if err != nil {
		return fmt.Errorf("load document text: %w", err)
	}

	title := data.Name
	if title == "" {
		title = data.DocumentID
	}
	title = strings.TrimSuffix(title, pathExt(title))

	result, err := extractor.Process(ctx, common.Document{
		ID:         data.DocumentID,
		Title:      title,
		Text:       util.SanitizePostgresText(string(text)),
		SourceURL:  data.SourceURL,
		Categories: data.Categories,
	})
	if err != nil {
		return fmt.Errorf("process document %q: %w", data.DocumentID, err)
	}

	logger.Info(
		"[Queue] Document ingested",
		"document_id", data.DocumentID,
		"concepts_added", result.ConceptsAdded,
		"relationships_added", result.RelationshipsAdded,
	)
	return nil
}

func pathExt(name string) string {
	if idx := strings.LastIndexByte(name, '.'); idx > 0 {
		return name[idx:]
	}
	return ""
}
