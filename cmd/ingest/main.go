package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/vats98754/auto-kg/backend/internal/server"
	"github.com/vats98754/auto-kg/backend/internal/util"
	"github.com/vats98754/auto-kg/backend/pkg/common"
	"github.com/vats98754/auto-kg/backend/pkg/extract"
	"github.com/vats98754/auto-kg/backend/pkg/loader"
	"github.com/vats98754/auto-kg/backend/pkg/loader/doc"
	loaderio "github.com/vats98754/auto-kg/backend/pkg/loader/io"
	"github.com/vats98754/auto-kg/backend/pkg/logger"
	"github.com/vats98754/auto-kg/backend/pkg/logger/console"
	pgstore "github.com/vats98754/auto-kg/backend/pkg/store/pgx"

	"github.com/jackc/pgx/v5/pgxpool"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ingest processes local files into the graph without going through the
// API server: ingest <file> [<file> ...]
func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	paths := os.Args[1:]
	if len(paths) == 0 {
		logger.Fatal("Usage: ingest <file> [<file> ...]")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	databaseURL := util.GetEnv("DATABASE_URL")
	if databaseURL == "" {
		logger.Fatal("DATABASE_URL is required for ingest")
	}
	pgConn, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Fatal("Unable to connect to database", "err", err)
	}
	defer pgConn.Close()

	graphStore := pgstore.NewLeaseLockedStorage(
		pgstore.NewGraphDBStorageWithConnection(pgConn),
		pgConn,
	)
	extractor := extract.NewExtractor(extract.NewExtractorParams{
		Store:         graphStore,
		Inferencer:    server.NewInferencer(),
		MaxCandidates: util.GetEnvInt("MAX_CANDIDATES", 0),
	})

	ioLoader := loaderio.NewIOGraphFileLoader()
	docLoader := doc.NewDocGraphLoader(ioLoader)

	docs := make([]common.Document, 0, len(paths))
	for _, path := range paths {
		id, err := gonanoid.New()
		if err != nil {
			logger.Fatal("Failed to generate document id", "err", err)
		}

		var fileLoader loader.GraphFileLoader = ioLoader
		if loader.IsDocExtension(path) {
			fileLoader = docLoader
		}
		file := loader.NewGraphDocumentFile(loader.NewGraphFileParams{
			ID:       id,
			FilePath: path,
			Loader:   fileLoader,
		})

		text, err := file.GetText(ctx)
		if err != nil {
			logger.Fatal("Failed to load document", "path", path, "err", err)
		}

		name := filepath.Base(path)
		title := strings.TrimSuffix(name, filepath.Ext(name))

		docs = append(docs, common.Document{
			ID:    id,
			Title: title,
			Text:  util.SanitizePostgresText(string(text)),
		})
	}

	parallel := util.GetEnvInt("INGEST_PARALLEL", 2)
	results, err := extractor.ProcessAll(ctx, docs, parallel)
	if err != nil {
		logger.Fatal("Ingest failed", "err", err)
	}

	concepts, relationships := 0, 0
	for _, r := range results {
		concepts += r.ConceptsAdded
		relationships += r.RelationshipsAdded
	}
	logger.Info(
		"Ingest finished",
		"documents", len(results),
		"concepts_added", concepts,
		"relationships_added", relationships,
	)
}
