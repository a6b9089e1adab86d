package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vats98754/auto-kg/backend/internal/queue"
	mid "github.com/vats98754/auto-kg/backend/internal/server/middleware"
	"github.com/vats98754/auto-kg/backend/internal/storage"
	"github.com/vats98754/auto-kg/backend/internal/util"
	"github.com/vats98754/auto-kg/backend/pkg/ai"
	oai "github.com/vats98754/auto-kg/backend/pkg/ai/ollama"
	gai "github.com/vats98754/auto-kg/backend/pkg/ai/openai"
	"github.com/vats98754/auto-kg/backend/pkg/extract"
	"github.com/vats98754/auto-kg/backend/pkg/logger"
	"github.com/vats98754/auto-kg/backend/pkg/query"
	"github.com/vats98754/auto-kg/backend/pkg/store"
	"github.com/vats98754/auto-kg/backend/pkg/store/memory"
	pgstore "github.com/vats98754/auto-kg/backend/pkg/store/pgx"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var key *keyfunc.Keyfunc
	if authURL := util.GetEnv("AUTH_URL"); authURL != "" {
		k, err := keyfunc.NewDefault([]string{authURL + "/jwks"})
		if err != nil {
			logger.Fatal("Failed to load jwks keys", "err", err)
		}
		key = &k
	}

	var graphStore store.GraphStorage
	switch util.GetEnvString("STORE_ADAPTER", "memory") {
	case "postgres":
		databaseURL := util.GetEnv("DATABASE_URL")
		runMigrations(databaseURL)

		conn, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			logger.Fatal("Failed to connect to database", "err", err)
		}
		defer conn.Close()
		graphStore = pgstore.NewGraphDBStorageWithConnection(conn)
	default:
		graphStore = memory.NewGraphMemoryStorage()
	}

	extractor := extract.NewExtractor(extract.NewExtractorParams{
		Store:         graphStore,
		Inferencer:    NewInferencer(),
		MaxCandidates: util.GetEnvInt("MAX_CANDIDATES", 0),
	})
	queryEngine := query.NewEngine(graphStore)

	var ch *amqp091.Channel
	if util.GetEnv("RABBITMQ_HOST") != "" {
		que := queue.Init()
		defer que.Close()

		channel, err := que.Channel()
		if err != nil {
			logger.Fatal("Failed to open channel", "err", err)
		}
		if err := queue.SetupQueues(channel, queue.QueueNames); err != nil {
			logger.Fatal("Failed to set up queues", "err", err)
		}
		ch = channel
	}

	app := &mid.App{
		Store:        graphStore,
		Extractor:    extractor,
		Query:        queryEngine,
		Key:          key,
		MasterAPIKey: util.GetEnv("MASTER_API_KEY"),
	}
	if ch != nil {
		app.Queue = ch
		app.S3 = storage.NewS3Client(ctx)
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("100M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

// NewInferencer builds the relationship inferencer from AI_* env vars.
// Without an AI adapter configured extraction stays purely rule based.
func NewInferencer() extract.Inferencer {
	var aiClient ai.GraphAIClient

	switch util.GetEnv("AI_ADAPTER") {
	case "ollama":
		client, err := oai.NewGraphOllamaClient(oai.NewGraphOllamaClientParams{
			CompletionModel: util.GetEnv("AI_CHAT_MODEL"),
			InferenceModel:  util.GetEnv("AI_INFER_MODEL"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvInt("AI_PARALLEL_REQ", 4)),
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		aiClient = client
	case "openai":
		aiClient = gai.NewGraphOpenAIClient(gai.NewGraphOpenAIClientParams{
			CompletionModel: util.GetEnv("AI_CHAT_MODEL"),
			InferenceModel:  util.GetEnv("AI_INFER_MODEL"),

			ChatURL: util.GetEnv("AI_CHAT_URL"),
			ChatKey: util.GetEnv("AI_CHAT_KEY"),
		})
	default:
		return extract.NewRuleBasedInferencer()
	}

	return extract.NewLLMBackedInferencer(extract.NewLLMBackedInferencerParams{
		Client: aiClient,
	})
}

func runMigrations(databaseURL string) {
	m, err := migrate.New("file://migrations", databaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize migrations", "err", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal("Failed to run migrations", "err", err)
	}
}
