package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newsroom-labs/domaingraph/internal/db"
	"github.com/newsroom-labs/domaingraph/internal/queue"
	mid "github.com/newsroom-labs/domaingraph/internal/server/middleware"
	"github.com/newsroom-labs/domaingraph/internal/storage"
	"github.com/newsroom-labs/domaingraph/internal/util"
	"github.com/newsroom-labs/domaingraph/pkg/ai"
	oai "github.com/newsroom-labs/domaingraph/pkg/ai/ollama"
	gai "github.com/newsroom-labs/domaingraph/pkg/ai/openai"
	"github.com/newsroom-labs/domaingraph/pkg/logger"
	"github.com/newsroom-labs/domaingraph/pkg/store"
	filestore "github.com/newsroom-labs/domaingraph/pkg/store/file"
	pgstore "github.com/newsroom-labs/domaingraph/pkg/store/pgx"
	"github.com/newsroom-labs/domaingraph/pkg/tools"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
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

// DefaultAliases maps alternative domain spellings to their canonical
// form.
var DefaultAliases = map[string]string{
	"onco":     "cancer care",
	"oncology": "cancer care",
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	var key *keyfunc.Keyfunc
	if authURL := util.GetEnv("AUTH_URL"); authURL != "" {
		k, err := keyfunc.NewDefault([]string{authURL + "/jwks"})
		if err != nil {
			logger.Fatal("Failed to load jwks keys", "err", err)
		}
		key = &k
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", "err", err)
	}

	conn, err := pgxpool.New(ctx, util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()

	que := queue.Init()
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	if err := queue.SetupQueues(ch, []string{queue.BuildQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	var covers tools.CoverArchive
	if s3 := storage.NewS3Client(ctx); s3 != nil {
		covers = storage.NewS3CoverArchive(s3)
	}

	domainStore := NewDomainStoreFromEnv(conn)
	loaded := domainStore.LoadAllPrebuilt(ctx)
	logger.Info("Loaded prebuilt domain graphs", "count", loaded)

	dispatcher := tools.NewDispatcher(tools.NewDispatcherParams{
		Store:    domainStore,
		AIClient: NewAIClientFromEnv(),
		Engines:  NewEngineRegistryFromEnv(),
		Covers:   covers,
	})

	app := &mid.App{
		DBConn:       conn,
		Queue:        ch,
		Key:          key,
		Store:        domainStore,
		Dispatcher:   dispatcher,
		MasterAPIKey: util.GetEnv("MASTER_API_KEY"),
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())

	RegisterRoutes(e)

	go func() {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

// NewDomainStoreFromEnv builds the domain store with the persister named
// by GRAPH_STORE: "postgres" stores snapshots in the database, anything
// else in GRAPH_DATA_DIR on disk.
func NewDomainStoreFromEnv(conn *pgxpool.Pool) *store.DomainStore {
	var persister store.Persister
	switch util.GetEnvString("GRAPH_STORE", "file") {
	case "postgres":
		persister = pgstore.NewGraphDBPersisterWithConnection(conn)
	default:
		dir := util.GetEnvString("GRAPH_DATA_DIR", "data/graphs")
		fp, err := filestore.NewFilePersister(dir)
		if err != nil {
			logger.Fatal("Failed to create graph data directory", "dir", dir, "err", err)
		}
		persister = fp
	}

	return store.NewDomainStore(store.NewDomainStoreParams{
		Persister: persister,
		Aliases:   DefaultAliases,
	})
}

// NewAIClientFromEnv builds the chat client named by AI_ADAPTER. The
// default is an OpenAI-compatible endpoint; "ollama" talks to a local
// Ollama server.
func NewAIClientFromEnv() ai.DomainAIClient {
	switch util.GetEnv("AI_ADAPTER") {
	case "ollama":
		client, err := oai.NewDomainOllamaClient(oai.NewDomainOllamaClientParams{
			ChatModel: util.GetEnv("AI_CHAT_MODEL"),
			BaseURL:   util.GetEnv("AI_CHAT_URL"),
			ApiKey:    util.GetEnv("AI_CHAT_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 4)),
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		return client
	default:
		return gai.NewDomainOpenAIClient(gai.NewDomainOpenAIClientParams{
			ChatModel: util.GetEnv("AI_CHAT_MODEL"),
			ChatURL:   util.GetEnv("AI_CHAT_URL"),
			ChatKey:   util.GetEnv("AI_CHAT_KEY"),
		})
	}
}

// NewEngineRegistryFromEnv registers every configured image engine. The
// hosted engines share the AI_IMAGE_* endpoint; the local SDXL engine
// speaks the OpenAI image API at SDXL_URL.
func NewEngineRegistryFromEnv() *ai.EngineRegistry {
	registry := ai.NewEngineRegistry()

	imageURL := util.GetEnv("AI_IMAGE_URL")
	imageKey := util.GetEnv("AI_IMAGE_KEY")
	for _, model := range []string{"dall-e-3", "gpt-image-1"} {
		registry.Register(gai.NewDomainOpenAIClient(gai.NewDomainOpenAIClientParams{
			ImageModel: model,
			ImageURL:   imageURL,
			ImageKey:   imageKey,
		}))
	}

	if sdxlURL := util.GetEnv("SDXL_URL"); sdxlURL != "" {
		registry.Register(gai.NewDomainOpenAIClient(gai.NewDomainOpenAIClientParams{
			ImageModel: "sdxl-local",
			ImageURL:   sdxlURL,
			ImageKey:   util.GetEnvString("SDXL_KEY", "none"),
		}))
	}

	return registry
}
