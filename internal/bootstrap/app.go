// Package bootstrap wires configuration into the application dependency graph.
package bootstrap

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "smartquiz-backend/internal/auth"
	"smartquiz-backend/internal/extract"
	"smartquiz-backend/internal/quizgen"
	openaiclient "smartquiz-backend/internal/quizgen/openai"
	"smartquiz-backend/internal/quizzes"
	"smartquiz-backend/internal/shared/config"
	"smartquiz-backend/internal/shared/server"
	"smartquiz-backend/internal/shared/storage/db"
	"smartquiz-backend/internal/shared/storage/object"
	localstore "smartquiz-backend/internal/shared/storage/object/local"
	s3store "smartquiz-backend/internal/shared/storage/object/s3"
	"smartquiz-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	QuizStore    quizzes.Store
	UsersRepo    users.Repo
	QuizService  *quizzes.Service
	UsersService *users.Service
	QuizHandler  *quizzes.Handler
	GoogleAuth   *googleauth.GoogleService
}

// Options allows callers to override pieces of the graph, mainly for tests.
type Options struct {
	// LLMClient replaces the configured completion client when non-nil.
	LLMClient quizgen.Client
}

// Build prepares dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	return BuildWithOptions(cfg, Options{})
}

// BuildWithOptions is Build with test overrides.
func BuildWithOptions(cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB := buildDB(ctx, cfg)

	app := &App{
		Config: cfg,
		DB:     sqlDB,
	}

	if err := buildServices(ctx, app, opts); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:      app.Config,
		QuizHandler: app.QuizHandler,
		GoogleAuth:  app.GoogleAuth,
	})
	return app, nil
}

// buildDB connects and migrates when DATABASE_URL is set; otherwise memory
// stores are used.
func buildDB(ctx context.Context, cfg config.Config) *sql.DB {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil
	}
	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		log.Printf("bootstrap: database connect failed; using in-memory stores: %v", err)
		return nil
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		log.Printf("bootstrap: migrations failed; using in-memory stores: %v", err)
		return nil
	}
	return sqlDB
}

func buildObjectStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(ctx context.Context, app *App, opts Options) error {
	cfg := app.Config

	if app.DB != nil {
		app.QuizStore = &quizzes.PGStore{DB: app.DB}
		app.UsersRepo = &users.PGRepo{DB: app.DB}
	} else {
		app.QuizStore = quizzes.NewMemoryStore()
		app.UsersRepo = users.NewMemoryRepo()
	}
	app.UsersService = users.NewService(app.UsersRepo)

	llmClient := opts.LLMClient
	if llmClient == nil {
		if cfg.OpenAIAPIKey != "" {
			client, err := openaiclient.New(cfg.OpenAIAPIKey, cfg.LLMModel)
			if err != nil {
				return err
			}
			llmClient = client
		} else {
			log.Printf("bootstrap: OPENAI_API_KEY empty; quiz generation disabled")
			llmClient = quizgen.PlaceholderClient{}
		}
	}

	var archive object.ObjectStore
	if cfg.ExportArchive {
		store, err := buildObjectStore(ctx, cfg)
		if err != nil {
			return err
		}
		archive = store
		app.Store = store
	}

	extractOpts := extract.Options{SlideFallback: cfg.SlideFallback}

	app.QuizService = &quizzes.Service{
		Store:       app.QuizStore,
		Generator:   quizgen.NewGenerator(llmClient),
		ExtractOpts: extractOpts,
		Archive:     archive,
	}
	app.QuizHandler = quizzes.NewHandler(app.QuizService)

	app.GoogleAuth = googleauth.NewGoogleService(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.UIRedirectURL,
		app.UsersService,
	)
	return nil
}
