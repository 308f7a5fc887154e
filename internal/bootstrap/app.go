package bootstrap

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/extract"
	"coverletter-backend/internal/llm"
	"coverletter-backend/internal/llm/anthropic"
	"coverletter-backend/internal/pipeline"
	"coverletter-backend/internal/shared/config"
	"coverletter-backend/internal/shared/server"
	"coverletter-backend/internal/shared/storage/db"
	"coverletter-backend/internal/shared/storage/object"
	localstore "coverletter-backend/internal/shared/storage/object/local"
	s3store "coverletter-backend/internal/shared/storage/object/s3"
	"coverletter-backend/internal/uploads"
	"coverletter-backend/internal/workflow"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	LLM             llm.Client
	Extractor       *extract.Extractor
	UploadsRepo     uploads.Repo
	UploadsService  *uploads.Service
	PipelineService *pipeline.Service
	Trigger         *workflow.Trigger
	Reconciler      *workflow.Reconciler
	PipelineHandler *pipeline.Handler
	UploadsHandler  *uploads.Handler
	WorkflowHandler *workflow.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		PipelineHandler: app.PipelineHandler,
		UploadsHandler:  app.UploadsHandler,
		WorkflowHandler: app.WorkflowHandler,
		Store:           app.Store,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repository")
			return nil, nil
		}
		return nil, errDatabaseRequired
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repository: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL), nil
	}
}

func buildServices(app *App) {
	cfg := app.Config

	if app.DB != nil {
		app.UploadsRepo = &uploads.PGRepo{DB: app.DB}
	} else {
		app.UploadsRepo = uploads.NewMemoryRepo()
	}

	app.UploadsService = &uploads.Service{
		Objects: app.Store,
		Repo:    app.UploadsRepo,
	}

	if strings.TrimSpace(cfg.AnthropicAPIKey) != "" {
		client, err := anthropic.NewClient(cfg.AnthropicAPIKey, cfg.LLMModel, cfg.LLMMaxTokens)
		if err != nil {
			log.Printf("bootstrap: anthropic client init failed; using placeholder: %v", err)
			app.LLM = llm.PlaceholderClient{}
		} else {
			app.LLM = client
		}
	} else {
		log.Printf("bootstrap: ANTHROPIC_API_KEY empty; using placeholder LLM client")
		app.LLM = llm.PlaceholderClient{}
	}

	var ocr extract.OCR
	if strings.TrimSpace(cfg.OCREndpoint) != "" {
		ocr = extract.NewHTTPOCR(cfg.OCREndpoint)
	}
	app.Extractor = extract.New(ocr)

	app.PipelineService = &pipeline.Service{
		Extractor: app.Extractor,
		LLM:       app.LLM,
		Uploads:   app.UploadsService,
	}

	app.Trigger = workflow.NewTrigger(cfg.WebhookURL)
	app.Reconciler = workflow.NewReconciler(app.UploadsService)

	app.PipelineHandler = pipeline.NewHandler(app.PipelineService)
	app.UploadsHandler = uploads.NewHandler(app.UploadsService)
	app.WorkflowHandler = workflow.NewHandler(app.UploadsService, app.Trigger, app.Reconciler, cfg.CallbackToken)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
