package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryanwahyu/visual-qc/internal/application"
	appaicheck "github.com/bryanwahyu/visual-qc/internal/application/aicheck"
	apptasks "github.com/bryanwahyu/visual-qc/internal/application/tasks"
	"github.com/bryanwahyu/visual-qc/internal/config"
	"github.com/bryanwahyu/visual-qc/internal/domain/cloudsync"
	"github.com/bryanwahyu/visual-qc/internal/domain/history"
	"github.com/bryanwahyu/visual-qc/internal/infra/cloud/drive"
	mysqlp "github.com/bryanwahyu/visual-qc/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/visual-qc/internal/infra/db/postgres"
	openaic "github.com/bryanwahyu/visual-qc/internal/infra/ai/openai"
	"github.com/bryanwahyu/visual-qc/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/visual-qc/internal/infra/storage"
	"github.com/bryanwahyu/visual-qc/internal/infra/taskstore"
	"github.com/bryanwahyu/visual-qc/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// optional history database
	var (
		db       *sql.DB
		histRepo history.Repository
		checkers = map[string]middleware.HealthChecker{}
	)
	switch cfg.Database.Driver {
	case "mysql":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		histRepo = mysqlp.NewHistoryRepository(db)
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		histRepo = postgresp.NewHistoryRepository(db)
	case "":
		log.Println("no database configured, history disabled")
	default:
		log.Fatalf("unknown database driver: %s", cfg.Database.Driver)
	}
	if db != nil {
		defer db.Close()
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	// optional minio artifact archive
	var archive appaicheck.ArtifactArchiver
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		archive = store
	}

	// vision model client
	vision := openaic.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.MaxTokens)

	// init services
	checks := &appaicheck.Service{
		Vision:         vision,
		Clock:          application.SystemClock{},
		History:        histRepo,
		Archive:        archive,
		MaxConcurrency: cfg.Batch.MaxConcurrency,
	}
	tasksSvc := &apptasks.Service{
		Registry:  taskstore.NewMemory(),
		Checker:   checks,
		Clock:     application.SystemClock{},
		Retention: cfg.TaskRetention(),
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	janitorStop := make(chan struct{})
	tasksSvc.StartJanitor(janitorStop)

	// init router
	handler := httpserver.NewRouter(httpserver.Options{
		Checks:  checks,
		Tasks:   tasksSvc,
		History: histRepo,
		Drive: func(ctx context.Context, accessToken string) (cloudsync.Drive, error) {
			return drive.New(ctx, accessToken)
		},
		APIKey:         cfg.Auth.APIKey,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		HealthCheckers: checkers,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	<-stop
	log.Println("shutting down server...")
	close(janitorStop)

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
