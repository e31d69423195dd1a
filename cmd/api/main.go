package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"capstone_backend/internal/adapters/storage"
	"capstone_backend/internal/articles"
	"capstone_backend/internal/auth"
	"capstone_backend/internal/auth/guard"
	"capstone_backend/internal/comments"
	"capstone_backend/internal/docstore"
	firestorestore "capstone_backend/internal/docstore/firestore"
	"capstone_backend/internal/docstore/memory"
	"capstone_backend/internal/docstore/postgres"
	apphttp "capstone_backend/internal/http"
	"capstone_backend/internal/http/router"
	"capstone_backend/internal/idp/firebase"
	"capstone_backend/internal/topics"
	"capstone_backend/internal/uploads"
	"capstone_backend/platform/config"
	"capstone_backend/platform/db"
	"capstone_backend/platform/logger"
	"capstone_backend/platform/validator"

	firebaseapp "firebase.google.com/go/v4"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"
)

// multipartOverhead is the allowance for form fields and boundaries on top of
// the largest accepted file.
const multipartOverhead = 1 << 20

// ensureBucket wraps the retry logic for verifying the storage bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, bucket string) {
	if err := withRetry(ctx, log, "ensure storage bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", bucket)
		panic("failed to ensure storage bucket exists: " + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "docstore", cfg.GetDocstoreBackend())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	app, err := firebase.NewApp(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize firebase", "error", err)
		panic("failed to initialize firebase: " + err.Error())
	}

	provider, err := firebase.New(ctx, app, cfg, log)
	if err != nil {
		log.Error("failed to initialize identity provider", "error", err)
		panic("failed to initialize identity provider: " + err.Error())
	}

	store, closeStore := initDocstore(ctx, cfg, app, log)
	defer closeStore()

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	ensureBucket(ctx, log, storageSvc, cfg.GetStorageBucket())
	log.Info("storage service initialized", "endpoint", cfg.GetStorageEndpoint(), "bucket", cfg.GetStorageBucket())

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	uploadsModule := uploads.NewModule(storageSvc, log)
	images := uploadsModule.Service()
	maxFileSize := cfg.GetStorageMaxFileSize()

	authModule, err := auth.NewModule(provider, store, images, maxFileSize, val, log)
	if err != nil {
		log.Error("failed to initialize auth module", "error", err)
		panic("failed to initialize auth module: " + err.Error())
	}
	topicsModule := topics.NewModule(store, val, log)
	commentsModule := comments.NewModule(store, val, log)
	articlesModule := articles.NewModule(store, images, maxFileSize, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	engine := router.New(&apphttp.App{
		Config:         cfg,
		Logger:         log,
		Health:         store,
		AuthMiddleware: guard.New(provider, log).Middleware(),
		MaxBodyBytes:   maxFileSize + multipartOverhead,
		Modules: []apphttp.Module{
			authModule,
			topicsModule,
			commentsModule,
			articlesModule,
			uploadsModule,
		},
	})

	var handler http.Handler = engine
	if cfg.GetHTTPH2C() {
		handler = h2c.NewHandler(engine, &http2.Server{})
	}

	servers := []*http.Server{newServer(cfg.GetHTTPAddr(), handler)}
	if cfg.IsTLSEnabled() {
		servers = append(servers, newServer(cfg.GetHTTPSAddr(), engine))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.GetHTTPAddr(), "h2c", cfg.GetHTTPH2C())
		return serve(servers[0].ListenAndServe)
	})
	if cfg.IsTLSEnabled() {
		g.Go(func() error {
			log.Info("tls server listening", "addr", cfg.GetHTTPSAddr())
			return serve(func() error {
				return servers[1].ListenAndServeTLS(cfg.GetTLSCertFile(), cfg.GetTLSKeyFile())
			})
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutdown %s: %w", srv.Addr, err))
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// serve treats a graceful shutdown as success.
func serve(listen func() error) error {
	if err := listen(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// initDocstore connects the configured backend and returns it with its closer.
func initDocstore(ctx context.Context, cfg *config.Config, app *firebaseapp.App, log *logger.Logger) (docstore.Store, func()) {
	switch cfg.GetDocstoreBackend() {
	case config.DocstorePostgres:
		if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
			return db.RunMigrations(ctx, cfg, postgres.Migrations, postgres.MigrationsDir)
		}); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
		log.Info("database migrations complete")

		var store *postgres.Store
		var closeFn func()
		if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
			pool, err := db.NewPool(ctx, cfg)
			if err != nil {
				return err
			}
			store = postgres.New(pool)
			closeFn = pool.Close
			return nil
		}); err != nil {
			log.Error("failed to connect to database", "error", err)
			panic("failed to connect to database: " + err.Error())
		}
		log.Info("database connection established")
		return store, closeFn

	case config.DocstoreFirestore:
		var store *firestorestore.Store
		if err := withRetry(ctx, log, "firestore connection", 5, 2*time.Second, func() error {
			client, err := app.Firestore(ctx)
			if err != nil {
				return err
			}
			s := firestorestore.New(client)
			if err := s.Ping(ctx); err != nil {
				_ = s.Close()
				return err
			}
			store = s
			return nil
		}); err != nil {
			log.Error("failed to connect to firestore", "error", err)
			panic("failed to connect to firestore: " + err.Error())
		}
		log.Info("firestore connection established")
		return store, func() { _ = store.Close() }

	default:
		log.Warn("using in-memory document store; data is lost on restart")
		return memory.New(), func() {}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
