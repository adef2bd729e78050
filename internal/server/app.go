// Package server assembles the storefront: it opens the configured store,
// builds the services and runs the HTTP API and the gRPC health endpoint
// until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/clicon/internal/logging"
	"github.com/dmitrijs2005/clicon/internal/mongox"
	"github.com/dmitrijs2005/clicon/internal/server/auth"
	"github.com/dmitrijs2005/clicon/internal/server/config"
	"github.com/dmitrijs2005/clicon/internal/server/httpserver"
	"github.com/dmitrijs2005/clicon/internal/server/mailer"
	"github.com/dmitrijs2005/clicon/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/clicon/internal/server/services"
	"github.com/dmitrijs2005/clicon/internal/server/storage"

	gs "github.com/dmitrijs2005/clicon/internal/server/grpc"
)

const closeTimeout = 5 * time.Second

var (
	openStore = OpenRepositoryManager

	newUploader = func(ctx context.Context, c *config.Config) (storage.Uploader, error) {
		return storage.NewS3Uploader(ctx, storage.S3Config{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
		})
	}

	newDispatcher = func(c *config.Config, l logging.Logger) (mailer.Dispatcher, error) {
		return mailer.NewSMTPDispatcher(mailer.SMTPConfig{
			Host:     c.SMTPHost,
			Port:     c.SMTPPort,
			Username: c.SMTPUsername,
			Password: c.SMTPPassword,
			From:     c.MailFrom,
			ReplyTo:  c.MailReplyTo,
			ValidFor: c.PendingRegistrationTTL,
		}, l)
	}
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	handler     http.Handler
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogBackend, os.Stdout)
	if err != nil {
		return nil, err
	}

	rm, err := openStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close(ctx)
		return nil, fmt.Errorf("migrations: %w", err)
	}

	uploader, err := newUploader(ctx, c)
	if err != nil {
		_ = rm.Close(ctx)
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	dispatcher, err := newDispatcher(c, logger)
	if err != nil {
		_ = rm.Close(ctx)
		return nil, fmt.Errorf("mailer init error: %w", err)
	}

	hasher := auth.NewBcryptHasher(0)
	registry := httpserver.NewRegistry()

	h := httpserver.NewHandlers(
		services.NewAuthService(rm, hasher, dispatcher, c, logger),
		services.NewUserService(rm, hasher, c),
		services.NewProductService(rm, uploader, c, logger),
		services.NewCartService(rm, c),
		rm.Ping,
		httpserver.NewMetrics(registry),
		logger,
		httpserver.Options{CookieSecure: c.CookieSecure, MaxUploadSize: c.MaxUploadSize},
	)

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		handler:     httpserver.NewRouter(h, registry),
	}, nil
}

// OpenRepositoryManager connects to the configured backend.
func OpenRepositoryManager(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	switch c.Storage {
	case config.StorageMongo:
		client, db, err := mongox.Connect(ctx, c.MongoURI, c.DatabaseName)
		if err != nil {
			return nil, err
		}
		return repomanager.NewMongoRepositoryManager(client, db), nil
	case config.StoragePostgres:
		db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return repomanager.NewPostgresRepositoryManager(db), nil
	case config.StorageMemory:
		return repomanager.NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.Storage)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpserver.NewServer(app.config.HTTPAddr, app.handler, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.repomanager.Ping)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a signal arrives or either server
// fails, then closes the store.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage)
	if !app.config.EnforcePendingExpiry {
		app.logger.Warn(ctx, "pending registration expiry is not enforced; stale OTPs remain valid until used",
			"ttl", app.config.PendingRegistrationTTL)
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	cctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := app.repomanager.Close(cctx); err != nil {
		app.logger.Error(cctx, "store close failed", "error", err)
	}

	app.logger.Info(cctx, "App stopped")
}
