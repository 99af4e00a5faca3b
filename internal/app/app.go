package app

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/RubachokBoss/academic-hub/internal/config"
	"github.com/RubachokBoss/academic-hub/internal/database"
	"github.com/RubachokBoss/academic-hub/internal/delivery/httpd"
	"github.com/RubachokBoss/academic-hub/internal/repository"
	"github.com/RubachokBoss/academic-hub/internal/service"
	"github.com/RubachokBoss/academic-hub/internal/service/integration"
	"github.com/RubachokBoss/academic-hub/internal/session"
)

type App struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	store     *repository.Store
	sessions  *session.Manager
	publisher integration.EventPublisher

	janitorCtx  context.Context
	stopJanitor context.CancelFunc
	janitorOnce sync.Once
	janitorDone chan struct{}
}

func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	store, err := openStore(cfg, log)
	if err != nil {
		return nil, err
	}

	publisher := integration.NewNoopPublisher()
	if cfg.RabbitMQ.Enabled {
		p, err := integration.NewRabbitMQPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			// Events are optional; keep serving without them.
			log.Error().Err(err).Msg("Failed to create RabbitMQ publisher")
		} else {
			publisher = p
		}
	}

	var backups integration.BackupStorage
	if cfg.Backup.Enabled {
		b, err := integration.NewMinIOStorage(integration.MinIOConfig{
			Endpoint:  cfg.Backup.Endpoint,
			AccessKey: cfg.Backup.AccessKey,
			SecretKey: cfg.Backup.SecretKey,
			Bucket:    cfg.Backup.Bucket,
			Region:    cfg.Backup.Region,
			UseSSL:    cfg.Backup.UseSSL,
		}, log)
		if err != nil {
			store.Close()
			return nil, err
		}
		backups = b
	}

	sessions := session.NewManager(session.ManagerConfig{
		TTL:          cfg.Auth.SessionTTL,
		TickInterval: cfg.Timer.TickInterval,
	}, log)

	authService := service.NewAuthService(store.Users, sessions, publisher, service.AuthConfig{
		AdminUsername:       cfg.Auth.AdminUsername,
		AdminPasswordBypass: cfg.Auth.AdminPasswordBypass,
		BcryptCost:          cfg.Auth.BcryptCost,
	}, log)
	subjectService := service.NewSubjectService(store.Subjects, publisher, log)
	timerService := service.NewTimerService(store.Logs, publisher, log)
	noteService := service.NewNoteService(store.Logs, publisher, log)
	dashboardService := service.NewDashboardService(store.Subjects, store.Logs)
	adminService := service.NewAdminService(store, backups, cfg.Backup.Prefix, log)

	handler := httpd.NewHandler(
		authService,
		subjectService,
		timerService,
		noteService,
		dashboardService,
		adminService,
		sessions,
		httpd.CookieConfig{Name: cfg.Auth.CookieName, Secure: cfg.Auth.CookieSecure},
		log,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(httpd.AccessLog(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	janitorCtx, stopJanitor := context.WithCancel(context.Background())

	return &App{
		server:      server,
		logger:      log,
		config:      cfg,
		store:       store,
		sessions:    sessions,
		publisher:   publisher,
		janitorCtx:  janitorCtx,
		stopJanitor: stopJanitor,
		janitorDone: make(chan struct{}),
	}, nil
}

func openStore(cfg *config.Config, log zerolog.Logger) (*repository.Store, error) {
	if cfg.Storage.Driver == config.StorageDriverPostgres {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("Database connection established")
		return repository.NewPostgresStore(db, log), nil
	}

	return repository.NewCSVStore(repository.CSVStoreConfig{
		DataDir:      cfg.Storage.DataDir,
		UsersFile:    cfg.Storage.UsersFile,
		SubjectsFile: cfg.Storage.SubjectsFile,
		LogsFile:     cfg.Storage.LogsFile,
	}, log)
}

// Run starts the session janitor and serves until Shutdown.
func (a *App) Run() error {
	a.janitorOnce.Do(func() {
		go func() {
			defer close(a.janitorDone)
			a.sessions.Run(a.janitorCtx, a.config.Auth.SweepInterval)
		}()
	})

	a.logger.Info().Msgf("Starting academic hub on %s", a.config.Server.Address)
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down academic hub...")

	err := a.server.Shutdown(ctx)

	// Marks the janitor done when Run was never called.
	a.janitorOnce.Do(func() { close(a.janitorDone) })
	a.stopJanitor()
	<-a.janitorDone

	// Ends every session and its timer.
	a.sessions.Close()

	if err := a.publisher.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close event publisher")
	}

	if err := a.store.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close record store")
	}

	return err
}
