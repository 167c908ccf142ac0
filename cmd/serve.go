package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc/health"

	grpchealth "github.com/dtroode/medapp-server/internal/api/grpc/health"
	grpcrouter "github.com/dtroode/medapp-server/internal/api/grpc/router"
	grpcserver "github.com/dtroode/medapp-server/internal/api/grpc/server"
	restctx "github.com/dtroode/medapp-server/internal/api/rest/context"
	restrouter "github.com/dtroode/medapp-server/internal/api/rest/router"
	restserver "github.com/dtroode/medapp-server/internal/api/rest/server"
	"github.com/dtroode/medapp-server/internal/config"
	"github.com/dtroode/medapp-server/internal/crypto"
	"github.com/dtroode/medapp-server/internal/logger"
	"github.com/dtroode/medapp-server/internal/model"
	"github.com/dtroode/medapp-server/internal/notify"
	"github.com/dtroode/medapp-server/internal/password"
	"github.com/dtroode/medapp-server/internal/realtime"
	"github.com/dtroode/medapp-server/internal/repository/memory"
	"github.com/dtroode/medapp-server/internal/repository/postgres"
	redisrepo "github.com/dtroode/medapp-server/internal/repository/redis"
	"github.com/dtroode/medapp-server/internal/server"
	"github.com/dtroode/medapp-server/internal/service"
	"github.com/dtroode/medapp-server/internal/storage/minio"
	"github.com/dtroode/medapp-server/internal/token"
)

const (
	shutdownTimeout     = 10 * time.Second
	healthCheckInterval = 15 * time.Second
)

func newServeCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the ops gRPC server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
			defer stop()

			return serve(ctx, cfg, log)
		},
	}
}

// stores holds the persistence backends selected by configuration.
type stores struct {
	users     model.UserStore
	messages  model.MessageStore
	deletions model.DeletionStore
	audit     model.AuditStore
	storage   model.Storage
	pingers   map[string]model.Pinger
	closers   []func() error
}

func (s *stores) Close(log *logger.Logger) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Error("failed to close store", "error", err.Error())
		}
	}
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	s := &stores{pingers: make(map[string]model.Pinger)}

	switch cfg.Database.Backend {
	case config.BackendPostgres:
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		s.closers = append(s.closers, db.Close)
		s.pingers["database"] = db
		s.users = postgres.NewUserRepository(db)
		s.messages = postgres.NewMessageRepository(db)
		s.audit = postgres.NewAuditRepository(db)
		if cfg.Deletion.Backend == config.BackendPostgres {
			s.deletions = postgres.NewDeletionRepository(db)
		}
	default:
		log.Warn("Using in-memory stores, data will be lost on restart")
		users := memory.NewUserStore()
		s.pingers["database"] = users
		s.users = users
		s.messages = memory.NewMessageStore()
		s.audit = memory.NewAuditStore()
	}

	switch cfg.Deletion.Backend {
	case config.BackendRedis:
		client, err := redisrepo.NewClient(ctx, cfg.Redis)
		if err != nil {
			s.Close(log)
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		s.closers = append(s.closers, client.Close)
		repo := redisrepo.NewDeletionRepository(client, cfg.Deletion.Retention)
		s.pingers["redis"] = repo
		s.deletions = repo
	case config.BackendMemory:
		s.deletions = memory.NewDeletionStore()
	}

	if cfg.Storage.Enabled {
		client, err := minio.Connect(ctx, cfg.Storage)
		if err != nil {
			s.Close(log)
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		s.storage = client
	} else {
		log.Warn("Object storage disabled, keeping files in memory")
		s.storage = memory.NewStorage()
	}

	return s, nil
}

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close(log)

	key, err := cfg.Encryption.KeyBytes()
	if err != nil {
		return err
	}
	encryptor, err := crypto.NewAESGCM(key)
	if err != nil {
		return err
	}

	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.AccessTTL)
	hasher := password.NewBcrypt(cfg.Bcrypt.Cost)
	ctxMgr := restctx.NewManager()
	hub := realtime.NewHub(log)

	authService := service.NewAuth(st.users, hasher, tokenManager, encryptor, log)
	tokenService := service.NewTokenService(tokenManager, st.users, log)
	deletionService := service.NewDeletion(service.DeletionDeps{
		Deletions: st.deletions,
		Users:     st.users,
		Messages:  st.messages,
		Storage:   st.storage,
		Sessions:  hub,
		Audit:     st.audit,
		Notifier:  notify.NewLogNotifier(log),
		Context:   ctxMgr,
	}, service.DeletionConfig{
		CodeTTL:       cfg.Deletion.CodeTTL,
		MaxAttempts:   cfg.Deletion.MaxAttempts,
		NotifyTimeout: cfg.Deletion.NotifyTimeout,
	}, log)
	profileService := service.NewProfile(st.users, encryptor, st.storage, log)
	messageService := service.NewMessages(st.messages, st.users, encryptor, log)

	router := restrouter.New(restrouter.Services{
		Auth:     authService,
		Tokens:   tokenService,
		Deletion: deletionService,
		Profile:  profileService,
		Messages: messageService,
		Sessions: hub,
	}, ctxMgr, log)
	httpServer := restserver.NewHTTPServer(router.Register(), cfg.HTTP.Address())

	healthServer := health.NewServer()
	checker := grpchealth.NewChecker(healthServer, st.pingers, healthCheckInterval, log)
	grpcServer := grpcserver.NewGRPCServer(grpcrouter.New(healthServer, log).Register(), cfg.GRPC.Address())

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	var wg sync.WaitGroup
	background := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	background(func() { checker.Run(runCtx) })
	background(func() {
		service.NewJanitor(st.deletions, cfg.Deletion.JanitorInterval, cfg.Deletion.Retention, log).Run(runCtx)
	})

	errCh := make(chan error, 2)
	start := func(name string, s model.Server, sl model.SecurityLayer) {
		background(func() {
			log.Info("Starting server", "server", name, "address", s.Address())
			if err := s.Start(sl); err != nil {
				errCh <- fmt.Errorf("%s server: %w", name, err)
			}
		})
	}
	start("http", httpServer, server.NewSecurityLayer(cfg.HTTP))
	start("grpc", grpcServer, server.NewSecurityLayer(cfg.GRPC))

	log.Info("Server started",
		"version", buildVersion,
		"build_date", buildDate,
		"commit", buildCommit,
		"database", cfg.Database.Backend,
		"deletion_store", cfg.Deletion.Backend)

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Received interruption signal, shutting down")
	case runErr = <-errCh:
		log.Error("Server failed, shutting down", "error", runErr.Error())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if n := hub.CloseAll(); n > 0 {
		log.Info("Closed live sessions", "count", n)
	}
	var errs []error
	for _, s := range []model.Server{httpServer, grpcServer} {
		if err := s.Stop(shutdownCtx); err != nil {
			errs = append(errs, err)
			log.Error("Error during server shutdown", "address", s.Address(), "error", err.Error())
		}
	}

	cancelRun()
	wg.Wait()
	deletionService.Wait()
	log.Info("Shutdown complete")

	return errors.Join(append([]error{runErr}, errs...)...)
}
