package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskboard/internal/config"
	apphttp "taskboard/internal/http"
	"taskboard/internal/repository"
	"taskboard/internal/repository/memory"
	mongorepo "taskboard/internal/repository/mongo"
	"taskboard/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userRepo, taskRepo, storeMode, cleanup := buildRepositories(ctx, cfg, logger)
	defer cleanup()

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := taskRepo.Init(ctx); err != nil {
		logger.Fatalf("init task repository: %v", err)
	}

	userService := service.NewUserService(userRepo)
	taskService := service.NewTaskService(taskRepo, userRepo)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(apphttp.RequestLogger(logger))
	handler := apphttp.NewHandler(userService, taskService, storeMode)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s (store: %s)", cfg.Server.Addr, storeMode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

// buildRepositories picks the store mode once at startup: a reachable
// MongoDB means durable mode, otherwise the process-local fallback. The
// choice is never re-evaluated while serving.
func buildRepositories(
	ctx context.Context,
	cfg config.Config,
	logger *logrus.Logger,
) (repository.UserRepository, repository.TaskRepository, string, func()) {
	client, err := mongorepo.Connect(ctx, cfg.Database.URI, cfg.Database.Timeout)
	if err != nil {
		logger.Warnf("mongodb unavailable, falling back to in-memory store: %v", err)
		store := memory.NewStore()
		return memory.NewUserRepository(store), memory.NewTaskRepository(store), "memory", func() {}
	}

	logger.Infof("connected to mongodb (database %s)", cfg.Database.Name)
	db := client.Database(cfg.Database.Name)
	cleanup := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Warnf("mongodb disconnect: %v", err)
		}
	}
	return mongorepo.NewUserRepository(db), mongorepo.NewTaskRepository(db), "mongodb", cleanup
}
