package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yukikurage/team-task-board/internal/config"
	"github.com/yukikurage/team-task-board/internal/constants"
	"github.com/yukikurage/team-task-board/internal/database"
	"github.com/yukikurage/team-task-board/internal/handlers"
	"github.com/yukikurage/team-task-board/internal/logging"
	"github.com/yukikurage/team-task-board/internal/ordering"
	"github.com/yukikurage/team-task-board/internal/repository"
	"github.com/yukikurage/team-task-board/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logging.Setup(cfg); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	db := database.GetDB()

	// Run migrations
	if err := database.MigrateDatabase(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Sessions and the change feed for live boards
	isProduction := cfg.GinMode == gin.ReleaseMode
	infra, err := setupBackends(ctx, cfg.RedisAddr(), cfg.EventsChannel, []byte(cfg.SessionSecret), isProduction)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	defer infra.close()
	bus := infra.bus

	// Repositories and services
	userRepo := repository.NewUserRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	var orderingOpts []ordering.Option
	if cfg.ReorderMode == config.ReorderModeSequential {
		orderingOpts = append(orderingOpts, ordering.Sequential())
	}

	authService := services.NewAuthService(userRepo, deptRepo, cfg.IsAdmin)
	taskService := services.NewTaskService(taskRepo, deptRepo, userRepo, bus, orderingOpts...)

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), logging.GinLogger())

	// Session middleware
	r.Use(sessions.Sessions(constants.SessionCookieName, infra.store))

	handlers.RegisterRoutes(r, authService, taskService, deptRepo, bus)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		// Open event streams end with ctx instead of holding up Shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(log.Fields{
			"port":         cfg.Port,
			"reorder_mode": cfg.ReorderMode,
		}).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Info("Server stopped")
}
