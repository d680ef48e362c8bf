// Package server initializes and runs the task tracker: it opens the
// database, applies migrations, wires services and serves the web UI until
// a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/tasktracker/internal/cryptox"
	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/config"
	"github.com/dmitrijs2005/tasktracker/internal/server/httpserver"
	"github.com/dmitrijs2005/tasktracker/internal/server/services"
	"github.com/gin-gonic/gin"
)

// logOutput is where the JSON log goes; tests swap it.
var logOutput io.Writer = os.Stdout

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	userService  *services.UserService
	resetService *services.ResetService
	taskService  *services.TaskService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(logOutput, c.LogLevel)

	if c.UsesDefaultSecret() {
		logger.Warn(ctx, "session secret is the built-in default, set -s or SECRET_KEY")
	}

	db, rm, err := OpenStore(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	hasher, err := cryptox.NewHasher(c.BcryptCost)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:       c,
		logger:       logger,
		db:           db,
		userService:  services.NewUserService(db, rm, hasher, c, logger),
		resetService: services.NewResetService(db, rm, hasher, c, logger),
		taskService:  services.NewTaskService(db, rm, logger),
	}, nil
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
	s := httpserver.NewServer(app.config, app.logger, app.userService, app.resetService, app.taskService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until the server stops, then closes the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	if app.config.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
