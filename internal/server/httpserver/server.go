// Package httpserver serves the task tracker web UI: account pages,
// password reset links and the per-user task board.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/config"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Accounts is the part of the user service the handlers need.
type Accounts interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Authenticate(token string) (int64, error)
}

// Resets is the part of the reset service the handlers need.
type Resets interface {
	Issue(ctx context.Context, email string) (string, error)
	Validate(ctx context.Context, token string) (int64, error)
	Consume(ctx context.Context, token, newPassword string) error
}

// Tasks is the task service as seen by the handlers.
type Tasks interface {
	Create(ctx context.Context, userID int64, in models.TaskInput) (*models.Task, error)
	List(ctx context.Context, userID int64, filter models.TaskFilter) ([]models.Task, models.Summary, error)
	Get(ctx context.Context, userID, taskID int64) (*models.Task, error)
	MarkDone(ctx context.Context, userID, taskID int64) error
	Update(ctx context.Context, userID, taskID int64, in models.TaskInput) error
	Delete(ctx context.Context, userID, taskID int64) error
}

type Server struct {
	address       string
	baseURL       string
	secureCookies bool
	sessionTTL    time.Duration
	users         Accounts
	resets        Resets
	tasks         Tasks
	logger        logging.Logger
	engine        *gin.Engine
}

func NewServer(cfg *config.Config, l logging.Logger, us Accounts, rs Resets, ts Tasks) *Server {
	s := &Server{
		address:       cfg.EndpointAddrHTTP,
		baseURL:       cfg.BaseURL,
		secureCookies: cfg.SecureCookies,
		sessionTTL:    cfg.SessionValidityDuration,
		users:         us,
		resets:        rs,
		tasks:         ts,
		logger:        l.With("module", "http_server"),
	}
	s.engine = s.routes()
	return s
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.requestLogger(), gin.CustomRecovery(s.onPanic))
	r.SetHTMLTemplate(mustParseTemplates())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/register", s.registerPage)
	r.POST("/register", s.register)
	r.GET("/login", s.loginPage)
	r.POST("/login", s.login)
	r.GET("/logout", s.logout)
	r.GET("/forgot-password", s.forgotPasswordPage)
	r.POST("/forgot-password", s.forgotPassword)
	r.GET("/reset/:token", s.resetPage)
	r.POST("/reset/:token", s.reset)

	board := r.Group("/")
	board.Use(s.requireSession())
	{
		board.GET("/", s.index)
		board.POST("/", s.createTask)
		board.GET("/done/:id", s.markDone)
		board.GET("/delete/:id", s.deleteTask)
		board.GET("/edit/:id", s.editPage)
		board.POST("/edit/:id", s.editTask)
	}

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
