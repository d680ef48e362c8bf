package httpserver

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey = "request_id"
	userIDKey    = "userID"
)

// requestLogger tags each request with an id and logs one line when it is done.
// The route pattern is logged instead of the raw path so reset tokens stay out
// of the logs.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := uuid.NewString()
		c.Set(requestIDKey, id)
		c.Header(common.RequestIDHeaderName, id)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.logger.Info(c.Request.Context(), "request",
			"request_id", id,
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}

func (s *Server) onPanic(c *gin.Context, recovered any) {
	s.logger.Error(c.Request.Context(), "panic recovered",
		"request_id", c.GetString(requestIDKey),
		"panic", recovered,
	)
	c.AbortWithStatus(http.StatusInternalServerError)
}

// requireSession lets the request through only with a valid session cookie.
// The user id is put on the request context and the gin context; anything
// else goes to /login.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(common.SessionCookieName)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		userID, err := s.users.Authenticate(token)
		if err != nil {
			s.logger.Debug(c.Request.Context(), "session rejected", "error", err)
			s.clearSession(c)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(auth.WithUserID(c.Request.Context(), userID))
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// currentUser is only valid behind requireSession.
func currentUser(c *gin.Context) int64 {
	id, _ := auth.UserIDFromContext(c.Request.Context())
	return id
}
