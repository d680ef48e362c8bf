package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/cryptox"
	"github.com/gin-gonic/gin"
)

func (s *Server) registerPage(c *gin.Context) {
	s.render(c, "register.html", gin.H{"Title": "Register"})
}

func (s *Server) register(c *gin.Context) {
	_, err := s.users.Register(c.Request.Context(), c.PostForm("email"), c.PostForm("password"))
	switch {
	case err == nil:
		s.flash(c, flashSuccess, "Registration successful. Login now.")
		c.Redirect(http.StatusFound, "/login")
	case errors.Is(err, common.ErrDuplicateEmail):
		s.flash(c, flashError, "Email already registered")
		c.Redirect(http.StatusFound, "/register")
	case errors.Is(err, cryptox.ErrPasswordTooLong):
		s.flash(c, flashError, "Password is too long")
		c.Redirect(http.StatusFound, "/register")
	case errors.Is(err, common.ErrorValidation):
		s.flash(c, flashError, "Email and password are required")
		c.Redirect(http.StatusFound, "/register")
	default:
		s.internalError(c, err)
	}
}

func (s *Server) loginPage(c *gin.Context) {
	s.render(c, "login.html", gin.H{"Title": "Login"})
}

func (s *Server) login(c *gin.Context) {
	_, token, err := s.users.Login(c.Request.Context(), c.PostForm("email"), c.PostForm("password"))
	switch {
	case err == nil:
		s.setSession(c, token)
		c.Redirect(http.StatusFound, "/")
	case errors.Is(err, common.ErrInvalidCredentials):
		s.flash(c, flashError, "Invalid email or password")
		c.Redirect(http.StatusFound, "/login")
	default:
		s.internalError(c, err)
	}
}

func (s *Server) logout(c *gin.Context) {
	s.clearSession(c)
	c.Redirect(http.StatusFound, "/login")
}

func (s *Server) forgotPasswordPage(c *gin.Context) {
	s.render(c, "forgot_password.html", gin.H{"Title": "Forgot password"})
}

// forgotPassword shows the reset link in a flash message; there is no mail
// delivery. It also tells whether the email is registered.
func (s *Server) forgotPassword(c *gin.Context) {
	token, err := s.resets.Issue(c.Request.Context(), c.PostForm("email"))
	switch {
	case err == nil:
		s.flash(c, flashInfo, "Reset link: "+s.baseURL+"/reset/"+token)
		c.Redirect(http.StatusFound, "/login")
	case errors.Is(err, common.ErrUnknownEmail):
		s.flash(c, flashError, "Email not found")
		c.Redirect(http.StatusFound, "/forgot-password")
	default:
		s.internalError(c, err)
	}
}

func (s *Server) resetPage(c *gin.Context) {
	token := c.Param("token")
	_, err := s.resets.Validate(c.Request.Context(), token)
	if err != nil {
		s.resetFailed(c, err)
		return
	}
	s.render(c, "reset_password.html", gin.H{"Title": "Reset password", "Token": token})
}

func (s *Server) reset(c *gin.Context) {
	token := c.Param("token")
	err := s.resets.Consume(c.Request.Context(), token, c.PostForm("password"))
	switch {
	case err == nil:
		s.flash(c, flashSuccess, "Password reset successful. Login now.")
		c.Redirect(http.StatusFound, "/login")
	case errors.Is(err, cryptox.ErrPasswordTooLong):
		s.flash(c, flashError, "Password is too long")
		c.Redirect(http.StatusFound, "/reset/"+token)
	case errors.Is(err, common.ErrorValidation):
		s.flash(c, flashError, "Password is required")
		c.Redirect(http.StatusFound, "/reset/"+token)
	default:
		s.resetFailed(c, err)
	}
}

func (s *Server) resetFailed(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		s.flash(c, flashError, "Reset link expired")
		c.Redirect(http.StatusFound, "/login")
	case errors.Is(err, common.ErrInvalidToken):
		s.flash(c, flashError, "Invalid or expired reset link")
		c.Redirect(http.StatusFound, "/login")
	default:
		s.internalError(c, err)
	}
}

func (s *Server) internalError(c *gin.Context, err error) {
	s.logger.Error(c.Request.Context(), "request failed",
		"request_id", c.GetString(requestIDKey),
		"route", c.FullPath(),
		"error", err,
	)
	c.String(http.StatusInternalServerError, "internal server error")
}
