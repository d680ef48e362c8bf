package httpserver

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/gin-gonic/gin"
)

// Flash levels, also used as CSS classes.
const (
	flashError   = "error"
	flashInfo    = "info"
	flashSuccess = "success"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level   string `json:"l"`
	Message string `json:"m"`
}

func (s *Server) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", s.secureCookies, true)
}

func (s *Server) setSession(c *gin.Context, token string) {
	s.setCookie(c, common.SessionCookieName, token, int(s.sessionTTL.Seconds()))
}

func (s *Server) clearSession(c *gin.Context) {
	s.setCookie(c, common.SessionCookieName, "", -1)
}

// flash queues a message for the page the client is redirected to.
// Messages are appended to any not yet shown.
func (s *Server) flash(c *gin.Context, level, message string) {
	msgs := append(readFlashes(c), Flash{Level: level, Message: message})
	b, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	s.setCookie(c, common.FlashCookieName, base64.RawURLEncoding.EncodeToString(b), 0)
}

// takeFlashes returns pending messages and clears the cookie.
func (s *Server) takeFlashes(c *gin.Context) []Flash {
	msgs := readFlashes(c)
	if len(msgs) > 0 {
		s.setCookie(c, common.FlashCookieName, "", -1)
	}
	return msgs
}

func readFlashes(c *gin.Context) []Flash {
	raw, err := c.Cookie(common.FlashCookieName)
	if err != nil || raw == "" {
		return nil
	}
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var msgs []Flash
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil
	}
	return msgs
}
