// Package common contains shared constants and sentinel errors used across
// tasktracker components.
package common

// SessionCookieName is the cookie that carries the signed session token.
const SessionCookieName = "session"

// FlashCookieName is the cookie that carries one-shot flash messages
// between a redirect and the page it lands on.
const FlashCookieName = "flash"

// RequestIDHeaderName is echoed on every response so log lines can be
// correlated with a request.
const RequestIDHeaderName = "X-Request-ID"
