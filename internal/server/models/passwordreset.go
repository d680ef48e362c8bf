package models

import "time"

// PasswordReset is a single-use reset token issued to a user.
// CreatedAt is stored as unix seconds.
type PasswordReset struct {
	ID        int64
	UserID    int64
	Token     string
	CreatedAt int64
}

// Age returns how long ago the token was issued, relative to now.
func (p *PasswordReset) Age(now time.Time) time.Duration {
	return time.Duration(now.Unix()-p.CreatedAt) * time.Second
}

// Expired reports whether the token is ttl or more old at now.
func (p *PasswordReset) Expired(now time.Time, ttl time.Duration) bool {
	return p.Age(now) >= ttl
}
