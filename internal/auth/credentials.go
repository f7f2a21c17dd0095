package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Sessions slide: every successful resolve pushes expiry out again.
const defaultSessionTTL = 30 * 24 * time.Hour

// 3-32 chars, leading dot/dash disallowed.
var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]{2,31}$`)

// checkCredentials validates a registration request. Password length
// is capped at 72 because bcrypt ignores everything past that.
func checkCredentials(username, password string) error {
	if !usernameRe.MatchString(strings.TrimSpace(username)) {
		return ErrInvalidUsername
	}
	if len(password) < 6 || len(password) > 72 {
		return ErrInvalidPassword
	}
	return nil
}

// normalizeUsername is applied before every store lookup so that
// "Alice" and "alice" are the same account.
func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// newSessionToken returns 32 bytes of entropy in URL-safe base64.
func newSessionToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
