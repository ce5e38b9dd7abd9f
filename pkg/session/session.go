// Package session tracks who is looking at the web views.
//
// A [Session] is either anonymous or belongs to a signed-in user, and
// records whether that user has linked a GitHub account. The server
// resolves the session from a cookie and hands it to the views explicitly:
//
//	sess, err := store.Get(ctx, cookie.Value)
//	if sess == nil {
//	    sess = session.Anonymous()
//	}
//	model := cta.CTA(sess, "search")
//
// Stores:
//   - [MemoryStore]: in-process, for tests and single-instance servers
//   - [FileStore]: JSON files under ~/.config/stacknotes/sessions
//   - [RedisStore]: shared across server instances
//
// OAuth state tokens ([StateStore]) guard the GitHub link flow against
// CSRF; they are single-use and short-lived.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/stacknotes/pkg/integrations/github"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidID is returned for ids that could not have been generated.
	ErrInvalidID = errors.New("invalid session id")

	// ErrInvalidState is returned when an OAuth state token is invalid or already used.
	ErrInvalidState = errors.New("invalid or expired state token")
)

// User is the signed-in account behind a session.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Session stores per-visitor state.
type Session struct {
	ID   string `json:"id"`
	User *User  `json:"user,omitempty"`

	// LinkedGitHub is set once the user has connected a GitHub account.
	LinkedGitHub bool         `json:"linked_github"`
	GitHubUser   *github.User `json:"github_user,omitempty"`
	AccessToken  string       `json:"access_token,omitempty"`

	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// SignedIn reports whether the session belongs to a user.
func (s *Session) SignedIn() bool {
	return s != nil && s.User != nil
}

// HasLinkedGitHub reports whether the session's user linked GitHub.
// Nil and anonymous sessions never have.
func (s *Session) HasLinkedGitHub() bool {
	return s.SignedIn() && s.LinkedGitHub
}

// LinkGitHub records a completed GitHub OAuth exchange.
func (s *Session) LinkGitHub(user *github.User, token string) {
	s.LinkedGitHub = true
	s.GitHubUser = user
	s.AccessToken = token
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (may be a no-op).
	Cleanup(ctx context.Context) error
}

// StateStore manages OAuth state tokens for CSRF protection.
type StateStore interface {
	// Generate creates a new state token bound to data (typically the
	// session id and return location) and stores it with the given TTL.
	Generate(ctx context.Context, data string, ttl time.Duration) (string, error)

	// Consume validates and removes a state token, returning its data.
	// Unknown, expired or reused tokens yield ErrInvalidState.
	Consume(ctx context.Context, state string) (string, error)
}

// Default durations.
const (
	DefaultTTL      = 30 * 24 * time.Hour
	DefaultStateTTL = 10 * time.Minute
)

// GenerateID creates a cryptographically secure random session ID.
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ValidateID rejects ids that GenerateID could not have produced, so ids
// from cookies are safe to use as file names and keys.
func ValidateID(id string) error {
	if len(id) == 0 || len(id) > 128 {
		return ErrInvalidID
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
	}
	return nil
}

// New creates a session for user. A nil user creates an anonymous
// session that can be persisted (to attach a later sign-in to it).
func New(user *User, ttl time.Duration) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Session{
		ID:        id,
		User:      user,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}

// Anonymous returns an unsaved session with no user.
func Anonymous() *Session {
	now := time.Now()
	return &Session{CreatedAt: now, ExpiresAt: now.Add(DefaultTTL)}
}
