package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/stacknotes/pkg/session"
)

type sessionKey struct{}

// sessionFromContext returns the request's session; never nil.
func sessionFromContext(ctx context.Context) *session.Session {
	if s, ok := ctx.Value(sessionKey{}).(*session.Session); ok && s != nil {
		return s
	}
	return session.Anonymous()
}

// loadSession resolves the session cookie. Unknown or expired ids fall
// back to an anonymous session.
func (s *Server) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.Anonymous()
		if c, err := r.Cookie(s.cfg.CookieName); err == nil && c.Value != "" {
			found, err := s.cfg.Sessions.Get(r.Context(), c.Value)
			if err != nil {
				s.logger.Warn("session lookup failed", "error", err)
			} else if found != nil {
				sess = found
			}
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sess *session.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
