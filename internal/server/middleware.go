package server

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/safar/vendor-portal/internal/auth"
	"github.com/safar/vendor-portal/internal/router"
)

const sessionCookie = "portal_session"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		s.Metrics.Requests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		s.Metrics.RequestSec.Observe(elapsed.Seconds())
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, elapsed)
	})
}

type sessionKey struct{}

type requestState struct {
	session *auth.Session
	screen  router.Screen
}

func withSession(ctx context.Context, session *auth.Session, screen router.Screen) context.Context {
	return context.WithValue(ctx, sessionKey{}, requestState{session: session, screen: screen})
}

// sessionFrom returns the session and screen the guard resolved. The session
// is nil for anonymous requests.
func sessionFrom(ctx context.Context) (*auth.Session, router.Screen) {
	st, _ := ctx.Value(sessionKey{}).(requestState)
	return st.session, st.screen
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// sessionFor resolves the caller's session. Missing, expired and revoked
// tokens all read as anonymous.
func (s *Server) sessionFor(r *http.Request) *auth.Session {
	token := bearerToken(r)
	if token == "" {
		return nil
	}
	session, err := s.Sessions.Authenticate(token)
	if err != nil {
		return nil
	}
	return session
}

func (s *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := s.sessionFor(r)

		d := router.Resolve(r.URL.Path, session)
		switch d.Outcome {
		case router.Redirect:
			redirect(w, d.Location)
			return
		case router.NotFound:
			respondError(w, http.StatusNotFound, "Page not found")
			return
		}

		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), session, d.Screen)))
	})
}
