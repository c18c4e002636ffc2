package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/safar/vendor-portal/internal/auth"
	"github.com/safar/vendor-portal/internal/locale"
	"github.com/safar/vendor-portal/internal/models"
	"github.com/safar/vendor-portal/internal/router"
)

const langCookie = "lang"

func localeFor(r *http.Request) locale.State {
	explicit := ""
	if c, err := r.Cookie(langCookie); err == nil {
		explicit = c.Value
	}
	return locale.Resolve(explicit, r.Header.Get("Accept-Language"))
}

type signInResponse struct {
	Session *auth.Session `json:"session"`
	Token   string        `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, http.StatusOK, map[string]any{
			"roles": []models.Role{models.RoleAdmin, models.RoleVendor},
		}, nil)

	case http.MethodPost:
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			Role     string `json:"role"`
		}
		if err := decodeBody(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		role, err := auth.ParseRole(req.Role)
		if err != nil {
			writeError(w, err, nil)
			return
		}

		session, token, err := s.Sessions.SignIn(r.Context(), req.Email, req.Password, role)
		if err != nil {
			result := "error"
			if errors.Is(err, auth.ErrInvalidCredentials) {
				result = "invalid"
			}
			s.Metrics.SignIns.WithLabelValues(string(role), result).Inc()
			writeError(w, err, models.Failure(
				"Login failed",
				"Invalid credentials. Use 'password' as the password.",
			))
			return
		}
		s.Metrics.SignIns.WithLabelValues(string(role), "ok").Inc()
		s.Metrics.ActiveSessions.Set(float64(s.Sessions.Count()))

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		respondJSON(w, http.StatusOK, view{
			Screen:  router.ScreenSignIn,
			Locale:  localeFor(r),
			Session: session,
			Data:    signInResponse{Session: session, Token: token},
			Notification: models.Success(
				"Login successful",
				fmt.Sprintf("Welcome to the %s portal!", role),
			),
			Redirect: router.Home(role),
		})

	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if session := s.sessionFor(r); session != nil {
		s.Sessions.SignOut(session.ID)
		s.Metrics.ActiveSessions.Set(float64(s.Sessions.Count()))
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	redirect(w, router.SignInPath)
}

// handleLocale reports the locale, or on POST switches it. A POST naming a
// language selects it; an empty POST toggles.
func (s *Server) handleLocale(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respondJSON(w, http.StatusOK, localeFor(r))

	case http.MethodPost:
		var req struct {
			Language string `json:"language"`
		}
		if err := decodeBody(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		next := localeFor(r).Toggle()
		if req.Language != "" {
			lang, ok := locale.Parse(req.Language)
			if !ok {
				respondError(w, http.StatusBadRequest, "Unsupported language")
				return
			}
			next = locale.New(lang)
		}

		http.SetCookie(w, &http.Cookie{
			Name:     langCookie,
			Value:    string(next.Language),
			Path:     "/",
			SameSite: http.SameSiteLaxMode,
		})
		respondJSON(w, http.StatusOK, next)

	default:
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
