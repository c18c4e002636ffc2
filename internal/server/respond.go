package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/safar/vendor-portal/internal/auth"
	"github.com/safar/vendor-portal/internal/database"
	"github.com/safar/vendor-portal/internal/locale"
	"github.com/safar/vendor-portal/internal/models"
	"github.com/safar/vendor-portal/internal/orderbuilder"
	"github.com/safar/vendor-portal/internal/router"
)

// view is the envelope every screen answers with.
type view struct {
	Screen       router.Screen        `json:"screen,omitempty"`
	Locale       locale.State         `json:"locale"`
	Session      *auth.Session        `json:"session,omitempty"`
	Data         any                  `json:"data,omitempty"`
	Notification *models.Notification `json:"notification,omitempty"`
	Redirect     string               `json:"redirect,omitempty"`
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, data any, n *models.Notification) {
	session, screen := sessionFrom(r.Context())
	respondJSON(w, status, view{
		Screen:       screen,
		Locale:       localeFor(r),
		Session:      session,
		Data:         data,
		Notification: n,
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func redirect(w http.ResponseWriter, location string) {
	w.Header().Set("Location", location)
	respondJSON(w, http.StatusFound, map[string]string{"redirect": location})
}

type errorBody struct {
	Error        string               `json:"error"`
	Fields       []models.FieldError  `json:"fields,omitempty"`
	Notification *models.Notification `json:"notification,omitempty"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, orderbuilder.ErrNoVendor),
		errors.Is(err, orderbuilder.ErrProductUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrInvalidRole),
		errors.Is(err, models.ErrUnknownOrderStatus):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrVendorNotFound),
		errors.Is(err, database.ErrProductNotFound),
		errors.Is(err, database.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrOrderFinal),
		errors.Is(err, database.ErrOptimisticLockFailed):
		return http.StatusConflict
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the status for err and an optional notification.
// Server errors are logged and their detail withheld.
func writeError(w http.ResponseWriter, err error, n *models.Notification) {
	status := statusFor(err)
	body := errorBody{Error: err.Error(), Notification: n}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}
	if status >= http.StatusInternalServerError {
		log.Printf("Request failed: %v", err)
		body.Error = http.StatusText(status)
	}

	respondJSON(w, status, body)
}

func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
