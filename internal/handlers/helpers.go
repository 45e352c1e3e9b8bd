package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"ticket-storefront/internal/middleware"
	"ticket-storefront/internal/models"
)

// render writes a component with the given status code
func render(w http.ResponseWriter, r *http.Request, logger *zap.Logger, status int, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := component.Render(r.Context(), w); err != nil {
		logger.Error("failed to render page", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

// handleRedirect handles redirects appropriately for HTMX vs regular requests
func handleRedirect(w http.ResponseWriter, r *http.Request, url string, statusCode int) {
	if middleware.IsHTMXRequest(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, statusCode)
}

// requestVisitor returns the visitor bound by the session middleware. A
// missing visitor is a wiring error and answers 500.
func requestVisitor(w http.ResponseWriter, r *http.Request) (*middleware.Visitor, bool) {
	visitor := middleware.GetVisitor(r.Context())
	if visitor == nil {
		http.Error(w, "Session error", http.StatusInternalServerError)
		return nil, false
	}
	return visitor, true
}

// requestGone reports whether the client went away while a remote call was
// in progress; nothing is rendered or stored for such requests.
func requestGone(r *http.Request) bool {
	return r.Context().Err() != nil
}

// loadShell reads the buy-tickets step kept in the session
func loadShell(store sessions.Store, r *http.Request) models.Shell {
	shell := models.NewShell()
	if session, err := store.Get(r, middleware.SessionName); err == nil {
		step, _ := session.Values[middleware.SessionStepKey].(string)
		shell.Step = models.ParseStep(step)
	}
	return shell
}

// saveShell stores the step of the navigation state in the session
func saveShell(store sessions.Store, w http.ResponseWriter, r *http.Request, shell models.Shell) error {
	session, err := store.Get(r, middleware.SessionName)
	if err != nil && session == nil {
		return err
	}
	session.Values[middleware.SessionStepKey] = string(shell.Step)
	return session.Save(r, w)
}
