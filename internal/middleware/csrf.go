package middleware

import (
	"context"
	"net/http"

	"ticket-storefront/internal/utils"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// CSRFMiddleware provides CSRF protection functionality
type CSRFMiddleware struct {
	store  sessions.Store
	logger *zap.Logger
}

// NewCSRFMiddleware creates a new CSRF middleware
func NewCSRFMiddleware(store sessions.Store, logger *zap.Logger) *CSRFMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSRFMiddleware{
		store:  store,
		logger: logger.Named("csrf"),
	}
}

// CSRFProtection rejects state-changing requests whose token does not match
// the session's
func (m *CSRFMiddleware) CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		session, _ := m.store.Get(r, SessionName)
		sessionToken, _ := session.Values[SessionCSRFKey].(string)

		requestToken := r.Header.Get("X-CSRF-Token")
		if requestToken == "" {
			requestToken = r.FormValue("csrf_token")
		}

		if sessionToken == "" || !utils.SecureCompare(requestToken, sessionToken) {
			m.logger.Warn("csrf token mismatch",
				zap.String("path", r.URL.Path),
				zap.String("request_id", GetRequestID(r.Context())),
				zap.Bool("session_token", sessionToken != ""))
			writeProblem(w, r, http.StatusForbidden, "Sessão expirada. Recarregue a página e tente novamente.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// EnsureCSRFToken makes sure the session holds a CSRF token and exposes it
// to templates through the request context
func (m *CSRFMiddleware) EnsureCSRFToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.store.Get(r, SessionName)
		if err != nil {
			m.logger.Debug("session unreadable, issuing new csrf token", zap.Error(err))
		}

		token, _ := session.Values[SessionCSRFKey].(string)
		if token == "" {
			token, err = utils.GenerateSecureToken(32)
			if err != nil {
				m.logger.Error("failed to generate csrf token", zap.Error(err))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			session.Values[SessionCSRFKey] = token
			if err := session.Save(r, w); err != nil {
				m.logger.Error("failed to save session", zap.Error(err))
			}
		}

		ctx := SetCSRFToken(r.Context(), token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCSRFToken returns the token placed by EnsureCSRFToken
func GetCSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfContextKey).(string)
	return token
}

// SetCSRFToken returns a context carrying token
func SetCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfContextKey, token)
}
