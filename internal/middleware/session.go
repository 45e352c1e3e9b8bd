package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// SessionName is the cookie holding the storefront session
const SessionName = "storefront"

// Session value keys
const (
	SessionCustomerKey = "customer_id"
	SessionCartKey     = "cart_id"
	SessionCSRFKey     = "csrf_token"
	SessionStepKey     = "step"
)

type contextKey string

const (
	visitorContextKey   contextKey = "visitor"
	csrfContextKey      contextKey = "csrf_token"
	requestIDContextKey contextKey = "request_id"
)

// Visitor identifies the browser session a request belongs to
type Visitor struct {
	CustomerID string
	CartID     string
}

// SessionMiddleware binds every request to a visitor stored in the session
type SessionMiddleware struct {
	store             sessions.Store
	customerParam     string
	defaultCustomerID string
	logger            *zap.Logger
}

// NewSessionMiddleware creates a new session middleware. A non-empty
// customerParam selects the customer; without it the session keeps its
// customer, falling back to defaultCustomerID.
func NewSessionMiddleware(store sessions.Store, customerParam, defaultCustomerID string, logger *zap.Logger) *SessionMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionMiddleware{
		store:             store,
		customerParam:     customerParam,
		defaultCustomerID: defaultCustomerID,
		logger:            logger.Named("session"),
	}
}

// LoadVisitor ensures the session carries a customer id and a cart id and
// puts the resulting Visitor into the request context. Switching customers
// starts a new cart and resets the storefront step.
func (m *SessionMiddleware) LoadVisitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.store.Get(r, SessionName)
		if err != nil {
			m.logger.Debug("discarding unreadable session", zap.Error(err))
		}

		changed := false

		customerID, _ := session.Values[SessionCustomerKey].(string)
		requested := m.customerFromQuery(r)
		switch {
		case requested != "" && requested != customerID:
			if customerID != "" {
				m.logger.Info("switching customer", zap.String("customer_id", requested))
				delete(session.Values, SessionCartKey)
				delete(session.Values, SessionStepKey)
			}
			customerID = requested
			session.Values[SessionCustomerKey] = customerID
			changed = true
		case customerID == "":
			customerID = m.defaultCustomerID
			session.Values[SessionCustomerKey] = customerID
			changed = true
		}

		cartID, _ := session.Values[SessionCartKey].(string)
		if cartID == "" {
			cartID = uuid.NewString()
			session.Values[SessionCartKey] = cartID
			changed = true
		}

		if changed {
			if err := session.Save(r, w); err != nil {
				m.logger.Error("failed to save session", zap.Error(err))
			}
		}

		ctx := SetVisitorContext(r.Context(), &Visitor{CustomerID: customerID, CartID: cartID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// customerFromQuery returns the opaque customer id of the request, or ""
func (m *SessionMiddleware) customerFromQuery(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get(m.customerParam))
}

// GetVisitor returns the visitor of the request, or nil outside LoadVisitor
func GetVisitor(ctx context.Context) *Visitor {
	visitor, _ := ctx.Value(visitorContextKey).(*Visitor)
	return visitor
}

// SetVisitorContext sets the visitor in the context
func SetVisitorContext(ctx context.Context, visitor *Visitor) context.Context {
	return context.WithValue(ctx, visitorContextKey, visitor)
}

// IsHTMXRequest checks if the request is from HTMX
func IsHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
