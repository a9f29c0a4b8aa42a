package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// ContextKeyAuth is the Gin context key holding the request's AuthContext.
const ContextKeyAuth = "auth_context"

// SignupPath is where unauthenticated browsers are sent.
const SignupPath = "/signup"

// AuthContext is the resolved login state of a single request. It is
// produced once per request by the middleware and never mutated after;
// handlers read it instead of poking at the session directly.
type AuthContext struct {
	User *entities.User
}

// Authenticated reports whether the request carries a valid session
// that resolved to an existing user.
func (a AuthContext) Authenticated() bool {
	return a.User != nil
}

// UserID returns the session user's id, or 0 for anonymous requests.
func (a AuthContext) UserID() uint {
	if a.User == nil {
		return 0
	}
	return a.User.ID
}

// Middleware resolves sessions into AuthContext values.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service, sessionManager *SessionManager) *Middleware {
	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
	}
}

// Handler returns a Gin middleware that resolves the session cookie to
// an AuthContext. Each request is evaluated independently: a missing or
// expired token, or a user row that no longer exists, yields Anonymous
// rather than an error.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyAuth, m.resolve(c))
		c.Next()
	}
}

func (m *Middleware) resolve(c *gin.Context) AuthContext {
	if m.sessionManager == nil {
		return AuthContext{}
	}

	userID := m.sessionManager.GetUserID(c.Request)
	if userID == 0 {
		return AuthContext{}
	}

	user, err := m.service.GetUserByID(userID)
	if err != nil {
		return AuthContext{}
	}

	return AuthContext{User: user}
}

// RequireAuth returns a middleware that rejects anonymous requests by
// redirecting the browser to the signup page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentAuth(c).Authenticated() {
			c.Redirect(http.StatusFound, SignupPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentAuth retrieves the request's AuthContext. Requests that never
// passed the middleware resolve as Anonymous.
func CurrentAuth(c *gin.Context) AuthContext {
	if v, exists := c.Get(ContextKeyAuth); exists {
		if ac, ok := v.(AuthContext); ok {
			return ac
		}
	}
	return AuthContext{}
}
