package auth

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// HomePath is where authenticated browsers land after login.
const HomePath = "/Home"

// Controller handles the authentication-related HTTP endpoints.
type Controller struct {
	service        *Service
	sessionManager *SessionManager
	throttle       *LoginThrottle
	templates      *template.Template
}

// NewController creates a new authentication controller. A missing or
// empty templates directory is tolerated: handlers fall back to JSON,
// which keeps the endpoints usable without the UI assets. A nil
// throttle disables login rate limiting.
func NewController(service *Service, sessionManager *SessionManager, throttle *LoginThrottle, templatesPath string) *Controller {
	var tmpl *template.Template
	if templatesPath != "" {
		pattern := filepath.Join(templatesPath, "*.html")
		if parsed, err := template.ParseGlob(pattern); err == nil {
			tmpl = parsed
		}
	}

	return &Controller{
		service:        service,
		sessionManager: sessionManager,
		throttle:       throttle,
		templates:      tmpl,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/signup", ac.SignupPage)
	router.GET("/login", ac.SignupPage) // historical alias
	router.GET("/register", ac.RegisterPage)
	router.POST("/signup", ac.Login)
	router.POST("/register", ac.Register)
	router.POST("/logout", ac.Logout)
	router.GET("/logout", ac.Logout) // Support GET for simple logout links
}

// SignupPage renders the combined signup/login form.
func (ac *Controller) SignupPage(c *gin.Context) {
	if ac.sessionManager != nil && ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, HomePath)
		return
	}

	ac.renderTemplate(c, "signup.html", gin.H{
		"Title":     "Sign in",
		"CSRFToken": GetCSRFToken(c),
		"Error":     c.Query("error"),
	})
}

// RegisterPage renders the registration form.
func (ac *Controller) RegisterPage(c *gin.Context) {
	ac.renderTemplate(c, "register.html", gin.H{
		"Title":     "Register",
		"CSRFToken": GetCSRFToken(c),
	})
}

// Login handles the login form submission. Any failure, wrong password
// or unknown user alike, bounces back to the signup page without
// detail; store faults are logged server-side. Repeated failures from
// the same client lock the pair out for a while.
func (ac *Controller) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if ac.throttle != nil {
		if allowed, retryAfter := ac.throttle.Allow(c.ClientIP(), username); !allowed {
			c.Header("Retry-After", retryAfter.String())
			c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
			return
		}
	}

	user, err := ac.service.Authenticate(username, password)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrInvalidPassword) {
			if ac.throttle != nil {
				ac.throttle.RecordFailure(c.ClientIP(), username)
			}
		} else {
			log.Printf("Login failed for %q: %v", username, err)
		}
		c.Redirect(http.StatusFound, SignupPath)
		return
	}

	if ac.throttle != nil {
		ac.throttle.RecordSuccess(c.ClientIP(), username)
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		log.Printf("Failed to create session for %q: %v", username, err)
		c.Redirect(http.StatusFound, SignupPath)
		return
	}

	c.Redirect(http.StatusFound, HomePath)
}

// Register creates a new account and immediately logs it in. The user
// insert and the session write are separate commits; if the session
// write fails the account still exists and the user can log in
// normally.
func (ac *Controller) Register(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := ac.service.Register(username, password)
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			c.String(http.StatusOK, "User already has an account!")
			return
		}
		log.Printf("Registration failed for %q: %v", username, err)
		c.String(http.StatusOK, "Registration failed.")
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		log.Printf("Failed to create session for new user %q: %v", username, err)
	}

	c.Redirect(http.StatusFound, HomePath)
}

// Logout destroys the session and redirects to the signup page.
func (ac *Controller) Logout(c *gin.Context) {
	if ac.sessionManager != nil {
		_ = ac.sessionManager.DestroySession(c.Request)
	}
	c.Redirect(http.StatusFound, SignupPath)
}

// renderTemplate renders an auth template or falls back to JSON.
func (ac *Controller) renderTemplate(c *gin.Context, name string, data gin.H) {
	if ac.templates == nil {
		c.JSON(http.StatusOK, data)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := ac.templates.ExecuteTemplate(c.Writer, name, data); err != nil {
		c.String(http.StatusInternalServerError, "Template error: %v", err)
	}
}
