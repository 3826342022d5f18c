package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"climatemap/middleware"
	"climatemap/store"
)

// AuthHandler serves the console login flow.
type AuthHandler struct {
	Store    store.UserStore
	Sessions *middleware.SessionManager
	Limiter  *middleware.LoginLimiter
}

func NewAuthHandler(s store.UserStore, sessions *middleware.SessionManager, limiter *middleware.LoginLimiter) *AuthHandler {
	return &AuthHandler{Store: s, Sessions: sessions, Limiter: limiter}
}

const loginPage = `<!DOCTYPE html>
<html>
<head><title>Climate Stories Map - Login</title></head>
<body>
<h1>Moderator login</h1>
<form method="POST" action="/login">
<label>Username <input type="text" name="username" required></label><br>
<label>Password <input type="password" name="password" required></label><br>
<button type="submit">Log in</button>
</form>
</body>
</html>`

// ShowLogin renders the login form.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(loginPage))
}

// Login verifies form credentials, throttled per client address. The
// throttle keys on the real peer so forwarding headers cannot rotate it.
func (h *AuthHandler) Login(c *gin.Context) {
	addr := clientAddr(c)

	if !h.Limiter.Allow(addr) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many failed login attempts, try again later"})
		return
	}

	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		h.Limiter.RecordFailure(addr)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	user, err := h.Store.FindByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		h.Limiter.RecordFailure(addr)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		log.Printf("[Login] lookup error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		h.Limiter.RecordFailure(addr)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	h.Limiter.RecordSuccess(addr)

	token, err := h.Sessions.Issue(user.Username, user.Role)
	if err != nil {
		log.Printf("[Login] session issue error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	h.Sessions.SetCookie(c, token)
	c.Redirect(http.StatusSeeOther, "/admin/posts")
}

// Logout ends the session and returns to the login form.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Sessions.ClearCookie(c)
	c.Redirect(http.StatusSeeOther, "/login")
}
