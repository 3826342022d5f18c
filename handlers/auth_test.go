package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climatemap/middleware"
	"climatemap/models"
)

func authSetup(t *testing.T) (*gin.Engine, *fakeUserStore, *middleware.SessionManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &fakeUserStore{}
	sessions := middleware.NewSessionManager("test-secret", time.Hour)
	limiter := middleware.NewLoginLimiter(5, 15*time.Minute, 15*time.Minute)
	h := NewAuthHandler(s, sessions, limiter)

	router := gin.New()
	router.GET("/login", h.ShowLogin)
	router.POST("/login", h.Login)
	router.GET("/logout", h.Logout)
	return router, s, sessions
}

func doLogin(router *gin.Engine, username, password string) *httptest.ResponseRecorder {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestShowLogin(t *testing.T) {
	router, _, _ := authSetup(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<form")
}

func TestLoginSuccessSetsSessionCookie(t *testing.T) {
	router, s, sessions := authSetup(t)
	seedUser(t, s, "alice", "Passw0rd!", models.RoleAdmin)

	w := doLogin(router, "alice", "Passw0rd!")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/posts", w.Header().Get("Location"))

	var sessionValue string
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			sessionValue = c.Value
		}
	}
	require.NotEmpty(t, sessionValue, "session cookie must be set")

	claims, err := sessions.Parse(sessionValue)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	router, s, _ := authSetup(t)
	seedUser(t, s, "alice", "Passw0rd!", models.RoleAdmin)

	w := doLogin(router, "alice", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	router, _, _ := authSetup(t)

	w := doLogin(router, "nobody", "whatever")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginThrottledAfterFiveFailures(t *testing.T) {
	router, s, _ := authSetup(t)
	seedUser(t, s, "alice", "Passw0rd!", models.RoleAdmin)

	for i := 0; i < 5; i++ {
		w := doLogin(router, "alice", "wrong")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d", i+1)
	}

	w := doLogin(router, "alice", "wrong")
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "sixth attempt must be throttled")

	// Even the right password is refused while locked.
	w = doLogin(router, "alice", "Passw0rd!")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestLoginThrottleIgnoresForwardedHeader(t *testing.T) {
	router, s, _ := authSetup(t)
	seedUser(t, s, "alice", "Passw0rd!", models.RoleAdmin)

	// Rotating X-Forwarded-For values must not give the same peer a fresh
	// failure budget.
	form := url.Values{"username": {"alice"}, "password": {"wrong"}}
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d", i+1)
	}

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Forwarded-For", "203.0.113.250")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "the real peer stays locked")
}

func TestLoginSuccessResetsFailureCounter(t *testing.T) {
	router, s, _ := authSetup(t)
	seedUser(t, s, "alice", "Passw0rd!", models.RoleAdmin)

	for i := 0; i < 4; i++ {
		doLogin(router, "alice", "wrong")
	}

	w := doLogin(router, "alice", "Passw0rd!")
	assert.Equal(t, http.StatusSeeOther, w.Code, "success before the threshold must go through")

	// The slate is clean again: five more failures before lockout.
	for i := 0; i < 5; i++ {
		w = doLogin(router, "alice", "wrong")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w = doLogin(router, "alice", "wrong")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestLogoutClearsCookieAndRedirects(t *testing.T) {
	router, _, _ := authSetup(t)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "session cookie must be expired")
}
