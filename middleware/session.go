package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"climatemap/models"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "session"

// SessionClaims is the signed state of an authenticated console session.
type SessionClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies session cookies. The session itself
// lives client-side in an HMAC-signed token; expiry is baked in at login.
type SessionManager struct {
	secret   []byte
	lifetime time.Duration
}

func NewSessionManager(secret string, lifetime time.Duration) *SessionManager {
	return &SessionManager{secret: []byte(secret), lifetime: lifetime}
}

// Issue creates a signed session token for the given account.
func (m *SessionManager) Issue(username, role string) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates a session token and returns its claims.
func (m *SessionManager) Parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("session token is not valid")
	}
	return claims, nil
}

// SetCookie attaches a session cookie to the response. The Secure flag is
// set when the request arrived over TLS, directly or behind a terminating
// proxy.
func (m *SessionManager) SetCookie(c *gin.Context, token string) {
	c.SetCookie(SessionCookie, token, int(m.lifetime.Seconds()), "/", "", requestOverTLS(c), true)
}

// ClearCookie removes the session cookie.
func (m *SessionManager) ClearCookie(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", requestOverTLS(c), true)
}

func requestOverTLS(c *gin.Context) bool {
	return c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}

// RequireRole guards a route group behind a capability check on the session
// role. Browser requests are sent to the login page instead of a bare
// failure; API clients get 401 JSON.
func (m *SessionManager) RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookie)
		if err != nil || tokenString == "" {
			rejectUnauthenticated(c)
			return
		}

		claims, err := m.Parse(tokenString)
		if err != nil {
			rejectUnauthenticated(c)
			return
		}

		if !allowed[claims.Role] {
			rejectUnauthenticated(c)
			return
		}

		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireModerator admits moderators and admins.
func (m *SessionManager) RequireModerator() gin.HandlerFunc {
	return m.RequireRole(models.RoleAdmin, models.RoleModerator)
}

// RequireAdmin admits admins only.
func (m *SessionManager) RequireAdmin() gin.HandlerFunc {
	return m.RequireRole(models.RoleAdmin)
}

func rejectUnauthenticated(c *gin.Context) {
	if wantsHTML(c) {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	c.Abort()
}

func wantsHTML(c *gin.Context) bool {
	return c.Request.Method == http.MethodGet &&
		strings.Contains(c.GetHeader("Accept"), "text/html")
}
