package handlers

import (
	"net"
	"time"

	"github.com/gin-gonic/gin"
)

// storeTimeout bounds every store call made from a handler.
const storeTimeout = 10 * time.Second

// clientAddr returns the address of the directly connected peer.
// Forwarding headers are client-controlled and must never influence the
// CAPTCHA skip or the login throttle.
func clientAddr(c *gin.Context) string {
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}

// isLocalClient reports whether the request comes from a recognized
// local/development host, in which case CAPTCHA verification is skipped.
func isLocalClient(c *gin.Context) bool {
	addr := clientAddr(c)
	if addr == "localhost" {
		return true
	}
	parsed := net.ParseIP(addr)
	return parsed != nil && parsed.IsLoopback()
}
