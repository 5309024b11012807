package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	claimsKey  = "claims"
	authErrKey = "auth_error"
)

// Bearer parses an optional HS256 bearer token. Requests without an
// Authorization header pass through anonymously. A malformed or invalid
// token is recorded, not rejected, so limiters can run before Reject.
func Bearer(signingKey, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			c.Next()
			return
		}
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.Set(authErrKey, "malformed authorization header")
			c.Next()
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			c.Set(authErrKey, "invalid token")
			c.Next()
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// Reject aborts requests whose bearer token Bearer could not verify.
func Reject() gin.HandlerFunc {
	return func(c *gin.Context) {
		if msg := c.GetString(authErrKey); msg != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}
		c.Next()
	}
}

// Require rejects requests that Bearer did not authenticate.
func Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CallerID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		c.Next()
	}
}

// CallerID returns the authenticated caller id, if any.
func CallerID(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return 0, false
	}
	claims, ok := v.(Claims)
	if !ok {
		return 0, false
	}
	id, err := claims.CallerID()
	if err != nil {
		return 0, false
	}
	return id, true
}
