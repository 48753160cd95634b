package middleware

import (
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"stockbook/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by RequireRole
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

const accessTokenCookie = "access_token"

var (
	authMu        sync.RWMutex
	jwtSecret     = []byte("default_super_secret_key")
	secureCookies bool
)

// SetJWTSecret replaces the HMAC key used to verify tokens. Called once at startup.
func SetJWTSecret(secret string) {
	authMu.Lock()
	defer authMu.Unlock()
	jwtSecret = []byte(secret)
}

func GetJWTSecret() []byte {
	authMu.RLock()
	defer authMu.RUnlock()
	return jwtSecret
}

// SetSecureCookies switches token cookies to SameSite=None; Secure for cross-origin production deployments.
func SetSecureCookies(secure bool) {
	authMu.Lock()
	defer authMu.Unlock()
	secureCookies = secure
}

func cookieMode() (http.SameSite, bool) {
	authMu.RLock()
	defer authMu.RUnlock()
	if secureCookies {
		return http.SameSiteNoneMode, true
	}
	return http.SameSiteLaxMode, false
}

// SetTokenCookie sets access_token as an HttpOnly cookie
func SetTokenCookie(c *gin.Context, accessToken string, ttl time.Duration) {
	sameSite, secure := cookieMode()
	c.SetSameSite(sameSite)
	c.SetCookie(accessTokenCookie, accessToken, int(ttl.Seconds()), "/", "", secure, true)
}

// ClearTokenCookie removes the access_token cookie
func ClearTokenCookie(c *gin.Context) {
	sameSite, secure := cookieMode()
	c.SetSameSite(sameSite)
	c.SetCookie(accessTokenCookie, "", -1, "/", "", secure, true)
}

// tokenFromRequest reads the cookie first and falls back to the Authorization header.
func tokenFromRequest(c *gin.Context) (string, string) {
	if tokenString, err := c.Cookie(accessTokenCookie); err == nil && tokenString != "" {
		return tokenString, ""
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", "Authorization is missing"
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "Invalid authorization format. Expected 'Bearer <token>'"
	}
	return parts[1], ""
}

// RequireRole validates the JWT and checks that its role claim is one of allowedRoles
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, problem := tokenFromRequest(c)
		if problem != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, problem))
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return GetJWTSecret(), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid or expired token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token claims"))
			return
		}

		userRole, ok := claims["role"].(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Role not found in token"))
			return
		}
		if !slices.Contains(allowedRoles, userRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: insufficient permissions"))
			return
		}

		userID, _ := claims["sub"].(string)
		c.Set(ContextUserID, userID)
		c.Set(ContextUserRole, userRole)

		c.Next()
	}
}

// UserID returns the authenticated user's ID, or "" outside RequireRole.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
