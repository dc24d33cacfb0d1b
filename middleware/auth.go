package middleware

import (
	"net/http"
	"strings"
	"time"

	"panela-api/apperror"
	"panela-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const callerKey = "caller"

type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Caller is the authenticated identity attached to a request
type Caller struct {
	UserID string
	Role   models.Role
}

// GenerateToken creates a signed JWT for a given user
func GenerateToken(secret []byte, ttl time.Duration, user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken verifies signature and expiry and returns the caller.
func ParseToken(secret []byte, tokenStr string) (Caller, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Caller{}, apperror.Unauthorizedf("Invalid or expired token")
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return Caller{}, apperror.Unauthorizedf("Invalid token claims")
	}
	return Caller{UserID: claims.Subject, Role: claims.Role}, nil
}

// AuthRequired validates the JWT and injects the caller into context
func AuthRequired(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			return
		}
		caller, err := ParseToken(secret, strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

// RequireRole fails with a Forbidden error unless the caller holds one of
// the allowed roles.
func RequireRole(caller Caller, allowed ...models.Role) error {
	for _, r := range allowed {
		if caller.Role == r {
			return nil
		}
	}
	return apperror.Forbiddenf("Access denied. Required role(s): %s", rolesString(allowed))
}

// RoleRequired adapts RequireRole for route groups
func RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if err := RequireRole(caller, roles...); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}

func rolesString(roles []models.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

// GetCaller extracts the authenticated caller from context
func GetCaller(c *gin.Context) (Caller, bool) {
	val, exists := c.Get(callerKey)
	if !exists {
		return Caller{}, false
	}
	caller, ok := val.(Caller)
	return caller, ok
}

// SetCaller is used by tests and internal callers that authenticate by
// other means.
func SetCaller(c *gin.Context, caller Caller) {
	c.Set(callerKey, caller)
}
