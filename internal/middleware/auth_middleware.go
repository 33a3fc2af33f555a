package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware verifies access tokens issued by the session backend.
// GoTrue signs its access tokens with HS256 and a shared secret, so they can
// be verified locally without a round-trip on every request.
type AuthMiddleware struct {
	jwtSecret []byte
	audience  string
}

func NewAuthMiddleware(jwtSecret string) (*AuthMiddleware, error) {
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &AuthMiddleware{
		jwtSecret: []byte(jwtSecret),
		audience:  "authenticated",
	}, nil
}

type backendClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// RequireAuth rejects requests without a valid backend-issued bearer token
// and puts the verified subject id into the context as "user_id".
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authorization header format must be Bearer {token}"})
			c.Abort()
			return
		}

		claims := &backendClaims{}
		parser := jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithAudience(m.audience),
		)
		token, err := parser.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(token *jwt.Token) (interface{}, error) {
			return m.jwtSecret, nil
		})
		if err != nil || token == nil || !token.Valid || claims.Subject == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("email", claims.Email)
		c.Next()
	}
}
