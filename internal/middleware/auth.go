package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"hackathon-team-api/internal/response"
)

// Context keys set by Auth
const (
	ContextKeyUserID        = "user_id"
	ContextKeyUserEmail     = "user_email"
	ContextKeyEmailVerified = "email_verified"
	ContextKeyToken         = "jwtToken"
)

// Auth returns a middleware that validates HMAC-signed JWTs and stores the
// caller's identity on the gin context.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimSpace(parts[1])

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "Invalid token claims")
			return
		}

		// user_id is ours, sub comes from OAuth providers, uid from older tokens
		var userIDStr string
		for _, key := range []string{"user_id", "sub", "uid"} {
			if v, ok := claims[key].(string); ok && v != "" {
				userIDStr = v
				break
			}
		}
		if userIDStr == "" {
			abortUnauthorized(c, "User ID not found in token")
			return
		}
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			abortUnauthorized(c, "Invalid user ID format")
			return
		}

		email, _ := claims["email"].(string)

		c.Set(ContextKeyUserID, userID)
		c.Set(ContextKeyUserEmail, email)
		c.Set(ContextKeyEmailVerified, claimBool(claims["email_verified"]))
		c.Set(ContextKeyToken, tokenString)

		c.Next()
	}
}

func claimBool(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, _ := strconv.ParseBool(b)
		return parsed
	}
	return false
}

func abortUnauthorized(c *gin.Context, message string) {
	response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, message)
	c.Abort()
}
