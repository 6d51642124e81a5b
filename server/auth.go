package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Meliisa9/streamer-s-sanctuary-sub002/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims carried by every authenticated request
type Claims struct {
	UserID   int64 `json:"user_id"`
	Operator bool  `json:"operator"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed JWT for a user
func GenerateToken(userID int64, operator bool) (string, error) {
	secret := config.Get().JWTSecret
	if secret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	claims := &Claims{
		UserID:   userID,
		Operator: operator,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns the claims
func ValidateToken(tokenString string) (*Claims, error) {
	secret := config.Get().JWTSecret
	if secret == "" {
		return nil, fmt.Errorf("JWT secret not configured")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// AuthMiddleware validates JWT tokens and protects routes
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format. Expected: Bearer <token>"})
			c.Abort()
			return
		}

		claims, err := ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("operator", claims.Operator)

		c.Next()
	}
}

// RequireOperator rejects requests whose token lacks the operator claim.
// Must run after AuthMiddleware.
func RequireOperator() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("operator")
		operator, ok := value.(bool)
		if !exists || !ok || !operator {
			c.JSON(http.StatusForbidden, gin.H{"error": "operator privileges required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}

	id, ok := userID.(int64)
	return id, ok
}
