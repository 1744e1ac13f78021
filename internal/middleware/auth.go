package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/yourorg/poll-service/internal/utils"
)

// AuthClient defines the interface for the auth provider client
type AuthClient interface {
	ValidateUserAccess(ctx context.Context, userID int, token string) (bool, error)
}

// accessClaims is the subset of token claims this service reads. Signature
// validation happens in the auth provider, not here.
type accessClaims struct {
	Subject string `json:"sub"`
	Type    string `json:"type"`
}

func (c *accessClaims) Valid() error { return nil }

// AuthMiddleware authenticates requests against the external auth
// provider and stores the resolved user id in the context.
func AuthMiddleware(authClient AuthClient, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.SendErrorResponse(c, http.StatusUnauthorized, "authorization header required")
			c.Abort()
			return
		}

		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) != 2 || headerParts[0] != "Bearer" {
			utils.SendErrorResponse(c, http.StatusUnauthorized, "invalid authorization format")
			c.Abort()
			return
		}

		token := headerParts[1]

		userID, err := extractUserIDFromToken(token)
		if err != nil {
			logger.Debug("Failed to extract user ID from token", zap.Error(err))
			utils.SendErrorResponse(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		valid, err := authClient.ValidateUserAccess(c.Request.Context(), userID, token)
		if err != nil {
			logger.Error("Failed to validate token", zap.Error(err))
			utils.SendErrorResponse(c, http.StatusInternalServerError, "authentication service unavailable")
			c.Abort()
			return
		}

		if !valid {
			utils.SendErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// UserID returns the authenticated user id set by AuthMiddleware.
func UserID(c *gin.Context) (int, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	userID, ok := v.(int)
	return userID, ok
}

// extractUserIDFromToken reads the subject claim without verifying the
// signature; the auth provider is the authority on validity.
func extractUserIDFromToken(token string) (int, error) {
	claims := &accessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, err
	}

	if claims.Type != "access" {
		return 0, fmt.Errorf("not an access token")
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, fmt.Errorf("invalid subject claim: %w", err)
	}

	return userID, nil
}
