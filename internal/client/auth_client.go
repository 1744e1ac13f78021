// Package client holds HTTP clients for external collaborators.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// AuthClient handles communication with the external auth provider. The
// service trusts only the identity this provider resolves, never a
// client-supplied user id in a payload.
type AuthClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAuthClient creates a new auth provider client
func NewAuthClient(baseURL, serviceKey string, timeout time.Duration, logger *zap.Logger) *AuthClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AuthClient{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ValidateUserAccess validates a token with the auth provider and checks
// that it belongs to the given user.
func (c *AuthClient) ValidateUserAccess(ctx context.Context, userID int, token string) (bool, error) {
	url := fmt.Sprintf("%s/api/v1/auth/validate", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Service-Key", c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to validate token with auth provider", zap.Error(err))
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}

	var response struct {
		Valid  bool `json:"valid"`
		UserID int  `json:"user_id"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return false, err
	}

	return response.Valid && response.UserID == userID, nil
}
