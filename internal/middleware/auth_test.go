package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

type mockAuthClient struct {
	validateFn func(ctx context.Context, userID int, token string) (bool, error)
}

func (m *mockAuthClient) ValidateUserAccess(ctx context.Context, userID int, token string) (bool, error) {
	return m.validateFn(ctx, userID, token)
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func runAuth(t *testing.T, authHeader string, client AuthClient) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/polls", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}

	reached := false
	handlers := gin.HandlersChain{
		AuthMiddleware(client, zap.NewNop()),
		func(c *gin.Context) { reached = true },
	}
	for _, h := range handlers {
		if c.IsAborted() {
			break
		}
		h(c)
	}

	return w, reached
}

func TestAuthMiddlewareSetsUserID(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "42", "type": "access"})

	client := &mockAuthClient{
		validateFn: func(ctx context.Context, userID int, tok string) (bool, error) {
			if userID != 42 {
				t.Errorf("expected user 42 validated, got %d", userID)
			}
			return true, nil
		},
	}

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/polls", nil)
	c.Request.Header.Set("Authorization", "Bearer "+token)

	AuthMiddleware(client, zap.NewNop())(c)

	if c.IsAborted() {
		t.Fatalf("request aborted: %d %s", w.Code, w.Body.String())
	}
	userID, ok := UserID(c)
	if !ok || userID != 42 {
		t.Errorf("expected user id 42 in context, got %d (ok=%v)", userID, ok)
	}
}

func TestAuthMiddlewareRejections(t *testing.T) {
	valid := &mockAuthClient{
		validateFn: func(ctx context.Context, userID int, token string) (bool, error) {
			return true, nil
		},
	}
	rejecting := &mockAuthClient{
		validateFn: func(ctx context.Context, userID int, token string) (bool, error) {
			return false, nil
		},
	}
	failing := &mockAuthClient{
		validateFn: func(ctx context.Context, userID int, token string) (bool, error) {
			return false, errors.New("connection refused")
		},
	}

	accessToken := signedToken(t, jwt.MapClaims{"sub": "42", "type": "access"})
	refreshToken := signedToken(t, jwt.MapClaims{"sub": "42", "type": "refresh"})

	tests := []struct {
		name       string
		header     string
		client     AuthClient
		wantStatus int
	}{
		{"missing header", "", valid, http.StatusUnauthorized},
		{"not bearer", "Basic abc", valid, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", valid, http.StatusUnauthorized},
		{"refresh token", "Bearer " + refreshToken, valid, http.StatusUnauthorized},
		{"provider rejects", "Bearer " + accessToken, rejecting, http.StatusUnauthorized},
		{"provider unreachable", "Bearer " + accessToken, failing, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, reached := runAuth(t, tt.header, tt.client)
			if reached {
				t.Error("handler ran although authentication failed")
			}
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestExtractUserIDFromToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "7", "type": "access"})

	userID, err := extractUserIDFromToken(token)
	if err != nil {
		t.Fatalf("extractUserIDFromToken returned error: %v", err)
	}
	if userID != 7 {
		t.Errorf("expected user id 7, got %d", userID)
	}

	if _, err := extractUserIDFromToken(signedToken(t, jwt.MapClaims{"sub": "abc", "type": "access"})); err == nil {
		t.Error("non-numeric subject must be rejected")
	}
}
