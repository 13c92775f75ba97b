// Package auth resolves the opaque bearer credential issued by the external
// auth service into a user identifier.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// Verifier turns a bearer token into the identifier of the user it was
// issued to.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// VerifierFunc adapts a function to the Verifier interface. Tests use it to
// stand in for the auth service.
type VerifierFunc func(ctx context.Context, token string) (string, error)

func (f VerifierFunc) Verify(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}

// RemoteVerifier asks the auth service to resolve the token.
type RemoteVerifier struct {
	BaseURL string
	Client  *http.Client
}

func NewRemoteVerifier(baseURL string) *RemoteVerifier {
	return &RemoteVerifier{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (v *RemoteVerifier) Verify(ctx context.Context, token string) (string, error) {
	body, _ := json.Marshal(map[string]string{"token": token})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.BaseURL+"/verify", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := v.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth service returned %d", resp.StatusCode)
	}
	var out struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.UserID == "" {
		return "", fmt.Errorf("auth service returned no user id")
	}
	return out.UserID, nil
}

// Middleware rejects requests without a resolvable bearer credential and
// stashes the user id in the gin context.
func Middleware(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
			return
		}
		userID, err := v.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the identifier stored by Middleware.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
