package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func protectedRouter(v Verifier) *gin.Engine {
	r := gin.New()
	r.GET("/whoami", Middleware(v), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": UserID(c)})
	})
	return r
}

func do(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware(t *testing.T) {
	v := VerifierFunc(func(ctx context.Context, token string) (string, error) {
		if token == "good" {
			return "u42", nil
		}
		return "", fmt.Errorf("bad token")
	})
	r := protectedRouter(v)

	w := do(r, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "Bearer ")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "good")
	require.Equal(t, http.StatusUnauthorized, w.Code) // missing scheme

	w = do(r, "Bearer evil")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, "Bearer good")
	require.Equal(t, http.StatusOK, w.Code)
	var m map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	require.Equal(t, "u42", m["userId"])
}

func TestRemoteVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/verify", r.URL.Path)
		var in struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if in.Token != "valid" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"userId": "u1"})
	}))
	defer srv.Close()

	v := NewRemoteVerifier(srv.URL)

	id, err := v.Verify(context.Background(), "valid")
	require.NoError(t, err)
	require.Equal(t, "u1", id)

	_, err = v.Verify(context.Background(), "expired")
	require.Error(t, err)
}
