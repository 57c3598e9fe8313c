package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key")

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(testSecret, "u1", "alice")
	require.NoError(t, err)

	userID, username, err := VerifyToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "alice", username)
}

func TestVerifyTokenRejections(t *testing.T) {
	token, err := GenerateToken(testSecret, "u1", "alice")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, _, err := VerifyToken([]byte("other-secret"), token)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, _, err := VerifyToken(testSecret, "not.a.token")
		assert.Error(t, err)
	})
}

func TestRequireAuth(t *testing.T) {
	var gotUserID, gotUsername string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = UserIDFromContext(r.Context())
		gotUsername, _ = UsernameFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAuth(testSecret)(next)

	t.Run("passes a valid bearer token through with identity", func(t *testing.T) {
		token, err := GenerateToken(testSecret, "u1", "alice")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/friends", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", gotUserID)
		assert.Equal(t, "alice", gotUsername)
	})

	t.Run("rejects a missing header with a JSON body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/friends", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), `"success":false`)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		token, err := GenerateToken([]byte("other-secret"), "u1", "alice")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/friends", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
