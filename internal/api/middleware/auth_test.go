package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/domain"
	"github.com/shopledger/ledgerapi/internal/repository"
	"github.com/shopledger/ledgerapi/pkg/errors"
)

type fakeUserRepo struct {
	user *domain.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error { return nil }

func (f *fakeUserRepo) GetByAPIKeyLookup(ctx context.Context, lookup string) (*domain.User, error) {
	if f.user != nil && f.user.APIKeyLookup == lookup {
		return f.user, nil
	}
	return nil, &errors.ErrNotFound{Resource: "user"}
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, &errors.ErrNotFound{Resource: "user"}
}

func authTestRouter(user *domain.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	repos := &repository.Repositories{User: &fakeUserRepo{user: user}}

	router := gin.New()
	router.Use(AuthMiddleware(repos, zap.NewNop()))
	router.GET("/protected", func(c *gin.Context) {
		u, ok := GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "user missing from context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": u.ID.String()})
	})
	return router
}

func testUser(t *testing.T, apiKey string, active bool) *domain.User {
	t.Helper()
	hash, err := HashAPIKey(apiKey)
	require.NoError(t, err)
	return &domain.User{
		ID:           uuid.New(),
		Email:        "ops@example.com",
		APIKeyHash:   hash,
		APIKeyLookup: APIKeyLookupHex(apiKey),
		IsActive:     active,
	}
}

func TestAuthMiddlewareAcceptsValidKey(t *testing.T) {
	router := authTestRouter(testUser(t, "valid-key", true))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-key")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareTrimsBearerToken(t *testing.T) {
	router := authTestRouter(testUser(t, "valid-key", true))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-key ")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRejectsBadRequests(t *testing.T) {
	router := authTestRouter(testUser(t, "valid-key", true))

	cases := map[string]string{
		"missing header": "",
		"no bearer":      "valid-key",
		"wrong scheme":   "Basic valid-key",
		"wrong key":      "Bearer other-key",
	}
	for name, header := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
	}
}

func TestAuthMiddlewareRejectsInactiveUser(t *testing.T) {
	router := authTestRouter(testUser(t, "valid-key", false))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer valid-key")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIKeyLookupHexIsDeterministic(t *testing.T) {
	assert.Equal(t, APIKeyLookupHex("abc"), APIKeyLookupHex("abc"))
	assert.NotEqual(t, APIKeyLookupHex("abc"), APIKeyLookupHex("abd"))
	assert.Len(t, APIKeyLookupHex("abc"), 64)
}

func TestHashAndVerifyAPIKey(t *testing.T) {
	hash, err := HashAPIKey("secret-key")
	require.NoError(t, err)

	assert.True(t, VerifyAPIKey("secret-key", hash))
	assert.False(t, VerifyAPIKey("wrong-key", hash))
}
