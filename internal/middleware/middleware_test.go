package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/platewise/backend/internal/types"
)

type stubValidator struct {
	claims *types.TokenClaims
	err    error
}

func (s stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	return s.claims, s.err
}

type stubChecker struct {
	allowed bool
	err     error
}

func (s stubChecker) CanGeneratePlan(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.allowed, s.err
}

func performRequest(router *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()

	newRouter := func(v TokenValidator) *gin.Engine {
		router := gin.New()
		router.Use(AuthMiddleware(v))
		router.GET("/", func(c *gin.Context) {
			got, _ := c.Get("user_id")
			c.JSON(http.StatusOK, gin.H{"user_id": got})
		})
		return router
	}

	t.Run("should pass a valid bearer token", func(t *testing.T) {
		router := newRouter(stubValidator{claims: &types.TokenClaims{UserID: userID, Username: "tester"}})
		w := performRequest(router, "Bearer good-token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("should reject a missing header", func(t *testing.T) {
		router := newRouter(stubValidator{claims: &types.TokenClaims{UserID: userID}})
		w := performRequest(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("should reject a malformed header", func(t *testing.T) {
		router := newRouter(stubValidator{claims: &types.TokenClaims{UserID: userID}})
		w := performRequest(router, "Token abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("should reject a bearer token containing spaces", func(t *testing.T) {
		router := newRouter(stubValidator{claims: &types.TokenClaims{UserID: userID}})
		w := performRequest(router, "Bearer abc def")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("should reject an invalid token", func(t *testing.T) {
		router := newRouter(stubValidator{err: errors.New("token expired")})
		w := performRequest(router, "Bearer bad-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPaywall(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()

	newRouter := func(checker EntitlementChecker, authed bool) *gin.Engine {
		router := gin.New()
		if authed {
			router.Use(func(c *gin.Context) { c.Set("user_id", userID) })
		}
		router.Use(Paywall(checker))
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	t.Run("should pass an entitled user", func(t *testing.T) {
		w := performRequest(newRouter(stubChecker{allowed: true}, true), "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("should return 402 when the quota is used up", func(t *testing.T) {
		w := performRequest(newRouter(stubChecker{allowed: false}, true), "")
		assert.Equal(t, http.StatusPaymentRequired, w.Code)
	})

	t.Run("should fail closed on checker errors", func(t *testing.T) {
		w := performRequest(newRouter(stubChecker{err: errors.New("redis down")}, true), "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("should reject unauthenticated requests", func(t *testing.T) {
		w := performRequest(newRouter(stubChecker{allowed: true}, false), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Recovery())
	router.GET("/", func(c *gin.Context) { panic("boom") })

	w := performRequest(router, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}
