package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/testhelpers"
)

func TestRequireOnboarding(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testhelpers.SetupSQLiteDatabase(t)

	onboarded := models.User{Email: "done@example.com", PasswordHash: "x", Onboarded: true}
	pending := models.User{Email: "new@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&onboarded).Error)
	require.NoError(t, db.Create(&pending).Error)

	newRouter := func(userID uuid.UUID, authed bool) *gin.Engine {
		router := gin.New()
		if authed {
			router.Use(func(c *gin.Context) { c.Set("user_id", userID) })
		}
		router.Use(RequireOnboarding(db))
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	serve := func(router *gin.Engine) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/", nil)
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("should pass an onboarded user", func(t *testing.T) {
		w := serve(newRouter(onboarded.ID, true))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("should block a user who has not onboarded", func(t *testing.T) {
		w := serve(newRouter(pending.ID, true))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("should reject unauthenticated requests", func(t *testing.T) {
		w := serve(newRouter(uuid.Nil, false))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
