//go:build unit

package middleware_test

import (
	"net/http"
	"testing"
	"time"

	"seckill-service/internal/domain/user"
	"seckill-service/internal/handler/middleware"
	"seckill-service/internal/pkg/jwt"
	"seckill-service/internal/usecase"
	"seckill-service/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := jwt.NewService("mw-secret", time.Hour)
	auth := middleware.NewAuthMiddleware(usecase.NewTokenValidator(svc))

	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		p, ok := middleware.GetPrincipal(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": p.UserID, "role": p.Role})
	})
	r.GET("/ops", auth.RequireAuth(), auth.RequireRoleAtLeast(user.RoleOperator), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, svc
}

func TestRequireAuth(t *testing.T) {
	r, svc := newAuthRouter(t)

	t.Run("valid bearer token exposes the principal", func(t *testing.T) {
		token, err := svc.GenerateToken(55, user.RoleCustomer)
		require.NoError(t, err)

		rec := httptest.PerformRequest(t, r, http.MethodGet, "/me", nil, token)

		var body map[string]any
		httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
		assert.InDelta(t, 55, body["user_id"], 0)
		assert.Equal(t, "customer", body["role"])
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.PerformRequest(t, r, http.MethodGet, "/me", nil, "")
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Access token required")
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		token, err := jwt.NewService("other", time.Hour).GenerateToken(55, user.RoleAdmin)
		require.NoError(t, err)

		rec := httptest.PerformRequest(t, r, http.MethodGet, "/me", nil, token)
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := jwt.NewService("mw-secret", -time.Minute).GenerateToken(55, user.RoleAdmin)
		require.NoError(t, err)

		rec := httptest.PerformRequest(t, r, http.MethodGet, "/me", nil, token)
		httptest.AssertErrorResponse(t, rec, http.StatusUnauthorized, "Invalid or expired token")
	})
}

func TestRequireRoleAtLeast(t *testing.T) {
	r, svc := newAuthRouter(t)

	cases := []struct {
		role user.Role
		want int
	}{
		{user.RoleCustomer, http.StatusForbidden},
		{user.RoleOperator, http.StatusNoContent},
		{user.RoleAdmin, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.role.String(), func(t *testing.T) {
			token, err := svc.GenerateToken(1, tc.role)
			require.NoError(t, err)

			rec := httptest.PerformRequest(t, r, http.MethodGet, "/ops", nil, token)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
