package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/dtp-gov/portal-api/internal/models"
)

func rbacTestRouter(claims *models.JWTClaims, allowed ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/users/:id/projects", func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
		c.Next()
	}, RBAC(allowed...), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRBACNoClaims(t *testing.T) {
	r := rbacTestRouter(nil, "ADMIN")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/users/user-1/projects", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRBACAllowsRole(t *testing.T) {
	r := rbacTestRouter(&models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}, "ADMIN", "SELF")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/users/user-1/projects", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRBACAllowsSelfOnMatchingParam(t *testing.T) {
	r := rbacTestRouter(&models.JWTClaims{UserID: "user-1", Role: models.RoleUser}, "ADMIN", "SELF")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/users/user-1/projects", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRBACRejectsForeignSelf(t *testing.T) {
	r := rbacTestRouter(&models.JWTClaims{UserID: "user-2", Role: models.RoleUser}, "ADMIN", "SELF")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/users/user-1/projects", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesRejectsUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.DELETE("/partners/:id", func(c *gin.Context) {
		c.Set(ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleUser})
		c.Next()
	}, RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/partners/partner-1", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}
