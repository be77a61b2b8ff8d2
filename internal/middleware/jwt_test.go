package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(minRole string) *gin.Engine {
	r := gin.New()
	r.GET("/protected", RequireAuthWithRole(minRole), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func getWithToken(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, "planner")
	require.NoError(t, err)

	parsed, err := ValidateToken(token)
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["user_id"])
	assert.Equal(t, "planner", claims["role"])
}

func TestRequireAuthRejectsMissingOrBadTokens(t *testing.T) {
	r := gin.New()
	r.GET("/protected", RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := getWithToken(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = getWithToken(r, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleHierarchy(t *testing.T) {
	cases := []struct {
		role    string
		minRole string
		want    int
	}{
		{"viewer", "viewer", http.StatusOK},
		{"viewer", "planner", http.StatusForbidden},
		{"planner", "planner", http.StatusOK},
		{"planner", "admin", http.StatusForbidden},
		{"admin", "planner", http.StatusOK},
		{"admin", "admin", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.role+" against "+tc.minRole, func(t *testing.T) {
			token, err := GenerateToken(1, tc.role)
			require.NoError(t, err)

			w := getWithToken(protectedRouter(tc.minRole), token)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
