package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthAndMetricsAreOpen(t *testing.T) {
	r := SetupRouter()

	w := get(r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")

	w = get(r, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBusinessRoutesRequireAuth(t *testing.T) {
	r := SetupRouter()

	for _, path := range []string{"/pathways", "/nodes", "/buses", "/plans", "/schemas"} {
		w := get(r, path)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "GET %s must demand a token", path)
	}

	w := get(r, "/admin/users")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
