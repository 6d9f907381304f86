package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCounter int

func (s staticCounter) Count() int { return int(s) }

func doHealth(t *testing.T, checks Checks) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), checks)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHealthDegradedWithoutRedis(t *testing.T) {
	w, body := doHealth(t, Checks{Sessions: staticCounter(3), ArweaveReady: true})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, false, body["redis"])
	assert.Equal(t, true, body["arweave"])
	assert.Equal(t, false, body["chain"])
	assert.Equal(t, float64(3), body["sessions"])
}

func TestHealthWithoutSessionCounter(t *testing.T) {
	_, body := doHealth(t, Checks{})

	assert.Equal(t, float64(0), body["sessions"])
}
