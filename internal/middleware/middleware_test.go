package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/campus-nav-api/internal/models"
	appErrors "github.com/noah-isme/campus-nav-api/pkg/errors"
)

type stubValidator map[string]*models.JWTClaims

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

var tokens = stubValidator{
	"student-7": {UserID: 7, Role: models.RoleStudent},
	"admin-1":   {UserID: 1, Role: models.RoleAdmin},
}

func serve(r *gin.Engine, method, path, token string) int {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Code
}

func TestJWTAndRBAC(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/admin", JWT(tokens), RequireRoles(models.RoleAdmin), ok)
	r.GET("/users/:userId/private", JWT(tokens), RBAC(string(models.RoleAdmin), SelfParam), ok)

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/admin", ""))
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/admin", "forged"))
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/admin", "student-7"))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/admin", "admin-1"))

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/users/7/private", "student-7"))
	assert.Equal(t, http.StatusForbidden, serve(r, http.MethodGet, "/users/8/private", "student-7"))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/users/8/private", "admin-1"))
}

func TestOptionalJWTNeverBlocks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var seen *models.JWTClaims
	r.GET("/", OptionalJWT(tokens), func(c *gin.Context) {
		seen, _ = Claims(c)
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", "forged"))
	assert.Nil(t, seen)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/", "student-7"))
	if assert.NotNil(t, seen) {
		assert.Equal(t, int64(7), seen.UserID)
	}
}

type recordedRequest struct {
	method, path string
	status       int
}

type observerFunc func(method, path string, status int, d time.Duration)

func (f observerFunc) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	f(method, path, status, d)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var got []recordedRequest
	r := gin.New()
	r.Use(Metrics(observerFunc(func(method, path string, status int, _ time.Duration) {
		got = append(got, recordedRequest{method, path, status})
	})))
	r.GET("/buildings/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/buildings/42", "")
	serve(r, http.MethodGet, "/nowhere", "")

	assert.Equal(t, []recordedRequest{
		{http.MethodGet, "/buildings/:id", http.StatusOK},
		{http.MethodGet, "unmatched", http.StatusNotFound},
	}, got)
}
