package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recaudacion/rifas-api/internal/pkg/jwthelper"
)

func newRouter(key string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", NewAuthenticator(key).VerifyJWT(), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"user_id": ctx.MustGet(UserIDKey)})
	})
	return r
}

func TestVerifyJWT(t *testing.T) {
	const key = "secret"
	token, err := jwthelper.GenerateToken([]byte(key), 9, "test")
	require.NoError(t, err)

	tests := []struct {
		name       string
		setup      func(req *http.Request)
		target     string
		wantStatus int
	}{
		{
			name:       "header",
			setup:      func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token) },
			target:     "/me",
			wantStatus: http.StatusOK,
		},
		{
			name:       "query parameter",
			setup:      func(req *http.Request) {},
			target:     "/me?token=" + token,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing",
			setup:      func(req *http.Request) {},
			target:     "/me",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "bad token",
			setup:      func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") },
			target:     "/me",
			wantStatus: http.StatusUnauthorized,
		},
	}

	r := newRouter(key)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			tt.setup(req)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"user_id":9}`, w.Body.String())
			}
		})
	}
}
