package v1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/recaudacion/rifas-api/internal/api/middleware"
	"github.com/recaudacion/rifas-api/internal/domain"
	"github.com/recaudacion/rifas-api/internal/service"
)

const (
	adminID     uint = 1
	volunteerID uint = 2
)

type fakeUserService struct {
	users map[uint]domain.User
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{users: map[uint]domain.User{
		adminID:     {ID: adminID, Email: "admin@rifas.org", Role: domain.RoleAdmin},
		volunteerID: {ID: volunteerID, Email: "ana@rifas.org", Role: domain.RoleVolunteer},
	}}
}

func (f *fakeUserService) GetUser(_ context.Context, id uint) (domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return domain.User{}, service.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserService) ListVolunteers(context.Context) ([]domain.User, error) {
	return []domain.User{f.users[volunteerID]}, nil
}

// newTestRouter returns an engine whose requests are authenticated as userID.
// A zero userID leaves the request anonymous.
func newTestRouter(userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(ctx *gin.Context) {
		if userID != 0 {
			ctx.Set(middleware.UserIDKey, userID)
		}
		ctx.Next()
	})
	return r
}

func doRequest(t *testing.T, r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	return w
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
