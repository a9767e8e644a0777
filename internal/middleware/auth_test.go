package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/any", AuthMiddleware(testSecret), func(c *gin.Context) {
		actor, _ := util.GetActorFromContext(c)
		c.JSON(http.StatusOK, actor)
	})
	r.GET("/teacher", AuthMiddleware(testSecret), RequireTeacher(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()

	if w := doRequest(r, "/any", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("missing token: status = %d, want 401", w.Code)
	}
	if w := doRequest(r, "/any", "not-a-jwt"); w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", w.Code)
	}

	token, err := util.GenerateJWT(model.ActorStudent, 7, "s@t.l", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if w := doRequest(r, "/any", token); w.Code != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", w.Code)
	}

	expired, err := util.GenerateJWT(model.ActorStudent, 7, "s@t.l", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("generate expired: %v", err)
	}
	if w := doRequest(r, "/any", expired); w.Code != http.StatusUnauthorized {
		t.Errorf("expired token: status = %d, want 401", w.Code)
	}
}

func TestRequireTeacher(t *testing.T) {
	r := newRouter()

	studentToken, _ := util.GenerateJWT(model.ActorStudent, 7, "s@t.l", testSecret, time.Hour)
	if w := doRequest(r, "/teacher", studentToken); w.Code != http.StatusForbidden {
		t.Errorf("student on teacher route: status = %d, want 403", w.Code)
	}

	teacherToken, _ := util.GenerateJWT(model.ActorTeacher, 3, "t@t.l", testSecret, time.Hour)
	if w := doRequest(r, "/teacher", teacherToken); w.Code != http.StatusOK {
		t.Errorf("teacher on teacher route: status = %d, want 200", w.Code)
	}
}
