package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/promptdeck/promptdeck-backend/internal/domain"
	"github.com/promptdeck/promptdeck-backend/pkg/jwt"
)

func testManager() *jwt.Manager {
	return jwt.NewManager("test-secret", 15*time.Minute, 24*time.Hour)
}

func authRouter(manager *jwt.Manager) (*httptest.ResponseRecorder, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)

	r.Use(JWTAuth(manager))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetUserID(c),
			"role":    GetRole(c),
		})
	})
	return w, r
}

func TestJWTAuth_ValidToken(t *testing.T) {
	manager := testManager()
	w, r := authRouter(manager)

	token, err := manager.GenerateAccessToken("u1", "creator1", domain.RoleCreator)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	w, r := authRouter(testManager())

	req, _ := http.NewRequest("GET", "/test", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	w, r := authRouter(testManager())

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	w, r := authRouter(testManager())

	foreign := jwt.NewManager("other-secret", 15*time.Minute, 24*time.Hour)
	token, _ := foreign.GenerateAccessToken("u1", "creator1", domain.RoleAdmin)

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestOptionalJWTAuth_AnonymousPasses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)

	r.Use(OptionalJWTAuth(testManager()))
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
