package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crudefi_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

func newTestRouter(tokens *utils.TokenManager, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(tokens)}
	if len(roles) > 0 {
		handlers = append(handlers, RoleAuthMiddleware(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		actor, ok := CurrentActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, actor.Username)
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("middleware-secret", time.Hour)
	valid, err := tokens.GenerateAccessToken(3, "wanjiru", "Manager")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error: %v", err)
	}
	foreign, _ := utils.NewTokenManager("other-secret", time.Hour).GenerateAccessToken(3, "wanjiru", "Admin")
	expired, _ := utils.NewTokenManager("middleware-secret", -time.Minute).GenerateAccessToken(3, "wanjiru", "Manager")

	tests := []struct {
		name   string
		header string
		roles  []string
		want   int
	}{
		{"no header", "", nil, http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, nil, http.StatusUnauthorized},
		{"foreign signature", "Bearer " + foreign, nil, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, nil, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, nil, http.StatusOK},
		{"role allowed", "Bearer " + valid, []string{"Admin", "Manager"}, http.StatusOK},
		{"role denied", "Bearer " + valid, []string{"Admin"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(tokens, tt.roles...)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
			if tt.want == http.StatusOK && w.Body.String() != "wanjiru" {
				t.Errorf("body = %q, want actor username", w.Body.String())
			}
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestTimeout(50 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		if _, ok := c.Request.Context().Deadline(); !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
}
