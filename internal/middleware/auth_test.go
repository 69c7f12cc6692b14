package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"skillswap_backend/internal/config"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/util"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUsers map[string]*model.User

func (f fakeUsers) FindByUsername(username string) (*model.User, error) {
	if u, ok := f[username]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

var testCfg = &config.Config{JWT: config.JWTConfig{Secret: "middleware-secret", ExpireTime: time.Hour}}

func newUsers() fakeUsers {
	alice := &model.User{Username: "alice", IsActive: true}
	alice.ID = 1
	root := &model.User{Username: "root", IsActive: true, IsAdmin: true}
	root.ID = 2
	ghost := &model.User{Username: "ghost", IsActive: false}
	ghost.ID = 3
	return fakeUsers{"alice": alice, "root": root, "ghost": ghost}
}

func tokenFor(t *testing.T, username string) string {
	t.Helper()
	token, err := util.GenerateJWT(&model.User{Username: username}, testCfg.JWT.Secret, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return token
}

func newRouter(users fakeUsers) *gin.Engine {
	r := gin.New()
	whoami := func(c *gin.Context) {
		p := util.GetUserFromContext(c)
		if p == nil {
			util.Success(c, gin.H{"anonymous": true})
			return
		}
		util.Success(c, gin.H{"userId": p.UserID, "isAdmin": p.IsAdmin})
	}
	r.GET("/me", AuthMiddleware(testCfg, users), whoami)
	r.GET("/admin", AuthMiddleware(testCfg, users), AdminMiddleware(), whoami)
	r.GET("/maybe", TryAuthMiddleware(testCfg, users), whoami)
	return r
}

func do(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(newUsers())

	tests := []struct {
		name  string
		path  string
		token string
		code  int
	}{
		{"missing token", "/me", "", http.StatusUnauthorized},
		{"garbage token", "/me", "not-a-jwt", http.StatusUnauthorized},
		{"unknown user", "/me", tokenFor(t, "nobody"), http.StatusUnauthorized},
		{"deactivated user", "/me", tokenFor(t, "ghost"), http.StatusUnauthorized},
		{"valid user", "/me", tokenFor(t, "alice"), http.StatusOK},
		{"non-admin on admin route", "/admin", tokenFor(t, "alice"), http.StatusForbidden},
		{"admin on admin route", "/admin", tokenFor(t, "root"), http.StatusOK},
		{"anonymous on optional route", "/maybe", "", http.StatusOK},
		{"bad token on optional route", "/maybe", "not-a-jwt", http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, tc.path, tc.token)
			if w.Code != tc.code {
				t.Fatalf("status = %d, want %d, body %s", w.Code, tc.code, w.Body.String())
			}
		})
	}
}

func TestAdminFlagComesFromDatabase(t *testing.T) {
	users := newUsers()
	r := newRouter(users)
	token := tokenFor(t, "alice")

	if w := do(r, "/admin", token); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 before promotion, got %d", w.Code)
	}

	users["alice"].IsAdmin = true
	w := do(r, "/admin", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after promotion, got %d", w.Code)
	}

	var resp struct {
		Data struct {
			IsAdmin bool `json:"isAdmin"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Data.IsAdmin {
		t.Fatal("principal should carry the fresh admin flag")
	}
}

func TestDeactivatedUserMessage(t *testing.T) {
	r := newRouter(newUsers())
	w := do(r, "/me", tokenFor(t, "ghost"))

	var resp util.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Message != "Account is deactivated" {
		t.Fatalf("message = %q", resp.Message)
	}
}
