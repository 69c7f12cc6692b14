package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", ErrResourceNotFound("User", "id", 1), http.StatusNotFound, "User not found with id : '1'"},
		{"bad request", BadRequestf("bad"), http.StatusBadRequest, "bad"},
		{"duplicate", ErrDuplicateResource("User", "username", "alice"), http.StatusBadRequest, "User already exists with username : 'alice'"},
		{"forbidden", Forbiddenf("nope"), http.StatusForbidden, "nope"},
		{"unauthorized", ErrInvalidCredentials, http.StatusUnauthorized, "Invalid username or password"},
		{"bare kind", &AppError{Kind: KindForbidden}, http.StatusForbidden, "Forbidden"},
		{"internal", errors.New("db is down"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(w)
			ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleError(ctx, c.err)

			if w.Code != c.status {
				t.Fatalf("status = %d, want %d", w.Code, c.status)
			}
			var resp Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != c.status || resp.Message != c.message {
				t.Fatalf("response = %+v", resp)
			}
		})
	}
}
