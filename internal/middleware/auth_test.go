package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"ridenow/internal/domain"
)

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		role    string
		aborted bool
	}{
		{"matching role passes", string(domain.RoleDriver), false},
		{"other role rejected", string(domain.RoleRider), true},
		{"missing role rejected", "", true},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.role != "" {
			c.Set(ContextRole, tc.role)
		}

		RequireRole(domain.RoleDriver)(c)

		if c.IsAborted() != tc.aborted {
			t.Errorf("%s: expected aborted=%v", tc.name, tc.aborted)
		}
		if tc.aborted && w.Code != http.StatusForbidden {
			t.Errorf("%s: expected 403, got %d", tc.name, w.Code)
		}
	}
}
