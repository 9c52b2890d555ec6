package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julianLagraba/fin-pro/internal/ledger"
	"github.com/julianLagraba/fin-pro/internal/logger"
	"github.com/julianLagraba/fin-pro/internal/models"
	"github.com/julianLagraba/fin-pro/internal/util"

	"github.com/gin-gonic/gin"
)

type stubUsers map[uint]*models.User

func (s stubUsers) UserByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, ledger.ErrNotFound
}

func newEngine(users UserLoader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(logger.Nop()), Recovery(logger.Nop()))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/me", AuthMiddleware("secret", "fin-pro", users), func(c *gin.Context) {
		user := c.MustGet(CurrentUserKey).(*models.User)
		c.String(http.StatusOK, user.Email)
	})
	return r
}

func TestRecovery(t *testing.T) {
	r := newEngine(stubUsers{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body struct {
		Code int `json:"code"`
	}
	if err := json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != util.CodeServerErr {
		t.Fatalf("code = %d, want %d", body.Code, util.CodeServerErr)
	}
}

func TestAuthMiddleware(t *testing.T) {
	users := stubUsers{
		1: {ID: 1, Email: "ana@example.com", IsActive: true},
		2: {ID: 2, Email: "off@example.com", IsActive: false},
	}
	r := newEngine(users)

	token := func(id uint) string {
		tok, err := util.GenerateToken("secret", "fin-pro", id, time.Hour)
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		return tok
	}

	cases := []struct {
		name   string
		setup  func(req *http.Request)
		status int
	}{
		{"bearer", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token(1)) }, http.StatusOK},
		{"cookie", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: "fp_token", Value: token(1)}) }, http.StatusOK},
		{"no token", func(req *http.Request) {}, http.StatusUnauthorized},
		{"unknown user", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token(9)) }, http.StatusUnauthorized},
		{"inactive user", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token(2)) }, http.StatusUnauthorized},
		{"wrong scheme", func(req *http.Request) { req.Header.Set("Authorization", "Basic "+token(1)) }, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tc.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d, body %s", w.Code, tc.status, w.Body.String())
			}
			if tc.status == http.StatusOK && !strings.Contains(w.Body.String(), "ana@example.com") {
				t.Fatalf("body = %q", w.Body.String())
			}
		})
	}
}
