package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTokenFromRequest(t *testing.T) {
	cases := []struct {
		name  string
		setup func(r *http.Request)
		want  string
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") }, "abc"},
		{"lower-case scheme", func(r *http.Request) { r.Header.Set("Authorization", "bearer  xyz ") }, "xyz"},
		{"query parameter", func(r *http.Request) { r.URL.RawQuery = "token=q1" }, "q1"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "c1"}) }, "c1"},
		{"header wins over cookie", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer h1")
			r.AddCookie(&http.Cookie{Name: TokenCookie, Value: "c1"})
		}, "h1"},
		{"basic auth ignored", func(r *http.Request) { r.Header.Set("Authorization", "Basic Zm9v") }, ""},
		{"nothing", func(r *http.Request) {}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
			tc.setup(req)
			c.Request = req
			assert.Equal(t, tc.want, tokenFromRequest(c))
		})
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000/"}))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://other.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	wildcard := gin.New()
	wildcard.Use(CORS([]string{"*"}))
	req = httptest.NewRequest(http.MethodOptions, "/anything", nil)
	req.Header.Set("Origin", "http://other.example")
	w = httptest.NewRecorder()
	wildcard.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://other.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuditHelpers(t *testing.T) {
	assert.True(t, isPasswordPath("/api/profile/password"))
	assert.True(t, isPasswordPath("/api/profile/PASSWORD"))
	assert.False(t, isPasswordPath("/api/students"))
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "ab", truncate("ab", 3))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(nil))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":50001,"message":"internal server error"}`, w.Body.String())
}
