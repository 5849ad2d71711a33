package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		allowedOrigins []string
		want           bool
	}{
		{
			name:           "exact match",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{"http://localhost:3000"},
			want:           true,
		},
		{
			name:           "wildcard match",
			origin:         "http://localhost:5173",
			allowedOrigins: []string{"http://localhost:*"},
			want:           true,
		},
		{
			name:           "multiple allowed origins - matches second",
			origin:         "https://dashboard.example.com",
			allowedOrigins: []string{"http://localhost:*", "https://dashboard.example.com"},
			want:           true,
		},
		{
			name:           "no match",
			origin:         "http://evil.com",
			allowedOrigins: []string{"http://localhost:*"},
			want:           false,
		},
		{
			name:           "empty origin",
			origin:         "",
			allowedOrigins: []string{"http://localhost:*"},
			want:           false,
		},
		{
			name:           "empty allowed list",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{},
			want:           false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isAllowedOrigin(tt.origin, tt.allowedOrigins); got != tt.want {
				t.Errorf("isAllowedOrigin(%q, %v) = %v, want %v", tt.origin, tt.allowedOrigins, got, tt.want)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	t.Run("sets headers for allowed origin", func(t *testing.T) {
		router := gin.New()
		router.Use(CORSMiddleware([]string{"http://localhost:*"}))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		req, _ := http.NewRequest("GET", "/test", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("Access-Control-Allow-Origin = %q, want the request origin", got)
		}
	})

	t.Run("skips headers for disallowed origin", func(t *testing.T) {
		router := gin.New()
		router.Use(CORSMiddleware([]string{"http://localhost:*"}))
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		req, _ := http.NewRequest("GET", "/test", nil)
		req.Header.Set("Origin", "http://evil.com")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want empty", got)
		}
	})

	t.Run("answers preflight with no content", func(t *testing.T) {
		router := gin.New()
		router.Use(CORSMiddleware([]string{"http://localhost:*"}))

		req, _ := http.NewRequest("OPTIONS", "/test", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNoContent)
		}
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware(1, 2))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	// Burst of 2, then the third immediate request is rejected
	codes := make([]int, 3)
	for i := range codes {
		req, _ := http.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes[i] = w.Code
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first two requests = %d, %d, want both %d", codes[0], codes[1], http.StatusOK)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want %d", codes[2], http.StatusTooManyRequests)
	}
}
