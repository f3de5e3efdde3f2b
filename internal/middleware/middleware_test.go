package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/FaqSearch/internal/config"
	"github.com/akolanti/FaqSearch/pkg/logger_i"
)

func newTestChain(origins []string, rps int, burst int) *Chain {
	logger_i.Init(false, slog.LevelError)
	return New(&config.Config{
		CorsAllowedOrigins: origins,
		RateLimitRPS:       rps,
		RateLimitBurst:     burst,
	})
}

func TestWrap_InjectsTraceId(t *testing.T) {
	chain := newTestChain(nil, 100, 100)

	var seenTrace string
	handler := chain.Wrap(func(w http.ResponseWriter, r *http.Request) {
		seenTrace, _ = r.Context().Value(config.TRACE_ID_KEY).(string)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	handler(httptest.NewRecorder(), req)

	if seenTrace == "" {
		t.Error("handler context should carry a generated trace id")
	}

	//a caller supplied id is kept
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	req.Header.Set("X-Trace-Id", "trace-abc")
	handler(httptest.NewRecorder(), req)

	if seenTrace != "trace-abc" {
		t.Errorf("trace id got %q, want trace-abc", seenTrace)
	}
}

func TestWrap_Cors(t *testing.T) {
	tests := []struct {
		name        string
		origins     []string
		reqOrigin   string
		wantAllowed string
	}{
		{"Listed_Origin", []string{"https://app.example.com"}, "https://app.example.com", "https://app.example.com"},
		{"Wildcard", []string{"*"}, "https://anywhere.test", "https://anywhere.test"},
		{"Unlisted_Origin", []string{"https://app.example.com"}, "https://evil.test", ""},
		{"No_Config", nil, "https://app.example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := newTestChain(tt.origins, 100, 100)
			handler := chain.Wrap(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/search", nil)
			req.RemoteAddr = "10.0.0.2:5000"
			req.Header.Set("Origin", tt.reqOrigin)
			rec := httptest.NewRecorder()
			handler(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllowed {
				t.Errorf("allow origin got %q, want %q", got, tt.wantAllowed)
			}
		})
	}
}

func TestWrap_PreflightShortCircuits(t *testing.T) {
	chain := newTestChain([]string{"*"}, 100, 100)

	handlerCalled := false
	handler := chain.Wrap(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	req := httptest.NewRequest(http.MethodOptions, "/search", nil)
	req.RemoteAddr = "10.0.0.3:5000"
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status got %d, want 204", rec.Code)
	}
	if handlerCalled {
		t.Error("preflight must not reach the handler")
	}
}

func TestWrap_RateLimiter(t *testing.T) {
	chain := newTestChain(nil, 1, 2)
	handler := chain.Wrap(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	fire := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/search", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler(rec, req)
		return rec.Code
	}

	if got := fire("10.1.1.1:1000"); got != http.StatusOK {
		t.Fatalf("first request got %d", got)
	}
	if got := fire("10.1.1.1:1000"); got != http.StatusOK {
		t.Fatalf("second request within burst got %d", got)
	}
	if got := fire("10.1.1.1:1000"); got != http.StatusTooManyRequests {
		t.Errorf("burst exhausted, got %d want 429", got)
	}

	//a different client keeps its own bucket
	if got := fire("10.2.2.2:1000"); got != http.StatusOK {
		t.Errorf("separate IP should not be limited, got %d", got)
	}
}
