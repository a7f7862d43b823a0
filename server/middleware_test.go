package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := requestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = getRequestID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
		require.NotEmpty(t, seen)
		assert.Len(t, seen, 36, "uuid string")
		assert.Equal(t, seen, w.Header().Get("X-Request-Id"))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		req.Header.Set("X-Request-Id", "abc-123")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))
	})

	t.Run("missing in context", func(t *testing.T) {
		assert.Empty(t, getRequestID(httptest.NewRequest(http.MethodGet, "/", http.NoBody).Context()))
	})
}

func TestClientLimiter(t *testing.T) {
	t.Run("burst per client", func(t *testing.T) {
		l := newClientLimiter(0.001, 2)
		assert.True(t, l.allow("a"))
		assert.True(t, l.allow("a"))
		assert.False(t, l.allow("a"))
		assert.True(t, l.allow("b"), "separate bucket")
	})

	t.Run("refills", func(t *testing.T) {
		l := newClientLimiter(50, 1)
		assert.True(t, l.allow("a"))
		assert.False(t, l.allow("a"))
		time.Sleep(50 * time.Millisecond)
		assert.True(t, l.allow("a"))
	})

	t.Run("unlimited", func(t *testing.T) {
		l := newClientLimiter(0, 0)
		for range 100 {
			require.True(t, l.allow("a"))
		}
	})

	t.Run("idle clients dropped", func(t *testing.T) {
		l := newClientLimiter(1, 1)
		l.idle = time.Millisecond
		l.allow("a")
		l.allow("b")
		time.Sleep(5 * time.Millisecond)
		l.allow("c")

		l.mu.Lock()
		defer l.mu.Unlock()
		assert.Len(t, l.visitors, 1)
		assert.Contains(t, l.visitors, "c")
	})
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.RemoteAddr = "10.1.2.3:5555"
	assert.Equal(t, "10.1.2.3", clientIP(req))
}
