package server

import (
	"net/http/httptest"
	"testing"
)

func TestCallbackHandler(t *testing.T) {
	t.Run("Captures Code", func(t *testing.T) {
		handler := NewCallbackHandler("state-token")
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/callback?code=auth-code&state=state-token", nil)

		handler.ServeHTTP(rec, req)

		if rec.Code != 200 {
			t.Errorf("expected 200, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Errorf("unexpected error: %v", result.Error())
		}
		if result.Code != "auth-code" {
			t.Errorf("expected captured code, got %q", result.Code)
		}
	})

	t.Run("Rejects Bad State", func(t *testing.T) {
		handler := NewCallbackHandler("state-token")
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/callback?code=auth-code&state=wrong", nil)

		handler.ServeHTTP(rec, req)

		if rec.Code != 400 {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected state validation error")
		}
	})

	t.Run("Reports Authorization Denial", func(t *testing.T) {
		handler := NewCallbackHandler("state-token")
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/callback?error=access_denied&error_description=User%20denied&state=state-token", nil)

		handler.ServeHTTP(rec, req)

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected authorization error")
		}
	})

	t.Run("Ignores Replayed Callback", func(t *testing.T) {
		handler := NewCallbackHandler("state-token")

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest("GET", "/callback?code=first&state=state-token", nil))

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest("GET", "/callback?code=second&state=state-token", nil))

		if second.Code != 400 {
			t.Errorf("expected replay rejection, got %d", second.Code)
		}

		result := <-handler.Result()
		if result.Code != "first" {
			t.Errorf("expected only the first code delivered, got %q", result.Code)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("Method Filtering", func(t *testing.T) {
		router := NewBasicRouter()
		handler := NewCallbackHandler("s")
		router.Handle("GET", "/callback", handler)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("POST", "/callback", nil))

		if rec.Code != 405 {
			t.Errorf("expected 405 for wrong method, got %d", rec.Code)
		}
	})

	t.Run("Handler Registration", func(t *testing.T) {
		router := NewBasicRouter()
		handler := NewCallbackHandler("state-token")
		router.Handler(handler)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?code=c&state=state-token", nil))

		if rec.Code != 200 {
			t.Errorf("expected routed callback, got %d", rec.Code)
		}
	})
}
