package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

// Feature: storefront, Property 50: Error responses are plain text with the given status
func TestProperty_ErrorsArePlainText(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("status and message are written unchanged", prop.ForAll(
		func(message string, statusCode int) bool {
			w := httptest.NewRecorder()
			RespondWithError(w, statusCode, message)

			return w.Code == statusCode &&
				strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain") &&
				w.Body.String() == message
		},
		gen.AnyString(),
		gen.OneConstOf(
			http.StatusBadRequest,
			http.StatusUnauthorized,
			http.StatusForbidden,
			http.StatusNotFound,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
		),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestErrorHandlingMiddleware_RecoversPanics(t *testing.T) {
	handler := ErrorHandlingMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if w.Body.String() != "internal server error" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestErrorHandlingMiddleware_PassesThrough(t *testing.T) {
	handler := ErrorHandlingMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", w.Code)
	}
}
