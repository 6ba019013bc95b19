package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/victorstella/desafio-mailerweb-ino/internal/application"
)

type stubAuthorizer struct {
	err error
}

func (s stubAuthorizer) Authorize(token string) error {
	return s.err
}

func TestRequireToken(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	newProtected := func(t *testing.T, authorizer TokenAuthorizer) (http.Handler, *bool) {
		t.Helper()
		reached := false
		handler := RequireToken(authorizer, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusOK)
		}))
		return handler, &reached
	}

	t.Run("rejects requests without credentials", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			name   string
			header string
		}{
			{"missing header", ""},
			{"wrong scheme", "Basic abc"},
			{"bare token", "token-without-scheme"},
			{"empty bearer", "Bearer "},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				handler, reached := newProtected(t, stubAuthorizer{})

				req := httptest.NewRequest(http.MethodPost, "/rooms", nil)
				if tc.header != "" {
					req.Header.Set("Authorization", tc.header)
				}
				recorder := httptest.NewRecorder()
				handler.ServeHTTP(recorder, req)

				if recorder.Code != http.StatusUnauthorized {
					t.Errorf("expected 401, got %d", recorder.Code)
				}
				if *reached {
					t.Error("next handler should not run without credentials")
				}
			})
		}
	})

	t.Run("rejects an invalid token", func(t *testing.T) {
		t.Parallel()

		handler, reached := newProtected(t, stubAuthorizer{err: application.ErrUnauthorized})

		req := httptest.NewRequest(http.MethodPost, "/rooms", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", recorder.Code)
		}
		if *reached {
			t.Error("next handler should not run with an invalid token")
		}
	})

	t.Run("maps verifier failures to 500", func(t *testing.T) {
		t.Parallel()

		handler, reached := newProtected(t, stubAuthorizer{err: fmt.Errorf("hash backend unavailable")})

		req := httptest.NewRequest(http.MethodPost, "/rooms", nil)
		req.Header.Set("Authorization", "Bearer anything")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", recorder.Code)
		}
		if *reached {
			t.Error("next handler should not run when verification fails")
		}
	})

	t.Run("passes a valid token through", func(t *testing.T) {
		t.Parallel()

		verifier, err := application.NewTokenVerifier("secret", "")
		if err != nil {
			t.Fatalf("NewTokenVerifier returned error: %v", err)
		}
		handler, reached := newProtected(t, verifier)

		req := httptest.NewRequest(http.MethodPost, "/rooms", nil)
		req.Header.Set("Authorization", "Bearer secret")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", recorder.Code)
		}
		if !*reached {
			t.Error("expected next handler to run")
		}
	})

	t.Run("accepts a case insensitive scheme", func(t *testing.T) {
		t.Parallel()

		handler, reached := newProtected(t, stubAuthorizer{})

		req := httptest.NewRequest(http.MethodPost, "/rooms", nil)
		req.Header.Set("Authorization", "bearer secret")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", recorder.Code)
		}
		if !*reached {
			t.Error("expected next handler to run")
		}
	})
}
