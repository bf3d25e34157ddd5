package auth

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type countingRecorder struct {
	reasons []string
}

func (c *countingRecorder) RecordAuthFailure(reason string) {
	c.reasons = append(c.reasons, reason)
}

func TestTokenValidator_Validate(t *testing.T) {
	v := NewTokenValidator([]string{"secret-one", "", "secret-two"})
	if v.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", v.Len())
	}

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"first secret", "Bearer secret-one", nil},
		{"second secret", "Bearer secret-two", nil},
		{"missing", "", ErrMissingCredential},
		{"no scheme", "secret-one", ErrMalformedCredential},
		{"lowercase scheme", "bearer secret-one", ErrMalformedCredential},
		{"basic scheme", "Basic c2VjcmV0", ErrMalformedCredential},
		{"wrong token", "Bearer secret-three", ErrInvalidCredential},
		{"prefix of token", "Bearer secret-on", ErrInvalidCredential},
		{"empty token", "Bearer ", ErrInvalidCredential},
		{"extra space", "Bearer  secret-one", ErrInvalidCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.header)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate(%q) = %v, want %v", tt.header, err, tt.wantErr)
			}
		})
	}
}

func TestTokenValidator_NoSecretsRejectsEverything(t *testing.T) {
	v := NewTokenValidator(nil)
	if err := v.Validate("Bearer "); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("Validate() = %v, want ErrInvalidCredential", err)
	}
	if err := v.Validate("Bearer anything"); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("Validate() = %v, want ErrInvalidCredential", err)
	}
}

func TestTokenValidator_Replace(t *testing.T) {
	v := NewTokenValidator([]string{"old"})
	v.Replace([]string{"new", ""})

	if v.Len() != 1 {
		t.Errorf("Len() = %d, want 1", v.Len())
	}
	if err := v.Validate("Bearer old"); !errors.Is(err, ErrInvalidCredential) {
		t.Errorf("rotated-out secret accepted: %v", err)
	}
	if err := v.Validate("Bearer new"); err != nil {
		t.Errorf("new secret rejected: %v", err)
	}
}

func TestBearerMiddleware_Handle(t *testing.T) {
	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedReason string
	}{
		{"valid token", "Bearer test-token", http.StatusOK, ""},
		{"missing header", "", http.StatusForbidden, "missing"},
		{"malformed header", "Token test-token", http.StatusForbidden, "malformed"},
		{"wrong token", "Bearer nope", http.StatusForbidden, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := &bytes.Buffer{}
			logger := slog.New(slog.NewJSONHandler(logs, nil))
			recorder := &countingRecorder{}

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			mw := NewBearerMiddleware(NewTokenValidator([]string{"test-token"}), recorder, logger)

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			mw.Handle(next).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.expectedStatus)
			}

			if tt.expectedStatus == http.StatusOK {
				if !called {
					t.Error("next handler was not called")
				}
				if logs.Len() != 0 {
					t.Errorf("successful auth wrote logs: %s", logs.String())
				}
				return
			}

			if called {
				t.Error("next handler was called for a rejected request")
			}
			if rec.Body.String() != "Forbidden" {
				t.Errorf("body = %q, want exactly %q", rec.Body.String(), "Forbidden")
			}
			if lines := strings.Count(logs.String(), "\n"); lines != 1 {
				t.Errorf("wrote %d log lines, want exactly 1: %s", lines, logs.String())
			}
			if !strings.Contains(logs.String(), "authentication failed") {
				t.Errorf("log line missing message: %s", logs.String())
			}
			if strings.Contains(logs.String(), "nope") {
				t.Errorf("rejected credential leaked into log: %s", logs.String())
			}
			if len(recorder.reasons) != 1 || recorder.reasons[0] != tt.expectedReason {
				t.Errorf("recorded reasons = %v, want [%s]", recorder.reasons, tt.expectedReason)
			}
		})
	}
}

func TestWriteForbidden(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteForbidden(rec)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Errorf("Content-Type = %q", got)
	}
	if rec.Body.String() != ForbiddenBody {
		t.Errorf("body = %q", rec.Body.String())
	}
}
