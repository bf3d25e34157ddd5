package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mercator-hq/egress/pkg/egress"
	"mercator-hq/egress/pkg/envelope"
	"mercator-hq/egress/pkg/proxy/types"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "validation error",
			err:         &envelope.ValidationError{Field: "url", Message: "url is required"},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "url is required",
		},
		{
			name:        "wrapped validation error",
			err:         fmt.Errorf("decode: %w", &envelope.ValidationError{Field: "method", Message: "bad"}),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "bad",
		},
		{
			name:        "transport error",
			err:         &egress.TransportError{Region: "weur", Err: errors.New("dial tcp: connection refused")},
			wantStatus:  http.StatusBadGateway,
			wantMessage: "upstream request failed: dial tcp: connection refused",
		},
		{
			name:        "request error",
			err:         &RequestError{Status: http.StatusRequestEntityTooLarge, Message: "too big"},
			wantStatus:  http.StatusRequestEntityTooLarge,
			wantMessage: "too big",
		},
		{
			name:        "unknown error",
			err:         errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "internal error: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HandleError(tt.err)
			if got.Status != tt.wantStatus {
				t.Errorf("status = %d, want %d", got.Status, tt.wantStatus)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestWriteResponse(t *testing.T) {
	w := httptest.NewRecorder()
	resp := types.NewResponse(http.StatusNotFound, map[string]string{"content-type": "application/json"}, json.RawMessage(`{"error":"nope"}`))

	if err := WriteResponse(w, resp); err != nil {
		t.Fatalf("WriteResponse() error: %v", err)
	}
	if w.Code != http.StatusOK {
		t.Errorf("HTTP status = %d, want 200 for relayed responses", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var got struct {
		Status  int               `json:"status"`
		Headers map[string]string `json:"headers"`
		Body    map[string]string `json:"body"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Status != http.StatusNotFound || got.Body["error"] != "nope" || got.Headers["content-type"] != "application/json" {
		t.Errorf("decoded = %+v", got)
	}
}

func TestWriteResponse_MarkupNotEscaped(t *testing.T) {
	w := httptest.NewRecorder()
	resp := types.NewResponse(http.StatusOK, nil, types.TextBody("<ok a=\"1\"/>"))

	if err := WriteResponse(w, resp); err != nil {
		t.Fatalf("WriteResponse() error: %v", err)
	}
	if !strings.Contains(w.Body.String(), `"body":"<ok a=\"1\"/>"`) {
		t.Errorf("relayed XML should reach the caller unescaped: %s", w.Body.String())
	}
}

func TestWriteResponse_UnencodableBody(t *testing.T) {
	w := httptest.NewRecorder()
	resp := &types.Response{Status: http.StatusOK, Headers: map[string]string{}, Body: json.RawMessage(`{broken`)}

	if err := WriteResponse(w, resp); err != nil {
		t.Fatalf("WriteResponse() error: %v", err)
	}
	if w.Code != http.StatusInternalServerError {
		t.Errorf("HTTP status = %d, want 500", w.Code)
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	if err := WriteError(w, types.NewBadGatewayError("upstream request failed: timeout")); err != nil {
		t.Fatalf("WriteError() error: %v", err)
	}
	if w.Code != http.StatusBadGateway {
		t.Errorf("HTTP status = %d, want 502", w.Code)
	}

	var got types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Status != http.StatusBadGateway || got.Message != "upstream request failed: timeout" {
		t.Errorf("decoded = %+v", got)
	}
}
