package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusTeapot, "nope")
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "nope" {
		t.Fatalf("body = %v", body)
	}
}

func TestDecodeJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	rec := httptest.NewRecorder()
	var dst struct {
		Name string `json:"name"`
	}
	if !DecodeJSON(rec, req, &dst) || dst.Name != "x" {
		t.Fatalf("decode failed, dst = %+v", dst)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{broken"))
	rec = httptest.NewRecorder()
	if DecodeJSON(rec, req, &dst) {
		t.Fatal("decode of malformed body must fail")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid request body") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := BearerToken(req); got != "" {
		t.Fatalf("missing header: token = %q", got)
	}

	req.Header.Set("Authorization", "Basic abc")
	if got := BearerToken(req); got != "" {
		t.Fatalf("wrong scheme: token = %q", got)
	}

	req.Header.Set("Authorization", "Bearer tok123")
	if got := BearerToken(req); got != "tok123" {
		t.Fatalf("token = %q", got)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := ClientIP(req, "CF-Connecting-IP"); got != "unknown" {
		t.Fatalf("no header: ip = %q", got)
	}

	req.Header.Set("CF-Connecting-IP", " 203.0.113.9 ")
	if got := ClientIP(req, "CF-Connecting-IP"); got != "203.0.113.9" {
		t.Fatalf("ip = %q", got)
	}
}
