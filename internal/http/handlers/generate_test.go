package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"upo-server/internal/comfy"
	"upo-server/internal/enhance"
)

func newGenerateApp(sql *usageTestSQL, comfyHost string) *App {
	return &App{
		Logger:    zerolog.Nop(),
		SQL:       sql,
		Engine:    enhance.NewDefaultEngine(),
		Cache:     gocache.New(time.Minute, time.Minute),
		Comfy:     comfy.NewClient(),
		ComfyHost: comfyHost,
	}
}

func TestGenerateComfyRequiresHost(t *testing.T) {
	app := newGenerateApp(&usageTestSQL{}, "")

	rr := postJSON(t, func(rr *httptest.ResponseRecorder, body *bytes.Reader) {
		req := httptest.NewRequest("POST", "/v1/generate/comfy", body)
		app.GenerateComfy(rr, req)
	}, generateComfyRequest{Request: enhance.Request{Idea: "a castle"}})

	if rr.Code != 400 {
		t.Fatalf("unexpected status code: got %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "host") {
		t.Fatalf("expected a host error, got %s", rr.Body.String())
	}
}

func TestGenerateComfyReturnsImageURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/prompt":
			_ = json.NewEncoder(w).Encode(map[string]string{"prompt_id": "job-1"})
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/history/"):
			_, _ = w.Write([]byte(`{"job-1":{"outputs":{"9":{"images":[{"filename":"UPO_00001_.png"}]}}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	sql := &usageTestSQL{}
	app := newGenerateApp(sql, srv.URL)

	rr := postJSON(t, func(rr *httptest.ResponseRecorder, body *bytes.Reader) {
		req := httptest.NewRequest("POST", "/v1/generate/comfy", body)
		app.GenerateComfy(rr, req)
	}, generateComfyRequest{Request: enhance.Request{Idea: "a castle at dusk"}})

	if rr.Code != 200 {
		t.Fatalf("unexpected status code: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	var payload struct {
		Images []string `json:"images"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Images) != 1 || !strings.Contains(payload.Images[0], "UPO_00001_.png") {
		t.Fatalf("unexpected images: %#v", payload.Images)
	}
	if len(sql.execs) != 1 || sql.execs[0].args[1] != "GENERATE_COMFY" {
		t.Fatalf("expected a GENERATE_COMFY usage event, got %#v", sql.execs)
	}
}
