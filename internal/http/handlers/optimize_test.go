package handlers

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"upo-server/internal/enhance"
	"upo-server/internal/sqlinline"
)

type execCall struct {
	query string
	args  []any
}

type usageTestSQL struct {
	execs []execCall
}

func (u *usageTestSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	u.execs = append(u.execs, execCall{query: query, args: args})
	return pgconn.CommandTag{}, nil
}

func (u *usageTestSQL) QueryRow(context.Context, string, ...any) pgx.Row {
	return NewSimpleRow(nil)
}

func (u *usageTestSQL) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, fmt.Errorf("query not supported in usage test sql")
}

func newTestApp(sql *usageTestSQL) *App {
	return &App{
		Logger: zerolog.Nop(),
		SQL:    sql,
		Engine: enhance.NewDefaultEngine(),
		Cache:  gocache.New(time.Minute, time.Minute),
	}
}

func postJSON(t *testing.T, app func(rr *httptest.ResponseRecorder, body *bytes.Reader), payload any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	rr := httptest.NewRecorder()
	app(rr, bytes.NewReader(raw))
	return rr
}

func TestOptimizeReturnsUnifiedResult(t *testing.T) {
	app := newTestApp(&usageTestSQL{})

	rr := postJSON(t, func(rr *httptest.ResponseRecorder, body *bytes.Reader) {
		req := httptest.NewRequest("POST", "/v1/optimize", body)
		app.Optimize(rr, req)
	}, enhance.Request{
		Idea:        "a rainy cyberpunk alley with neon reflections, cinematic, 35mm",
		AspectRatio: "portrait",
	})

	if rr.Code != 200 {
		t.Fatalf("unexpected status code: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}

	var res optimizeResponse
	if err := json.NewDecoder(rr.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(res.Prompt, "ultra detailed") {
		t.Fatalf("expected quality-first prompt, got %q", res.Prompt)
	}
	if !strings.Contains(res.Prompt, "cyberpunk") {
		t.Fatalf("expected style in prompt, got %q", res.Prompt)
	}
	if !strings.Contains(res.Negative, "bad anatomy") || !strings.Contains(res.Negative, "watermark") {
		t.Fatalf("expected stock negative terms, got %q", res.Negative)
	}
	if res.Platforms.SDXL.Width != 832 || res.Platforms.SDXL.Height != 1216 {
		t.Fatalf("expected portrait resolution 832x1216, got %dx%d", res.Platforms.SDXL.Width, res.Platforms.SDXL.Height)
	}
	if len(res.Hints) == 0 {
		t.Fatalf("expected usage hints in response")
	}
}

func TestOptimizeRejectsEmptyIdea(t *testing.T) {
	app := newTestApp(&usageTestSQL{})

	rr := postJSON(t, func(rr *httptest.ResponseRecorder, body *bytes.Reader) {
		req := httptest.NewRequest("POST", "/v1/optimize", body)
		app.Optimize(rr, req)
	}, enhance.Request{Idea: "   "})

	if rr.Code != 400 {
		t.Fatalf("unexpected status code: got %d, want 400", rr.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Error.Code != "validation" {
		t.Fatalf("expected validation error, got %q", payload.Error.Code)
	}
}

func TestOptimizeRecordsUsageEvent(t *testing.T) {
	sql := &usageTestSQL{}
	app := newTestApp(sql)

	rr := postJSON(t, func(rr *httptest.ResponseRecorder, body *bytes.Reader) {
		req := httptest.NewRequest("POST", "/v1/optimize", body)
		app.Optimize(rr, req)
	}, enhance.Request{Idea: "a castle"})

	if rr.Code != 200 {
		t.Fatalf("unexpected status code: got %d, want 200", rr.Code)
	}
	if len(sql.execs) != 1 {
		t.Fatalf("expected 1 usage insert, got %d", len(sql.execs))
	}
	call := sql.execs[0]
	if call.query != sqlinline.QInsertUsageEvent {
		t.Fatalf("unexpected query: %s", call.query)
	}
	if call.args[1] != "OPTIMIZE" {
		t.Fatalf("expected OPTIMIZE event, got %#v", call.args[1])
	}
}

func TestOptimizeServesSecondIdenticalRequestFromCache(t *testing.T) {
	sql := &usageTestSQL{}
	app := newTestApp(sql)
	payload := enhance.Request{Idea: "a castle at golden hour"}

	for i := 0; i < 2; i++ {
		rr := postJSON(t, func(rr *httptest.ResponseRecorder, body *bytes.Reader) {
			req := httptest.NewRequest("POST", "/v1/optimize", body)
			app.Optimize(rr, req)
		}, payload)
		if rr.Code != 200 {
			t.Fatalf("request %d: unexpected status code %d", i, rr.Code)
		}
	}

	if len(sql.execs) != 2 {
		t.Fatalf("expected 2 usage inserts, got %d", len(sql.execs))
	}
	first, _ := sql.execs[0].args[5].([]byte)
	second, _ := sql.execs[1].args[5].([]byte)
	if !bytes.Contains(first, []byte(`"cached":false`)) {
		t.Fatalf("expected cache miss on first request, got %s", first)
	}
	if !bytes.Contains(second, []byte(`"cached":true`)) {
		t.Fatalf("expected cache hit on second request, got %s", second)
	}
}

func TestOptimizeBatchPreservesItemOrder(t *testing.T) {
	app := newTestApp(&usageTestSQL{})
	ideas := []string{"a misty forest", "a desert caravan", "a harbor at night"}
	items := make([]enhance.Request, len(ideas))
	for i, idea := range ideas {
		items[i] = enhance.Request{Idea: idea}
	}

	rr := postJSON(t, func(rr *httptest.ResponseRecorder, body *bytes.Reader) {
		req := httptest.NewRequest("POST", "/v1/optimize/batch", body)
		app.OptimizeBatch(rr, req)
	}, optimizeBatchRequest{Items: items})

	if rr.Code != 200 {
		t.Fatalf("unexpected status code: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	var payload struct {
		Items []optimizeResponse `json:"items"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Items) != len(ideas) {
		t.Fatalf("expected %d results, got %d", len(ideas), len(payload.Items))
	}
	for i, idea := range ideas {
		if !strings.Contains(payload.Items[i].Prompt, idea) {
			t.Fatalf("result %d lost its subject: %q", i, payload.Items[i].Prompt)
		}
	}
}

func TestOptimizeBatchRejectsOversizeAndEmptyItems(t *testing.T) {
	app := newTestApp(&usageTestSQL{})

	oversize := make([]enhance.Request, maxBatchItems+1)
	for i := range oversize {
		oversize[i] = enhance.Request{Idea: "an idea"}
	}
	rr := postJSON(t, func(rr *httptest.ResponseRecorder, body *bytes.Reader) {
		req := httptest.NewRequest("POST", "/v1/optimize/batch", body)
		app.OptimizeBatch(rr, req)
	}, optimizeBatchRequest{Items: oversize})
	if rr.Code != 400 {
		t.Fatalf("oversize batch: got %d, want 400", rr.Code)
	}

	rr = postJSON(t, func(rr *httptest.ResponseRecorder, body *bytes.Reader) {
		req := httptest.NewRequest("POST", "/v1/optimize/batch", body)
		app.OptimizeBatch(rr, req)
	}, optimizeBatchRequest{Items: []enhance.Request{{Idea: "ok"}, {Idea: "  "}}})
	if rr.Code != 400 {
		t.Fatalf("empty item: got %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "item 1") {
		t.Fatalf("expected the failing item index in the message, got %s", rr.Body.String())
	}
}

func TestOptimizeExportProducesZipArchive(t *testing.T) {
	app := newTestApp(&usageTestSQL{})

	rr := postJSON(t, func(rr *httptest.ResponseRecorder, body *bytes.Reader) {
		req := httptest.NewRequest("POST", "/v1/optimize/export", body)
		app.OptimizeExport(rr, req)
	}, enhance.Request{Idea: "a lighthouse on a cliff"})

	if rr.Code != 200 {
		t.Fatalf("unexpected status code: got %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/zip" {
		t.Fatalf("unexpected content type: %s", ct)
	}

	raw := rr.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	want := map[string]bool{
		"unified_positive.txt": false,
		"unified_negative.txt": false,
		"sdxl.json":            false,
		"comfyui.json":         false,
		"midjourney.txt":       false,
		"pika.json":            false,
		"runway.json":          false,
	}
	for _, f := range zr.File {
		if _, ok := want[f.Name]; !ok {
			t.Fatalf("unexpected file in archive: %s", f.Name)
		}
		want[f.Name] = true
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("missing file in archive: %s", name)
		}
	}
}
