package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"upo-server/internal/domain"
	"upo-server/internal/enhance"
	"upo-server/internal/middleware"
	"upo-server/internal/sqlinline"
	"upo-server/pkg/zip"
)

const maxBatchItems = 20

// optimizeHints is static guidance returned alongside every result, carried
// over from the original optimizer UI.
var optimizeHints = map[string]string{
	"faces":  "For better faces: add 'portrait, detailed face, sharp focus' and keep 'bad anatomy' in the negative",
	"motion": "For video: use motion cues like 'gentle camera movement' but avoid 'warping, morphing'",
	"busy":   "If output is too busy: reduce adjectives and focus on 1-2 key elements",
}

type optimizeResponse struct {
	Prompt    string            `json:"prompt"`
	Negative  string            `json:"negative"`
	Platforms enhance.Platforms `json:"platforms"`
	Hints     map[string]string `json:"hints"`
}

func (a *App) Optimize(w http.ResponseWriter, r *http.Request) {
	var req enhance.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	start := time.Now()
	res, cached, err := a.enhanceCached(req)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyIdea) {
			a.error(w, http.StatusBadRequest, "validation", "please describe your idea")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "enhancement failed")
		return
	}

	a.recordUsage(r, "OPTIMIZE", true, time.Since(start), map[string]any{
		"aspect_ratio": string(enhance.ParseAspectRatio(req.AspectRatio)),
		"cached":       cached,
	})
	a.json(w, http.StatusOK, optimizeResponse{
		Prompt:    res.Prompt,
		Negative:  res.Negative,
		Platforms: res.Platforms,
		Hints:     optimizeHints,
	})
}

type optimizeBatchRequest struct {
	Items []enhance.Request `json:"items"`
}

// OptimizeBatch runs up to maxBatchItems enhancements with bounded
// parallelism. The engine is stateless, so items share one instance.
func (a *App) OptimizeBatch(w http.ResponseWriter, r *http.Request) {
	var req optimizeBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if len(req.Items) == 0 {
		a.error(w, http.StatusBadRequest, "validation", "items must not be empty")
		return
	}
	if len(req.Items) > maxBatchItems {
		a.error(w, http.StatusBadRequest, "validation", fmt.Sprintf("at most %d items per batch", maxBatchItems))
		return
	}

	start := time.Now()
	results := make([]*enhance.Result, len(req.Items))
	g, _ := errgroup.WithContext(r.Context())
	g.SetLimit(4)
	for i, item := range req.Items {
		i, item := i, item
		g.Go(func() error {
			res, _, err := a.enhanceCached(item)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrEmptyIdea) {
			a.error(w, http.StatusBadRequest, "validation", err.Error())
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "enhancement failed")
		return
	}

	items := make([]optimizeResponse, len(results))
	for i, res := range results {
		items[i] = optimizeResponse{
			Prompt:    res.Prompt,
			Negative:  res.Negative,
			Platforms: res.Platforms,
			Hints:     optimizeHints,
		}
	}
	a.recordUsage(r, "OPTIMIZE_BATCH", true, time.Since(start), map[string]any{"items": len(req.Items)})
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// OptimizeExport returns the full result as a zip archive of per-platform
// files, mirroring the original UI's download buttons.
func (a *App) OptimizeExport(w http.ResponseWriter, r *http.Request) {
	var req enhance.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	res, _, err := a.enhanceCached(req)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyIdea) {
			a.error(w, http.StatusBadRequest, "validation", "please describe your idea")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "enhancement failed")
		return
	}

	entries := []zip.Entry{
		{Filename: "unified_positive.txt", Data: []byte(res.Prompt)},
		{Filename: "unified_negative.txt", Data: []byte(res.Negative)},
		{Filename: "sdxl.json", Data: mustJSON(res.Platforms.SDXL)},
		{Filename: "comfyui.json", Data: mustJSON(res.Platforms.Comfy)},
		{Filename: "midjourney.txt", Data: []byte(res.Platforms.Midjourney.Prompt)},
		{Filename: "pika.json", Data: mustJSON(res.Platforms.Pika)},
		{Filename: "runway.json", Data: mustJSON(res.Platforms.Runway)},
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="optimized_prompts.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(zip.Archive(entries))
}

// enhanceCached memoizes engine results: the pipeline is deterministic, so
// identical requests always map to identical output.
func (a *App) enhanceCached(req enhance.Request) (*enhance.Result, bool, error) {
	key := requestCacheKey(req)
	if a.Cache != nil && key != "" {
		if hit, ok := a.Cache.Get(key); ok {
			if res, ok := hit.(*enhance.Result); ok {
				return res, true, nil
			}
		}
	}
	res, err := a.Engine.Enhance(req)
	if err != nil {
		return nil, false, err
	}
	if a.Cache != nil && key != "" {
		a.Cache.SetDefault(key, res)
	}
	return res, false, nil
}

func requestCacheKey(req enhance.Request) string {
	raw, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// recordUsage inserts a best-effort usage event; insert failures are
// swallowed so analytics never breaks a response.
func (a *App) recordUsage(r *http.Request, eventType string, ok bool, latency time.Duration, props map[string]any) {
	if a.SQL == nil {
		return
	}
	properties, _ := json.Marshal(props)
	_, _ = a.SQL.Exec(r.Context(), sqlinline.QInsertUsageEvent,
		middleware.RequestIDFromContext(r.Context()),
		eventType,
		middleware.CountryFromContext(r.Context()),
		ok,
		latency.Milliseconds(),
		properties,
	)
}

func mustJSON(v any) []byte {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		panic(fmt.Errorf("json marshal: %w", err))
	}
	return b
}
