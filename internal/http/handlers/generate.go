package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"upo-server/internal/comfy"
	"upo-server/internal/domain"
	"upo-server/internal/enhance"
)

type generateComfyRequest struct {
	Host    string          `json:"host,omitempty"`
	Request enhance.Request `json:"request"`
}

// GenerateComfy proxies a generation to a ComfyUI host: the engine builds
// the prompts and node hints, the comfy client submits the workflow and
// polls until images are ready.
func (a *App) GenerateComfy(w http.ResponseWriter, r *http.Request) {
	var req generateComfyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	host := comfy.NormalizeHost(req.Host)
	if host == "" {
		host = comfy.NormalizeHost(a.ComfyHost)
	}
	if host == "" {
		a.error(w, http.StatusBadRequest, "validation", "comfyui host is required")
		return
	}

	res, _, err := a.enhanceCached(req.Request)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyIdea) {
			a.error(w, http.StatusBadRequest, "validation", "please describe your idea")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "enhancement failed")
		return
	}

	start := time.Now()
	images, err := a.Comfy.Generate(r.Context(), host, comfy.BuildWorkflow(res.Platforms.Comfy))
	if err != nil {
		a.Logger.Error().Err(err).Str("host", host).Msg("comfy generation failed")
		a.recordUsage(r, "GENERATE_COMFY", false, time.Since(start), nil)
		if errors.Is(err, domain.ErrGenerationTimeout) {
			a.error(w, http.StatusRequestTimeout, "timeout", "generation timed out")
			return
		}
		a.error(w, http.StatusBadGateway, "upstream", "comfyui generation failed")
		return
	}

	a.recordUsage(r, "GENERATE_COMFY", true, time.Since(start), map[string]any{"images": len(images)})
	a.json(w, http.StatusOK, map[string]any{"images": images})
}
