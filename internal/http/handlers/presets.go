package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"upo-server/internal/domain"
	"upo-server/internal/enhance"
	"upo-server/internal/sqlinline"
)

type presetCreateRequest struct {
	Name    string          `json:"name"`
	Payload enhance.Request `json:"payload"`
}

func (a *App) PresetCreate(w http.ResponseWriter, r *http.Request) {
	var req presetCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	name := cases.Title(language.English).String(strings.ToLower(strings.TrimSpace(req.Name)))
	if name == "" {
		a.error(w, http.StatusBadRequest, "validation", "name your preset first")
		return
	}
	if strings.TrimSpace(req.Payload.Idea) == "" {
		a.error(w, http.StatusBadRequest, "validation", "preset payload needs an idea")
		return
	}

	preset := domain.Preset{
		ID:   uuid.NewString(),
		Name: name,
	}
	payload, err := json.Marshal(req.Payload)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to encode payload")
		return
	}
	preset.Payload = payload

	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertPreset, preset.ID, preset.Name, preset.Payload)
	if err := row.Scan(&preset.CreatedAt); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to save preset")
		return
	}
	a.json(w, http.StatusCreated, preset)
}

func (a *App) PresetList(w http.ResponseWriter, r *http.Request) {
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListPresets)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load presets")
		return
	}
	defer rows.Close()

	items := []domain.Preset{}
	for rows.Next() {
		var p domain.Preset
		if err := rows.Scan(&p.ID, &p.Name, &p.Payload, &p.CreatedAt); err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to read preset")
			return
		}
		items = append(items, p)
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) PresetGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid preset id")
		return
	}

	var p domain.Preset
	row := a.SQL.QueryRow(r.Context(), sqlinline.QGetPreset, id)
	if err := row.Scan(&p.ID, &p.Name, &p.Payload, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			a.error(w, http.StatusNotFound, "not_found", "preset not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load preset")
		return
	}
	a.json(w, http.StatusOK, p)
}

func (a *App) PresetDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid preset id")
		return
	}

	tag, err := a.SQL.Exec(r.Context(), sqlinline.QDeletePreset, id)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete preset")
		return
	}
	if tag.RowsAffected() == 0 {
		a.error(w, http.StatusNotFound, "not_found", "preset not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
