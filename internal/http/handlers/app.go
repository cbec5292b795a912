package handlers

import (
	"encoding/json"
	"net/http"

	cache "github.com/patrickmn/go-cache"

	"upo-server/internal/comfy"
	"upo-server/internal/enhance"
	"upo-server/internal/infra"
)

// App is the handler dependency container.
type App struct {
	Logger infra.Logger
	SQL    infra.SQLExecutor
	Engine *enhance.Engine
	Cache  *cache.Cache
	Comfy  *comfy.Client

	// ComfyHost is the default generation host when the request omits one.
	ComfyHost string
}

func NewApp(logger infra.Logger, sql infra.SQLExecutor, engine *enhance.Engine, c *cache.Cache, client *comfy.Client, comfyHost string) *App {
	return &App{
		Logger:    logger,
		SQL:       sql,
		Engine:    engine,
		Cache:     c,
		Comfy:     client,
		ComfyHost: comfyHost,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": slug, "message": message},
	})
}
