package domain

import (
	"encoding/json"
	"time"
)

// Preset is a saved optimizer form: a named enhancement request the caller
// can reload later. The payload is stored opaquely; the engine never reads
// presets itself.
type Preset struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}
