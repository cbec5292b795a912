package enhance

// Request is the validated enhancement input handed over by the HTTP layer.
// Every field except Idea is optional; numeric knobs are defaulted and
// clamped independently, unknown enum values fall back to their defaults.
type Request struct {
	Idea        string `json:"idea"`
	Negative    string `json:"negative,omitempty"`
	AspectRatio string `json:"aspect_ratio,omitempty"`

	Style      string `json:"style,omitempty"`
	Lighting   string `json:"lighting,omitempty"`
	ColorGrade string `json:"color_grade,omitempty"`
	ExtraTags  string `json:"extra_tags,omitempty"`

	Steps     int     `json:"steps,omitempty"`
	CFGScale  float64 `json:"cfg_scale,omitempty"`
	Sampler   string  `json:"sampler,omitempty"`
	Seed      *int64  `json:"seed,omitempty"`
	BatchSize int     `json:"batch_size,omitempty"`

	// Video knobs. Motion is a pointer because 0 is a valid Pika value.
	Motion         *int `json:"motion,omitempty"`
	MotionStrength int  `json:"motion_strength,omitempty"`
	DurationSec    int  `json:"duration_sec,omitempty"`
}

// Result is the full engine output: the unified prompt, the negative prompt,
// and one configuration per supported platform.
type Result struct {
	Prompt    string    `json:"prompt"`
	Negative  string    `json:"negative"`
	Platforms Platforms `json:"platforms"`
}

// Platforms is a closed set: exactly one fixed-shape config per backend, so
// adapters cannot silently diverge in shape.
type Platforms struct {
	SDXL       SDXLConfig       `json:"sdxl"`
	Comfy      ComfyConfig      `json:"comfy"`
	Midjourney MidjourneyConfig `json:"midjourney"`
	Pika       PikaConfig       `json:"pika"`
	Runway     RunwayConfig     `json:"runway"`
}

// SDXLConfig carries the knobs a Stable Diffusion XL backend expects.
// Seed -1 means "pick a random seed".
type SDXLConfig struct {
	Prompt    string  `json:"prompt"`
	Negative  string  `json:"negative"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Steps     int     `json:"steps"`
	CFGScale  float64 `json:"cfg_scale"`
	Sampler   string  `json:"sampler"`
	Seed      int64   `json:"seed"`
	BatchSize int     `json:"batch_size"`
}

// ComfyConfig carries the node-level overrides for a stock SDXL ComfyUI
// workflow. Only the hint payload is produced; no graph is executed here.
type ComfyConfig struct {
	Positive  string         `json:"positive"`
	Negative  string         `json:"negative"`
	NodesHint ComfyNodesHint `json:"nodes_hint"`
}

type ComfyNodesHint struct {
	KSampler   ComfyKSampler   `json:"KSampler"`
	Latent     ComfyLatent     `json:"EmptyLatentImage"`
	Checkpoint ComfyCheckpoint `json:"CheckpointLoaderSimple"`
}

type ComfyKSampler struct {
	Seed        int64   `json:"seed"`
	Steps       int     `json:"steps"`
	CFG         float64 `json:"cfg"`
	SamplerName string  `json:"sampler_name"`
	Scheduler   string  `json:"scheduler"`
}

type ComfyLatent struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	BatchSize int `json:"batch_size"`
}

type ComfyCheckpoint struct {
	CkptName string `json:"ckpt_name"`
}

// MidjourneyConfig is the v6 command string: the unified prompt with the
// aspect, stylization, and version flags appended.
type MidjourneyConfig struct {
	Prompt string `json:"prompt"`
	Flags  string `json:"flags"`
}

// PikaConfig carries Pika Labs motion parameters. Out-of-range caller values
// are clamped, never rejected.
type PikaConfig struct {
	Prompt      string  `json:"prompt"`
	Avoid       string  `json:"avoid"`
	Motion      int     `json:"motion"`
	DurationSec int     `json:"duration_sec"`
	Guidance    float64 `json:"guidance"`
	Camera      string  `json:"camera"`
}

// RunwayConfig carries Runway ML motion parameters.
type RunwayConfig struct {
	TextPrompt     string `json:"text_prompt"`
	NegativePrompt string `json:"negative_prompt"`
	MotionStrength int    `json:"motion_strength"`
	DurationSec    int    `json:"duration_sec"`
	CameraMotion   string `json:"camera_motion"`
}
