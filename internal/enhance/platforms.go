package enhance

import "strings"

// AspectRatio is the request-level aspect enum. Unknown values fall back to
// landscape; that is never an error.
type AspectRatio string

const (
	AspectSquare     AspectRatio = "square"
	AspectPortrait   AspectRatio = "portrait"
	AspectLandscape  AspectRatio = "landscape"
	AspectWidescreen AspectRatio = "widescreen"
)

type resolution struct {
	Width  int
	Height int
	MJFlag string
}

// aspectTable is the fixed aspect -> SDXL resolution / Midjourney flag map.
var aspectTable = map[AspectRatio]resolution{
	AspectSquare:     {1024, 1024, "1:1"},
	AspectPortrait:   {832, 1216, "2:3"},
	AspectLandscape:  {1216, 832, "3:2"},
	AspectWidescreen: {1344, 768, "16:9"},
}

// ParseAspectRatio normalizes the caller value, defaulting to landscape.
func ParseAspectRatio(s string) AspectRatio {
	ar := AspectRatio(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := aspectTable[ar]; !ok {
		return AspectLandscape
	}
	return ar
}

// SDXL knob bounds and defaults.
const (
	DefaultSteps = 30
	MinSteps     = 10
	MaxSteps     = 60

	DefaultCFGScale = 7.0
	MinCFGScale     = 1.0
	MaxCFGScale     = 20.0

	DefaultSampler = "DPM++ 2M Karras"
	RandomSeed     = int64(-1)

	DefaultBatchSize = 1
	MaxBatchSize     = 4

	defaultCheckpoint = "sd_xl_base_1.0.safetensors"
)

// Video knob bounds and defaults.
const (
	DefaultPikaMotion   = 2
	MinPikaMotion       = 0
	MaxPikaMotion       = 4
	DefaultPikaDuration = 6
	MinPikaDuration     = 2
	MaxPikaDuration     = 10
	DefaultPikaGuidance = 7.0

	DefaultRunwayMotion   = 5
	MinRunwayMotion       = 1
	MaxRunwayMotion       = 10
	DefaultRunwayDuration = 5
	MinRunwayDuration     = 2
	MaxRunwayDuration     = 16
)

// allowedSamplers maps the UI sampler names to their ComfyUI counterparts.
// Membership doubles as the allowed set for the sampler knob.
var allowedSamplers = map[string]string{
	"DPM++ 2M Karras":  "dpmpp_2m",
	"DPM++ SDE Karras": "dpmpp_sde",
	"Euler":            "euler",
	"Euler a":          "euler_ancestral",
	"DDIM":             "ddim",
	"UniPC":            "uni_pc",
}

// Knobs are the per-request numeric settings after defaulting and clamping.
type Knobs struct {
	Steps          int
	CFGScale       float64
	Sampler        string
	Seed           int64
	BatchSize      int
	Motion         int
	MotionStrength int
	DurationSec    int
}

// resolveKnobs defaults and clamps every numeric knob independently.
// Out-of-range values are clamped silently; an unknown sampler falls back to
// the default.
func resolveKnobs(req Request) Knobs {
	k := Knobs{
		Steps:          clampInt(orInt(req.Steps, DefaultSteps), MinSteps, MaxSteps),
		CFGScale:       clampFloat(orFloat(req.CFGScale, DefaultCFGScale), MinCFGScale, MaxCFGScale),
		Sampler:        DefaultSampler,
		Seed:           RandomSeed,
		BatchSize:      clampInt(orInt(req.BatchSize, DefaultBatchSize), 1, MaxBatchSize),
		Motion:         DefaultPikaMotion,
		MotionStrength: clampInt(orInt(req.MotionStrength, DefaultRunwayMotion), MinRunwayMotion, MaxRunwayMotion),
	}
	if _, ok := allowedSamplers[req.Sampler]; ok {
		k.Sampler = req.Sampler
	}
	if req.Seed != nil {
		k.Seed = *req.Seed
	}
	if req.Motion != nil {
		k.Motion = clampInt(*req.Motion, MinPikaMotion, MaxPikaMotion)
	}
	k.DurationSec = req.DurationSec
	return k
}

func orInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}

func orFloat(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// buildSDXL maps the prompts and knobs into an SDXL payload.
func buildSDXL(prompt, negative string, ar AspectRatio, k Knobs) SDXLConfig {
	res := aspectTable[ar]
	return SDXLConfig{
		Prompt:    prompt,
		Negative:  negative,
		Width:     res.Width,
		Height:    res.Height,
		Steps:     k.Steps,
		CFGScale:  k.CFGScale,
		Sampler:   k.Sampler,
		Seed:      k.Seed,
		BatchSize: k.BatchSize,
	}
}

// buildComfy emits the node-level hint payload for a stock SDXL workflow.
func buildComfy(prompt, negative string, ar AspectRatio, k Knobs) ComfyConfig {
	res := aspectTable[ar]
	return ComfyConfig{
		Positive: prompt,
		Negative: negative,
		NodesHint: ComfyNodesHint{
			KSampler: ComfyKSampler{
				Seed:        k.Seed,
				Steps:       k.Steps,
				CFG:         k.CFGScale,
				SamplerName: allowedSamplers[k.Sampler],
				Scheduler:   "karras",
			},
			Latent: ComfyLatent{
				Width:     res.Width,
				Height:    res.Height,
				BatchSize: k.BatchSize,
			},
			Checkpoint: ComfyCheckpoint{CkptName: defaultCheckpoint},
		},
	}
}

// buildMidjourney appends the v6 flag string to the unified prompt. "8k" is
// swapped for a spelled-out phrase because Midjourney penalizes the token.
func buildMidjourney(prompt string, ar AspectRatio) MidjourneyConfig {
	flags := "--v 6 --ar " + aspectTable[ar].MJFlag + " --stylize 200 --chaos 5"
	clean := strings.ReplaceAll(prompt, "8k", "ultra high detail")
	return MidjourneyConfig{
		Prompt: clean + " " + flags,
		Flags:  flags,
	}
}

// buildPika clamps the motion knobs into Pika's documented ranges.
func buildPika(prompt, negative string, k Knobs) PikaConfig {
	return PikaConfig{
		Prompt:      prompt,
		Avoid:       negative,
		Motion:      k.Motion,
		DurationSec: clampInt(orInt(k.DurationSec, DefaultPikaDuration), MinPikaDuration, MaxPikaDuration),
		Guidance:    DefaultPikaGuidance,
		Camera:      "subtle push-in",
	}
}

// buildRunway clamps the motion knobs into Runway's documented ranges.
func buildRunway(prompt, negative string, k Knobs) RunwayConfig {
	return RunwayConfig{
		TextPrompt:     prompt,
		NegativePrompt: negative,
		MotionStrength: k.MotionStrength,
		DurationSec:    clampInt(orInt(k.DurationSec, DefaultRunwayDuration), MinRunwayDuration, MaxRunwayDuration),
		CameraMotion:   "push_in",
	}
}
