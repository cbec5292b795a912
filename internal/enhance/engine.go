package enhance

import (
	"upo-server/internal/domain"
)

// Engine is the deterministic prompt enhancement pipeline. It holds only the
// immutable lexicons, so a single instance serves unbounded concurrent
// requests without locking.
type Engine struct {
	lexicon  *Lexicon
	negative *Lexicon
}

// NewEngine builds an engine around the given lexicons. Passing alternate
// lexicons keeps the pipeline testable without touching package state.
func NewEngine(lexicon, negative *Lexicon) *Engine {
	return &Engine{lexicon: lexicon, negative: negative}
}

// NewDefaultEngine wires the stock lexicons.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultLexicon(), DefaultNegativeLexicon())
}

// Enhance runs the full pipeline: classify, select, assemble, clamp, build
// the negative prompt, and derive the five platform configs. The only
// possible error is a missing idea; malformed-but-present text never fails.
func (e *Engine) Enhance(req Request) (*Result, error) {
	idea := cleanText(req.Idea)
	if idea == "" {
		return nil, domain.ErrEmptyIdea
	}

	cls := Classify(idea)
	segments := resolveSegments(e.lexicon, idea, cls, req)
	prompt := clampSegments(assemble(segments, cls), dropOrder, MaxPromptChars)
	negative := buildNegative(e.negative, req.Negative)

	knobs := resolveKnobs(req)
	ar := ParseAspectRatio(req.AspectRatio)

	return &Result{
		Prompt:   prompt,
		Negative: negative,
		Platforms: Platforms{
			SDXL:       buildSDXL(prompt, negative, ar, knobs),
			Comfy:      buildComfy(prompt, negative, ar, knobs),
			Midjourney: buildMidjourney(prompt, ar),
			Pika:       buildPika(prompt, negative, knobs),
			Runway:     buildRunway(prompt, negative, knobs),
		},
	}, nil
}
