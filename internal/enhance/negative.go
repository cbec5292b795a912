package enhance

import "strings"

// negativeOrder is the fixed assembly order of the negative prompt. Caller
// terms come first so explicit intent keeps its position ahead of the stock
// defaults.
var negativeOrder = []Category{
	NegativeCustom,
	NegativeAnatomical,
	NegativeArtifact,
	NegativeStyle,
	NegativeBranding,
}

// negativeDropOrder is the clamper priority for the negative prompt. Caller
// terms and the anatomical defaults are never dropped.
var negativeDropOrder = []Category{
	NegativeBranding,
	NegativeStyle,
	NegativeArtifact,
}

// buildNegative merges caller-supplied negative terms with the categorized
// defaults under the same dedup and clamp discipline as the unified prompt,
// on an independent budget.
func buildNegative(neg *Lexicon, custom string) string {
	segments := []Segment{{Category: NegativeCustom, Text: cleanText(custom)}}
	for _, cat := range negativeOrder[1:] {
		segments = append(segments, Segment{Category: cat, Text: strings.Join(neg.Lookup(cat), ", ")})
	}
	assembled := assemble(segments, Classification{})
	return clampSegments(assembled, negativeDropOrder, MaxPromptChars)
}
