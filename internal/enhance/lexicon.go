package enhance

import (
	"fmt"
	"strings"
)

// Category tags one segment of the unified prompt. The segment order is a
// fixed constant of the pipeline, never derived from data.
type Category string

const (
	CategoryQuality     Category = "quality"
	CategorySubject     Category = "subject"
	CategoryStyle       Category = "style"
	CategoryLighting    Category = "lighting"
	CategoryComposition Category = "composition"
	CategoryMood        Category = "mood"
	CategoryColorGrade  Category = "color_grade"
	CategoryExtraTags   Category = "extra_tags"

	// CategoryPhotography feeds presence detection and hints only; it has
	// no segment of its own and folds into the style segment.
	CategoryPhotography Category = "photography"
)

// Negative prompt categories.
const (
	NegativeCustom     Category = "custom"
	NegativeAnatomical Category = "anatomical"
	NegativeArtifact   Category = "artifact"
	NegativeStyle      Category = "style_issues"
	NegativeBranding   Category = "branding"
)

// Lexicon is an immutable table of category -> ordered candidate phrases.
// It is built once at startup and shared by every request; reads need no
// locking.
type Lexicon struct {
	phrases map[Category][]string
}

// NewLexicon validates that every required category is present and non-empty.
// A missing category is a fatal misconfiguration, so construction is the only
// place this can fail.
func NewLexicon(phrases map[Category][]string, required ...Category) (*Lexicon, error) {
	for _, cat := range required {
		if len(phrases[cat]) == 0 {
			return nil, fmt.Errorf("lexicon: category %q is missing or empty", cat)
		}
	}
	copied := make(map[Category][]string, len(phrases))
	for cat, list := range phrases {
		copied[cat] = append([]string(nil), list...)
	}
	return &Lexicon{phrases: copied}, nil
}

// Lookup returns the ordered phrase list for a category. The returned slice
// must not be mutated by callers.
func (l *Lexicon) Lookup(cat Category) []string {
	return l.phrases[cat]
}

// DefaultFor returns the first phrase of a category, used when neither an
// override nor a classifier hint applies.
func (l *Lexicon) DefaultFor(cat Category) string {
	if list := l.phrases[cat]; len(list) > 0 {
		return list[0]
	}
	return ""
}

// Contains reports whether the phrase belongs to any category, matched
// case-insensitively.
func (l *Lexicon) Contains(phrase string) bool {
	key := strings.ToLower(strings.TrimSpace(phrase))
	for _, list := range l.phrases {
		for _, p := range list {
			if strings.ToLower(p) == key {
				return true
			}
		}
	}
	return false
}

// positiveCategories are required when building the positive lexicon.
var positiveCategories = []Category{
	CategoryQuality,
	CategoryStyle,
	CategoryPhotography,
	CategoryLighting,
	CategoryComposition,
	CategoryMood,
	CategoryColorGrade,
}

// negativeCategories are required when building the negative lexicon.
var negativeCategories = []Category{
	NegativeAnatomical,
	NegativeArtifact,
	NegativeStyle,
	NegativeBranding,
}

// DefaultLexicon returns the stock positive phrase table.
func DefaultLexicon() *Lexicon {
	lex, err := NewLexicon(map[Category][]string{
		CategoryQuality: {
			"ultra detailed", "masterpiece", "best quality", "8k",
			"highres", "intricate", "sharp focus", "professional",
		},
		CategoryStyle: {
			"photorealistic", "hyperrealistic", "cinematic", "digital art",
			"oil painting", "watercolor", "anime", "manga", "concept art",
			"impressionist", "baroque", "art nouveau", "cyberpunk",
			"steampunk", "minimalist",
		},
		CategoryPhotography: {
			"bokeh", "depth of field", "macro photography", "wide angle",
			"telephoto", "portrait photography", "street photography",
			"documentary", "fashion photography", "85mm lens", "35mm",
		},
		CategoryLighting: {
			"soft lighting", "hard lighting", "natural lighting",
			"studio lighting", "golden hour", "blue hour", "backlighting",
			"rim lighting", "volumetric lighting", "neon glow", "chiaroscuro",
		},
		CategoryComposition: {
			"rule of thirds", "centered", "symmetrical", "leading lines",
			"negative space", "close-up", "medium shot", "wide shot",
			"bird's eye view",
		},
		CategoryMood: {
			"dramatic", "moody", "serene", "melancholic", "uplifting",
			"mysterious", "romantic", "energetic", "peaceful", "nostalgic",
			"futuristic",
		},
		CategoryColorGrade: {
			"vibrant", "desaturated", "monochrome", "sepia",
			"teal and orange", "warm tones", "cool tones", "high contrast",
			"film grain",
		},
	}, positiveCategories...)
	if err != nil {
		panic(err)
	}
	return lex
}

// DefaultNegativeLexicon returns the stock negative phrase table.
func DefaultNegativeLexicon() *Lexicon {
	lex, err := NewLexicon(map[Category][]string{
		NegativeAnatomical: {
			"bad anatomy", "bad hands", "extra limbs", "missing fingers",
			"extra digit", "mutated hands", "fused fingers", "long neck",
			"bad proportions",
		},
		NegativeArtifact: {
			"lowres", "worst quality", "low quality", "jpeg artifacts",
			"blurry", "cropped", "error",
		},
		NegativeStyle: {
			"deformed", "disfigured", "poorly drawn face",
			"poorly drawn hands", "duplicate", "out of frame",
		},
		NegativeBranding: {
			"watermark", "signature", "text", "username", "logo",
		},
	}, negativeCategories...)
	if err != nil {
		panic(err)
	}
	return lex
}
