package enhance

import "strings"

// Segment is one resolved category of the unified prompt, in assembly order.
type Segment struct {
	Category Category
	Text     string
}

// segmentOrder is the fixed assembly order of the unified prompt.
var segmentOrder = []Category{
	CategoryQuality,
	CategorySubject,
	CategoryStyle,
	CategoryLighting,
	CategoryComposition,
	CategoryMood,
	CategoryColorGrade,
	CategoryExtraTags,
}

// resolveSegments picks the final phrase per category: a non-empty caller
// override wins, then a classifier hint, then the lexicon default. The
// subject is always the cleaned idea itself and is never replaced. Selection
// never fails; every category resolves to some non-empty phrase except
// extra_tags, which stays empty unless the caller supplied it.
func resolveSegments(lex *Lexicon, idea string, cls Classification, req Request) []Segment {
	overrides := map[Category]string{
		CategoryStyle:      req.Style,
		CategoryLighting:   req.Lighting,
		CategoryColorGrade: req.ColorGrade,
		CategoryExtraTags:  req.ExtraTags,
	}

	segments := make([]Segment, 0, len(segmentOrder))
	for _, cat := range segmentOrder {
		var text string
		switch cat {
		case CategorySubject:
			text = idea
		case CategoryExtraTags:
			text = cleanText(overrides[cat])
		default:
			if ov := cleanText(overrides[cat]); ov != "" {
				text = ov
			} else if hint, ok := cls.Hints[cat]; ok {
				text = hint
			} else {
				text = lex.DefaultFor(cat)
			}
		}
		if text == "" && cat != CategorySubject {
			continue
		}
		segments = append(segments, Segment{Category: cat, Text: text})
	}
	return segments
}

// cleanText normalizes free text: newlines become spaces, runs of whitespace
// collapse, and stray space-before-comma artifacts are repaired.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, " ,", ",")
	s = strings.ReplaceAll(s, ",,", ",")
	return strings.Trim(s, ", ")
}
