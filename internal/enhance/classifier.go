package enhance

import "strings"

// Classification captures what the raw idea already carries: the set of
// comma-separated items present verbatim (lowercased, for dedup suppression)
// and per-category phrase hints inferred from trigger words.
type Classification struct {
	Present map[string]struct{}
	Hints   map[Category]string
}

// triggerRule maps a word found in the idea to a candidate phrase for one
// category. Rules are evaluated in slice order; the first match per category
// wins and later rules for that category are skipped, which keeps hint
// resolution reproducible for identical input.
type triggerRule struct {
	Trigger  string
	Category Category
	Phrase   string
}

var triggerRules = []triggerRule{
	{"cyberpunk", CategoryStyle, "cyberpunk"},
	{"cyberpunk", CategoryLighting, "neon glow"},
	{"cyberpunk", CategoryColorGrade, "teal and orange"},
	{"steampunk", CategoryStyle, "steampunk"},
	{"anime", CategoryStyle, "anime"},
	{"manga", CategoryStyle, "manga"},
	{"neon", CategoryLighting, "neon glow"},
	{"noir", CategoryLighting, "chiaroscuro"},
	{"noir", CategoryMood, "mysterious"},
	{"noir", CategoryColorGrade, "monochrome"},
	{"rainy", CategoryMood, "moody"},
	{"rain", CategoryMood, "moody"},
	{"sunset", CategoryLighting, "golden hour"},
	{"sunset", CategoryColorGrade, "warm tones"},
	{"dawn", CategoryLighting, "golden hour"},
	{"night", CategoryLighting, "blue hour"},
	{"night", CategoryMood, "mysterious"},
	{"portrait", CategoryComposition, "close-up"},
	{"portrait", CategoryLighting, "studio lighting"},
	{"studio", CategoryLighting, "studio lighting"},
	{"macro", CategoryComposition, "close-up"},
	{"fantasy", CategoryStyle, "concept art"},
	{"fantasy", CategoryLighting, "volumetric lighting"},
	{"minimal", CategoryStyle, "minimalist"},
	{"minimalist", CategoryComposition, "negative space"},
	{"vintage", CategoryColorGrade, "sepia"},
	{"retro", CategoryColorGrade, "sepia"},
	{"dramatic", CategoryMood, "dramatic"},
	{"dreamy", CategoryMood, "serene"},
	{"futuristic", CategoryMood, "futuristic"},
	{"cozy", CategoryMood, "peaceful"},
	{"cozy", CategoryLighting, "soft lighting"},
}

// Classify scans the idea text once and derives the present set and the
// category hints. Matching is case-insensitive and word-boundary aware, so
// "art" does not fire inside "party".
func Classify(idea string) Classification {
	lowered := strings.ToLower(idea)

	present := make(map[string]struct{})
	for _, item := range splitItems(idea) {
		present[normalizeKey(item)] = struct{}{}
	}

	hints := make(map[Category]string)
	for _, rule := range triggerRules {
		if _, done := hints[rule.Category]; done {
			continue
		}
		if containsWord(lowered, rule.Trigger) {
			hints[rule.Category] = rule.Phrase
		}
	}

	return Classification{Present: present, Hints: hints}
}

// splitItems breaks a free-text field into comma-separated items, dropping
// empties.
func splitItems(text string) []string {
	parts := strings.Split(text, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// normalizeKey lowercases an item and collapses internal whitespace so that
// dedup comparisons ignore casing and spacing differences.
func normalizeKey(item string) string {
	return strings.Join(strings.Fields(strings.ToLower(item)), " ")
}

// containsWord reports whether word occurs in text bounded by non-word
// characters on both sides. text must already be lowercased.
func containsWord(text, word string) bool {
	for start := 0; ; {
		idx := strings.Index(text[start:], word)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(word)
		leftOK := idx == 0 || !isWordChar(text[idx-1])
		rightOK := end == len(text) || !isWordChar(text[end])
		if leftOK && rightOK {
			return true
		}
		start = idx + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '\''
}
