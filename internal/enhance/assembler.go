package enhance

import "strings"

const (
	// MaxPromptChars is the hard ceiling for both prompts. Longer strings
	// degrade generation quality, so the clamper enforces it unconditionally.
	MaxPromptChars = 850
	// TargetPromptChars is a soft target only; prompts shorter than this are
	// returned as-is.
	TargetPromptChars = 800
)

// styleConflicts lists mutually exclusive style phrases. When both sides of
// a pair show up during assembly, the earlier occurrence wins and the later
// one is dropped.
var styleConflicts = [][2]string{
	{"photorealistic", "anime"},
	{"photorealistic", "manga"},
	{"photorealistic", "oil painting"},
	{"photorealistic", "watercolor"},
	{"hyperrealistic", "anime"},
	{"oil painting", "watercolor"},
	{"minimalist", "baroque"},
	{"cyberpunk", "steampunk"},
}

var conflictPartners = buildConflictPartners()

func buildConflictPartners() map[string][]string {
	partners := make(map[string][]string)
	for _, pair := range styleConflicts {
		a, b := pair[0], pair[1]
		partners[a] = append(partners[a], b)
		partners[b] = append(partners[b], a)
	}
	return partners
}

// assembledSegment keeps the surviving items of one category so the clamper
// can drop whole segments by tag.
type assembledSegment struct {
	Category Category
	Items    []string
}

// assemble walks the resolved segments in fixed order, splits each into
// comma items, and deduplicates case-insensitively: an item already present
// (from the classifier's present set once the subject has been emitted, or
// from an earlier segment) is dropped, so the first occurrence defines its
// final position. Style conflict pairs collapse to the earlier side.
func assemble(segments []Segment, cls Classification) []assembledSegment {
	seen := make(map[string]struct{})
	out := make([]assembledSegment, 0, len(segments))

	for _, seg := range segments {
		kept := make([]string, 0, 4)
		for _, item := range splitItems(seg.Text) {
			key := normalizeKey(item)
			if _, dup := seen[key]; dup {
				continue
			}
			if conflictsWithSeen(key, seen) {
				continue
			}
			seen[key] = struct{}{}
			kept = append(kept, item)
		}
		if len(kept) > 0 {
			out = append(out, assembledSegment{Category: seg.Category, Items: kept})
		}
		if seg.Category == CategorySubject {
			// The idea's own items now suppress re-insertion by any
			// later segment.
			for key := range cls.Present {
				seen[key] = struct{}{}
			}
		}
	}
	return out
}

func conflictsWithSeen(key string, seen map[string]struct{}) bool {
	for _, partner := range conflictPartners[key] {
		if _, ok := seen[partner]; ok {
			return true
		}
	}
	return false
}

// dropOrder is the clamper's removal priority for the unified prompt.
// Quality and subject are never dropped.
var dropOrder = []Category{
	CategoryExtraTags,
	CategoryColorGrade,
	CategoryMood,
	CategoryComposition,
	CategoryLighting,
	CategoryStyle,
}

// clampSegments joins the assembled segments and enforces the character
// ceiling: whole segments are removed tail-priority-first, and only when no
// droppable segment remains is the string truncated at a whitespace
// boundary. The result is always within budget.
func clampSegments(segments []assembledSegment, order []Category, max int) string {
	joined := joinSegments(segments)
	if len(joined) <= max {
		return joined
	}
	for _, cat := range order {
		segments = removeSegment(segments, cat)
		joined = joinSegments(segments)
		if len(joined) <= max {
			return joined
		}
	}
	return truncateAtBoundary(joined, max)
}

func joinSegments(segments []assembledSegment) string {
	items := make([]string, 0, 16)
	for _, seg := range segments {
		items = append(items, seg.Items...)
	}
	return strings.Join(items, ", ")
}

func removeSegment(segments []assembledSegment, cat Category) []assembledSegment {
	out := segments[:0]
	for _, seg := range segments {
		if seg.Category != cat {
			out = append(out, seg)
		}
	}
	return out
}

// truncateAtBoundary cuts s at the last whitespace at or before max so that
// no token is split, then trims dangling separators.
func truncateAtBoundary(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if idx := strings.LastIndexAny(cut, " \t"); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, ", ;")
}
