package enhance

import (
	"strings"
	"testing"
)

func TestBuildNegativeEmptyInputCoversEveryCategory(t *testing.T) {
	neg := DefaultNegativeLexicon()
	got := buildNegative(neg, "")

	if got == "" {
		t.Fatal("negative prompt must not be empty for empty input")
	}
	if len(got) > MaxPromptChars {
		t.Fatalf("negative length %d exceeds ceiling %d", len(got), MaxPromptChars)
	}
	for _, cat := range negativeCategories {
		found := false
		for _, phrase := range neg.Lookup(cat) {
			if strings.Contains(got, phrase) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("negative output missing any phrase from category %q: %s", cat, got)
		}
	}
}

func TestBuildNegativeCallerTermsKeepFirstPosition(t *testing.T) {
	got := buildNegative(DefaultNegativeLexicon(), "neon signs, watermark")

	if !strings.HasPrefix(got, "neon signs, watermark") {
		t.Fatalf("caller terms not leading: %q", got[:40])
	}
	if strings.Count(strings.ToLower(got), "watermark") != 1 {
		t.Fatalf("watermark duplicated: %s", got)
	}
}

func TestBuildNegativeClampDropsBrandingFirst(t *testing.T) {
	// A huge caller list forces segment dropping; branding goes first.
	var custom []string
	for i := 0; i < 120; i++ {
		custom = append(custom, "custom artifact term "+strings.Repeat("x", 3)+string(rune('a'+i%26))+strings.Repeat("y", i%7))
	}
	got := buildNegative(DefaultNegativeLexicon(), strings.Join(custom, ", "))

	if len(got) > MaxPromptChars {
		t.Fatalf("negative length %d exceeds ceiling %d", len(got), MaxPromptChars)
	}
	if strings.Contains(got, "watermark") {
		t.Fatalf("branding phrases should be dropped first: %s", got)
	}
}
