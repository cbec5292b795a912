package enhance

import "testing"

func TestClassifyHintsFirstMatchWins(t *testing.T) {
	// "cyberpunk" precedes "neon" in the rule list, so lighting resolves to
	// the cyberpunk rule even though both triggers are present.
	cls := Classify("a rainy cyberpunk alley with neon reflections")

	if got := cls.Hints[CategoryStyle]; got != "cyberpunk" {
		t.Fatalf("style hint = %q, want %q", got, "cyberpunk")
	}
	if got := cls.Hints[CategoryLighting]; got != "neon glow" {
		t.Fatalf("lighting hint = %q, want %q", got, "neon glow")
	}
	if got := cls.Hints[CategoryMood]; got != "moody" {
		t.Fatalf("mood hint = %q, want %q", got, "moody")
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	idea := "noir portrait at night, vintage mood"
	first := Classify(idea)
	for i := 0; i < 5; i++ {
		again := Classify(idea)
		for cat, phrase := range first.Hints {
			if again.Hints[cat] != phrase {
				t.Fatalf("run %d: hint for %q changed: %q vs %q", i, cat, phrase, again.Hints[cat])
			}
		}
		if len(again.Hints) != len(first.Hints) {
			t.Fatalf("run %d: hint count changed", i)
		}
	}
}

func TestClassifyWordBoundaries(t *testing.T) {
	// "rain" must not fire inside "train", "night" not inside "knights".
	cls := Classify("a train full of knights")
	if _, ok := cls.Hints[CategoryMood]; ok {
		t.Fatalf("unexpected mood hint from substring match: %q", cls.Hints[CategoryMood])
	}
	if _, ok := cls.Hints[CategoryLighting]; ok {
		t.Fatalf("unexpected lighting hint from substring match: %q", cls.Hints[CategoryLighting])
	}

	cls = Classify("RAIN over the city")
	if got := cls.Hints[CategoryMood]; got != "moody" {
		t.Fatalf("case-insensitive trigger failed: mood hint = %q", got)
	}
}

func TestClassifyPresentItems(t *testing.T) {
	cls := Classify("Golden Hour portrait,  film grain , bokeh")
	for _, want := range []string{"golden hour portrait", "film grain", "bokeh"} {
		if _, ok := cls.Present[want]; !ok {
			t.Fatalf("present set missing %q: %#v", want, cls.Present)
		}
	}
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		text string
		word string
		want bool
	}{
		{"a cyberpunk alley", "cyberpunk", true},
		{"cyberpunk", "cyberpunk", true},
		{"party time", "art", false},
		{"state of the art", "art", true},
		{"neon-lit street", "neon", true},
		{"", "neon", false},
	}
	for _, tc := range tests {
		if got := containsWord(tc.text, tc.word); got != tc.want {
			t.Fatalf("containsWord(%q, %q) = %v, want %v", tc.text, tc.word, got, tc.want)
		}
	}
}
