package structure

import "testing"

func TestInferLevel(t *testing.T) {
	testCases := []struct {
		name      string
		label     string
		wantLevel Level
	}{
		{name: "lowercase letter", label: "a", wantLevel: LevelSubsection},
		{name: "lowercase letter mid-alphabet", label: "g", wantLevel: LevelSubsection},
		{name: "single i is subsection not clause", label: "i", wantLevel: LevelSubsection},
		{name: "single c is subsection not clause", label: "c", wantLevel: LevelSubsection},
		{name: "single v is subsection not clause", label: "v", wantLevel: LevelSubsection},
		{name: "digit", label: "1", wantLevel: LevelParagraph},
		{name: "multi-digit", label: "12", wantLevel: LevelParagraph},
		{name: "uppercase letter", label: "A", wantLevel: LevelSubparagraph},
		{name: "single I is subparagraph not subclause", label: "I", wantLevel: LevelSubparagraph},
		{name: "lowercase roman", label: "ii", wantLevel: LevelClause},
		{name: "lowercase roman iv", label: "iv", wantLevel: LevelClause},
		{name: "lowercase roman xviii", label: "xviii", wantLevel: LevelClause},
		{name: "uppercase roman", label: "II", wantLevel: LevelSubclause},
		{name: "uppercase roman IX", label: "IX", wantLevel: LevelSubclause},
		{name: "double lowercase non-roman", label: "aa", wantLevel: LevelSubsection},
		{name: "double uppercase non-roman", label: "AA", wantLevel: LevelSubparagraph},
		{name: "empty label", label: "", wantLevel: LevelSubsection},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := InferLevel(tc.label)
			if got != tc.wantLevel {
				t.Errorf("InferLevel(%q) = %v, want %v", tc.label, got, tc.wantLevel)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	testCases := []struct {
		level Level
		want  string
	}{
		{LevelSubsection, "subsection"},
		{LevelParagraph, "paragraph"},
		{LevelSubparagraph, "subparagraph"},
		{LevelClause, "clause"},
		{LevelSubclause, "subclause"},
		{Level(0), "unknown"},
	}

	for _, tc := range testCases {
		if got := tc.level.String(); got != tc.want {
			t.Errorf("Level(%d).String() = %q, want %q", tc.level, got, tc.want)
		}
	}
}

func TestParseAddress(t *testing.T) {
	address, err := ParseAddress("(b)(1)(A)(ii)(III)")
	if err != nil {
		t.Fatalf("ParseAddress returned error: %v", err)
	}
	if len(address) != 5 {
		t.Fatalf("got %d components, want 5", len(address))
	}

	wantLevels := []Level{
		LevelSubsection, LevelParagraph, LevelSubparagraph, LevelClause, LevelSubclause,
	}
	wantLabels := []string{"b", "1", "A", "ii", "III"}
	for i, component := range address {
		if component.Level != wantLevels[i] {
			t.Errorf("component %d level = %v, want %v", i, component.Level, wantLevels[i])
		}
		if component.Label != wantLabels[i] {
			t.Errorf("component %d label = %q, want %q", i, component.Label, wantLabels[i])
		}
	}

	if got := address.Notation(); got != "(b)(1)(A)(ii)(III)" {
		t.Errorf("Notation() = %q, want original notation", got)
	}
}

func TestParseAddressNoMarkers(t *testing.T) {
	if _, err := ParseAddress("subsection b"); err == nil {
		t.Error("expected error for notation without parenthesized markers")
	}
	if _, err := ParseAddress(""); err == nil {
		t.Error("expected error for empty notation")
	}
}

func TestComponentMarker(t *testing.T) {
	component := Component{Level: LevelParagraph, Label: "3"}
	if got := component.Marker(); got != "(3)" {
		t.Errorf("Marker() = %q, want %q", got, "(3)")
	}
}
