package structure

import (
	"strings"
	"testing"
)

const planSection = `(a) In general. The Secretary shall administer the program established under this title.
(b) State plan requirements. A State plan must—
(1) provide for financial participation by the State;
(2) provide for granting an opportunity for a fair hearing; and
(3) provide such methods of administration as are found necessary.
(c) Definitions. In this section, the term "State" includes the District of Columbia.`

const nestedSection = `(a) Duties.
(1) In general. A covered entity shall—
(A) comply with the applicable standards; and
(B) maintain records supported by—
(i) written assurances; or
(ii) electronic certifications.
(2) Exception. This paragraph shall not apply to small plans.`

func TestLocateSubsection(t *testing.T) {
	extraction := Locate(planSection, "(b)")
	if !extraction.Success {
		t.Fatalf("Locate failed: %s", extraction.Diagnostic)
	}
	if !strings.HasPrefix(extraction.Text, "(b)") {
		t.Errorf("extracted text should start with marker, got %q", extraction.Text[:20])
	}
	if !strings.Contains(extraction.Text, "fair hearing") {
		t.Error("subsection (b) should contain its nested paragraphs")
	}
	if strings.Contains(extraction.Text, "Definitions") {
		t.Error("subsection (b) must not bleed into subsection (c)")
	}
	if strings.Contains(extraction.Text, "In general") {
		t.Error("subsection (b) must not include subsection (a)")
	}
}

func TestLocateNestedParagraph(t *testing.T) {
	extraction := Locate(planSection, "(b)(2)")
	if !extraction.Success {
		t.Fatalf("Locate failed: %s", extraction.Diagnostic)
	}
	if !strings.Contains(extraction.Text, "fair hearing") {
		t.Errorf("paragraph (2) text missing, got %q", extraction.Text)
	}
	if strings.Contains(extraction.Text, "financial participation") {
		t.Error("paragraph (2) must not include paragraph (1)")
	}
	if strings.Contains(extraction.Text, "methods of administration") {
		t.Error("paragraph (2) must not bleed into paragraph (3)")
	}
}

// Markers embedded in running prose, with no line breaks between
// subdivisions, must still bound correctly.
func TestLocateInlineMarkers(t *testing.T) {
	text := `(a) Foo. (b) Bar (1) First item. (2) Second item. (c) Baz.`

	extraction := Locate(text, "(b)(1)")
	if !extraction.Success {
		t.Fatalf("Locate failed: %s", extraction.Diagnostic)
	}
	if extraction.Text != "(1) First item." {
		t.Errorf("got %q, want %q", extraction.Text, "(1) First item.")
	}
}

func TestLocateDeepNesting(t *testing.T) {
	extraction := Locate(nestedSection, "(a)(1)(B)(ii)")
	if !extraction.Success {
		t.Fatalf("Locate failed: %s", extraction.Diagnostic)
	}
	if !strings.Contains(extraction.Text, "electronic certifications") {
		t.Errorf("clause (ii) text missing, got %q", extraction.Text)
	}
	if strings.Contains(extraction.Text, "written assurances") {
		t.Error("clause (ii) must not include clause (i)")
	}
}

func TestLocateEmptyNotation(t *testing.T) {
	extraction := Locate(planSection, "")
	if !extraction.Success {
		t.Fatal("empty notation should succeed with the full text")
	}
	if extraction.Text != planSection {
		t.Error("empty notation should return the input unchanged")
	}
}

func TestLocateMissingMarker(t *testing.T) {
	extraction := Locate(planSection, "(b)(9)")
	if extraction.Success {
		t.Fatal("expected failure for absent marker")
	}
	if extraction.Text != planSection {
		t.Error("failed extraction must fall back to the full input text")
	}
	if !strings.Contains(extraction.Diagnostic, "(9)") {
		t.Errorf("diagnostic should name the missing marker, got %q", extraction.Diagnostic)
	}
}

func TestLocateEmptyText(t *testing.T) {
	extraction := Locate("", "(a)")
	if extraction.Success {
		t.Error("empty text should fail")
	}
	if extraction.Diagnostic == "" {
		t.Error("failure should carry a diagnostic")
	}
}

func TestLocateUnparseableNotation(t *testing.T) {
	extraction := Locate(planSection, "subsection b")
	if extraction.Success {
		t.Fatal("expected failure for notation without markers")
	}
	if extraction.Text != planSection {
		t.Error("failed extraction must fall back to the full input text")
	}
}

// Subsection (i) sits between (h) and (j); the single-character label must
// be read as a subsection, never a Roman-numeral clause.
func TestLocateSingleCharRomanAmbiguity(t *testing.T) {
	text := `(h) Penalties. Civil penalties apply to violations.
(i) Definitions. In this subsection, terms carry their given meanings.
(j) Effective date. This section takes effect on the date of enactment.`

	extraction := Locate(text, "(i)")
	if !extraction.Success {
		t.Fatalf("Locate failed: %s", extraction.Diagnostic)
	}
	if !strings.Contains(extraction.Text, "Definitions") {
		t.Errorf("subsection (i) text missing, got %q", extraction.Text)
	}
	if strings.Contains(extraction.Text, "Effective date") {
		t.Error("subsection (i) must end at subsection (j)")
	}
}

// A length-changing rune ahead of the marker ("İ" lowercases to two
// runes) must not shift the span computed by the case-insensitive
// fallback.
func TestLocateSingleCaseFoldOffsetExact(t *testing.T) {
	text := `İntroductory matter applies. (a) First rule. (b) Second rule.`

	start, end, ok := LocateSingle(text, LevelSubsection, "A")
	if !ok {
		t.Fatal("case-insensitive fallback should find (a)")
	}
	span := text[start:end]
	if !strings.HasPrefix(span, "(a)") {
		t.Errorf("span should start at the marker, got %q", span)
	}
	if !strings.Contains(span, "First rule") || strings.Contains(span, "Second rule") {
		t.Errorf("span bounds drifted: %q", span)
	}
}

func TestLocateSingle(t *testing.T) {
	start, end, ok := LocateSingle(planSection, LevelSubsection, "b")
	if !ok {
		t.Fatal("LocateSingle did not find (b)")
	}
	span := planSection[start:end]
	if !strings.HasPrefix(span, "(b)") {
		t.Errorf("span should start at the marker, got %q", span[:10])
	}
	if strings.Contains(span, "(c)") {
		t.Error("span must end before the (c) sibling")
	}

	if _, _, ok := LocateSingle(planSection, LevelSubsection, "z"); ok {
		t.Error("LocateSingle should report a missing marker")
	}
}

// A later marker at the same level that is not the next sibling in
// sequence must not close the element.
func TestFindElementEndSkipsNonAdjacentMarkers(t *testing.T) {
	text := `(1) The first paragraph refers to paragraph (4) of this subsection and continues.
(2) The second paragraph.`

	start, end, ok := LocateSingle(text, LevelParagraph, "1")
	if !ok {
		t.Fatal("LocateSingle did not find (1)")
	}
	span := text[start:end]
	if !strings.Contains(span, "paragraph (4)") {
		t.Error("cross-reference to (4) must not terminate paragraph (1)")
	}
	if strings.Contains(span, "second paragraph") {
		t.Error("paragraph (1) must end at paragraph (2)")
	}
}

func TestIsNextInSequence(t *testing.T) {
	testCases := []struct {
		name      string
		current   string
		candidate string
		want      bool
	}{
		{name: "digit successor", current: "1", candidate: "2", want: true},
		{name: "digit gap", current: "1", candidate: "3", want: false},
		{name: "letter successor", current: "b", candidate: "c", want: true},
		{name: "letter gap", current: "b", candidate: "d", want: false},
		{name: "uppercase letter successor", current: "B", candidate: "C", want: true},
		{name: "roman successor", current: "ii", candidate: "iii", want: true},
		{name: "roman gap", current: "ii", candidate: "iv", want: false},
		{name: "roman iv to v", current: "iv", candidate: "v", want: true},
		{name: "unknown roman", current: "xxi", candidate: "xxii", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := isNextInSequence(tc.current, tc.candidate)
			if got != tc.want {
				t.Errorf("isNextInSequence(%q, %q) = %v, want %v", tc.current, tc.candidate, got, tc.want)
			}
		})
	}
}

func TestTopLevelSubsections(t *testing.T) {
	spans := TopLevelSubsections(planSection)
	if len(spans) != 3 {
		t.Fatalf("got %d subsections, want 3", len(spans))
	}

	wantNotations := []string{"(a)", "(b)", "(c)"}
	for i, span := range spans {
		if span.Notation != wantNotations[i] {
			t.Errorf("span %d notation = %q, want %q", i, span.Notation, wantNotations[i])
		}
	}
	if !strings.Contains(spans[1].Text, "fair hearing") {
		t.Error("subsection (b) span should contain its paragraphs")
	}
}
