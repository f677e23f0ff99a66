package amend

import "testing"

// FuzzParse tests the instruction parser with arbitrary input.
// Run with: go test -fuzz=FuzzParse -fuzztime=30s ./pkg/amend/...
func FuzzParse(f *testing.F) {
	seeds := []string{
		`Section 1902(b) of the Act is amended by striking "December 31, 2025" and inserting "December 31, 2026".`,

		`Section 1902(a) of the Social Security Act is amended—
(1) in subparagraph (D), by striking "or" at the end;
(2) by striking the period at the end and inserting "; or"; and
(3) by adding at the end the following: "(F) a community-based provider.".`,

		`is amended by striking "Secretary" each place it appears and inserting "Administrator".`,

		`Subsection (b) is amended to read as follows: "(b) The Secretary shall establish a grant program.".`,

		`is amended by redesignating paragraphs (2) through (6) as paragraphs (3) through (7).`,

		`The term "eligible entity" means an entity described under section 101.`,

		`by striking “curly quoted text” and inserting ‘other curly text’`,

		"",
		`striking`,
		`"unbalanced`,
		`((((()))))`,
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	parser := NewParser()
	f.Fuzz(func(t *testing.T, text string) {
		outcome := parser.Parse(text)
		if outcome.Success && len(outcome.Instructions) == 0 {
			t.Error("successful outcome must carry at least one instruction")
		}
		if !outcome.Success && outcome.Diagnostic == "" {
			t.Error("failed outcome must carry a diagnostic")
		}
		for _, instruction := range outcome.Instructions {
			if instruction.Confidence < 0 || instruction.Confidence > 1 {
				t.Errorf("confidence %f outside [0,1]", instruction.Confidence)
			}
		}
	})
}
