// Package structure locates nested subdivisions inside federal statute
// text. United States Code sections nest up to five levels deep, each
// introduced by a parenthesized marker:
//
//	(a), (b), (c)       subsections
//	(1), (2), (3)       paragraphs
//	(A), (B), (C)       subparagraphs
//	(i), (ii), (iii)    clauses
//	(I), (II), (III)    subclauses
//
// The package parses bracket notation like "(b)(1)(A)" into typed
// addresses and extracts the span of text belonging to the addressed
// element.
package structure

import (
	"fmt"
	"regexp"
	"strings"
)

// Level is the nesting depth of a statutory subdivision. Lower values are
// less nested.
type Level int

const (
	// LevelSubsection is a lowercase-letter marker: (a), (b), (c).
	LevelSubsection Level = 1
	// LevelParagraph is a digit marker: (1), (2), (3).
	LevelParagraph Level = 2
	// LevelSubparagraph is an uppercase-letter marker: (A), (B), (C).
	LevelSubparagraph Level = 3
	// LevelClause is a lowercase Roman numeral marker: (ii), (iii).
	LevelClause Level = 4
	// LevelSubclause is an uppercase Roman numeral marker: (II), (III).
	LevelSubclause Level = 5
)

// String returns the drafting-manual name for the level.
func (l Level) String() string {
	switch l {
	case LevelSubsection:
		return "subsection"
	case LevelParagraph:
		return "paragraph"
	case LevelSubparagraph:
		return "subparagraph"
	case LevelClause:
		return "clause"
	case LevelSubclause:
		return "subclause"
	default:
		return "unknown"
	}
}

// Component is one step of a structural address: a level and the label
// inside the parentheses.
type Component struct {
	Level Level  `json:"level"`
	Label string `json:"label"`
}

// Marker returns the bracketed form of the component, e.g. "(b)".
func (c Component) Marker() string {
	return "(" + c.Label + ")"
}

// Address is an ordered sequence of components addressing a nested
// subdivision, outermost first. Addresses are immutable once parsed.
type Address []Component

// Notation returns the bracket notation for the address, e.g. "(b)(1)".
func (a Address) Notation() string {
	var sb strings.Builder
	for _, component := range a {
		sb.WriteString(component.Marker())
	}
	return sb.String()
}

// addressComponentPattern matches one parenthesized label in bracket notation.
var addressComponentPattern = regexp.MustCompile(`\(([^()\s]+)\)`)

// ParseAddress parses bracket notation like "(b)(1)(A)" into an Address.
// Each label's level is inferred from its lexical form via InferLevel.
// Returns an error if the notation contains no parenthesized labels.
func ParseAddress(notation string) (Address, error) {
	matches := addressComponentPattern.FindAllStringSubmatch(notation, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no structural markers in notation %q", notation)
	}

	address := make(Address, 0, len(matches))
	for _, match := range matches {
		label := match[1]
		address = append(address, Component{
			Level: InferLevel(label),
			Label: label,
		})
	}
	return address, nil
}

// InferLevel determines the nesting level of a marker label from its
// lexical form alone. Single-character labels are never classified as
// Roman numerals even when lexically valid ones: a bare "c" is subsection
// (c) and a bare "i" is subsection (i), not clauses. Only multi-character
// Roman sequences reach the clause and subclause levels. Statute drafting
// relies on this disambiguation and it must not be relaxed.
func InferLevel(label string) Level {
	if label == "" {
		return LevelSubsection
	}
	if isAllDigits(label) {
		return LevelParagraph
	}
	if label == strings.ToLower(label) {
		if len(label) == 1 {
			return LevelSubsection
		}
		if isRomanSequence(label) {
			return LevelClause
		}
		return LevelSubsection
	}
	if label == strings.ToUpper(label) {
		if len(label) == 1 {
			return LevelSubparagraph
		}
		if isRomanSequence(strings.ToLower(label)) {
			return LevelSubclause
		}
		return LevelSubparagraph
	}
	return LevelSubsection
}

// isAllDigits reports whether s is a non-empty run of ASCII digits.
func isAllDigits(s string) bool {
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return len(s) > 0
}

// isRomanSequence reports whether s (already lowercased) contains only
// Roman numeral characters.
func isRomanSequence(s string) bool {
	for _, ch := range s {
		switch ch {
		case 'i', 'v', 'x', 'l', 'c', 'd', 'm':
		default:
			return false
		}
	}
	return len(s) > 0
}

// Extraction is the result of locating a structural address in statute
// text. On failure, Text carries the original full text so callers can
// fall back to the unscoped section without a second lookup.
type Extraction struct {
	// Text is the extracted span on success, or the full input on failure.
	Text string `json:"text"`

	// Notation is the bracket notation that was requested.
	Notation string `json:"notation"`

	// Success reports whether the addressed element was found.
	Success bool `json:"success"`

	// Diagnostic explains a failure in human-readable terms.
	Diagnostic string `json:"diagnostic,omitempty"`
}

// Span is a located top-level subsection within statute text.
type Span struct {
	Notation string `json:"notation"`
	Text     string `json:"text"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}
