package structure

import (
	"regexp"
	"strings"
)

// anyMarkerPattern matches any parenthesized subdivision marker: letters,
// digits, or Roman numeral runs.
var anyMarkerPattern = regexp.MustCompile(`\(([a-zA-Z]+|\d+)\)`)

// romanOrder fixes the sibling ordering for clause and subclause markers.
// Statute subdivisions beyond (xx) are rare enough that the table stops
// there; a marker outside the table never satisfies the next-in-sequence
// check and so never closes a sibling boundary.
var romanOrder = []string{
	"i", "ii", "iii", "iv", "v", "vi", "vii", "viii", "ix", "x",
	"xi", "xii", "xiii", "xiv", "xv", "xvi", "xvii", "xviii", "xix", "xx",
}

// Locate extracts the span of statute text addressed by bracket notation
// such as "(b)(1)". An empty notation succeeds trivially with the full
// text. On any failure the returned Extraction carries the full input
// text and Success=false; callers are expected to treat a miss as "scope
// is the whole section" rather than abort.
func Locate(text, notation string) Extraction {
	if text == "" {
		return Extraction{
			Notation:   notation,
			Success:    false,
			Diagnostic: "no text provided",
		}
	}
	if notation == "" {
		return Extraction{
			Text:    text,
			Success: true,
		}
	}

	address, err := ParseAddress(notation)
	if err != nil {
		return Extraction{
			Text:       text,
			Notation:   notation,
			Success:    false,
			Diagnostic: "unparseable notation: " + notation,
		}
	}

	current := text
	for _, component := range address {
		start, end, ok := LocateSingle(current, component.Level, component.Label)
		if !ok {
			return Extraction{
				Text:       text,
				Notation:   notation,
				Success:    false,
				Diagnostic: "marker " + component.Marker() + " not found",
			}
		}
		current = strings.TrimSpace(current[start:end])
	}

	return Extraction{
		Text:     current,
		Notation: notation,
		Success:  true,
	}
}

// LocateSingle finds the span of the element introduced by the marker
// "(label)" within text. The span runs from the marker to the next marker
// that is either the next sibling in sequence at the same level or any
// strictly higher (less nested) level; absent such a marker the element
// runs to the end of the text. Returns ok=false when the marker does not
// occur at all.
func LocateSingle(text string, level Level, label string) (start, end int, ok bool) {
	marker := "(" + label + ")"

	start = findMarker(text, marker)
	if start < 0 {
		return 0, 0, false
	}

	end = findElementEnd(text, start+len(marker), level, label)
	return start, end, true
}

// findMarker locates a marker with a case-sensitive search first and a
// case-insensitive fallback, matching how statute text occasionally
// letter-cases markers inconsistently after OCR or HTML extraction. The
// fallback matches against the original string so the returned offset is
// byte-exact even when case conversion changes rune lengths elsewhere in
// the text.
func findMarker(text, marker string) int {
	if pos := strings.Index(text, marker); pos >= 0 {
		return pos
	}
	pattern, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(marker))
	if err != nil {
		return -1
	}
	if loc := pattern.FindStringIndex(text); loc != nil {
		return loc[0]
	}
	return -1
}

// findElementEnd scans forward from searchStart for the first marker that
// closes the element opened at level/label. The closing marker is either
// the next sibling in sequence at the same level or a marker at a strictly
// higher level. The sequence-adjacency check matters: a subparagraph "(A)"
// re-quoted later in unrelated text must not be mistaken for a boundary.
func findElementEnd(text string, searchStart int, level Level, label string) int {
	tail := text[searchStart:]
	for _, match := range anyMarkerPattern.FindAllStringSubmatchIndex(tail, -1) {
		candidateLabel := tail[match[2]:match[3]]
		candidateLevel := InferLevel(candidateLabel)

		if candidateLevel < level {
			return searchStart + match[0]
		}
		if candidateLevel == level && isNextInSequence(label, candidateLabel) {
			return searchStart + match[0]
		}
	}
	return len(text)
}

// isNextInSequence reports whether candidate directly follows current in
// the sibling ordering for their shared marker style: digit+1 for
// paragraphs, the next letter for subsections and subparagraphs, and the
// next entry of the Roman ordering table for clauses and subclauses.
func isNextInSequence(current, candidate string) bool {
	if isAllDigits(current) && isAllDigits(candidate) {
		return parseInt(candidate) == parseInt(current)+1
	}

	if len(current) == 1 && len(candidate) == 1 {
		currentCh := strings.ToLower(current)[0]
		candidateCh := strings.ToLower(candidate)[0]
		return candidateCh == currentCh+1
	}

	currentIndex := romanIndex(current)
	candidateIndex := romanIndex(candidate)
	if currentIndex >= 0 && candidateIndex >= 0 {
		return candidateIndex == currentIndex+1
	}

	return false
}

// romanIndex returns the position of label in the Roman ordering table, or
// -1 when the label is not a recognized Roman numeral.
func romanIndex(label string) int {
	lowered := strings.ToLower(label)
	for i, numeral := range romanOrder {
		if numeral == lowered {
			return i
		}
	}
	return -1
}

// parseInt converts a digit run to an int. Inputs are pre-validated by
// isAllDigits, so overflow on statute-sized labels is not a concern.
func parseInt(s string) int {
	value := 0
	for _, ch := range s {
		value = value*10 + int(ch-'0')
	}
	return value
}

// subsectionMarkerPattern matches top-level subsection markers (a)-(z).
var subsectionMarkerPattern = regexp.MustCompile(`\(([a-z])\)`)

// TopLevelSubsections lists every level-1 subsection in the text with its
// span. Markers that InferLevel would not classify as subsections are
// skipped.
func TopLevelSubsections(text string) []Span {
	var spans []Span
	for _, match := range subsectionMarkerPattern.FindAllStringSubmatchIndex(text, -1) {
		label := text[match[2]:match[3]]
		if InferLevel(label) != LevelSubsection {
			continue
		}
		start := match[0]
		end := findElementEnd(text, start+len(label)+2, LevelSubsection, label)
		spans = append(spans, Span{
			Notation: "(" + label + ")",
			Text:     strings.TrimSpace(text[start:end]),
			Start:    start,
			End:      end,
		})
	}
	return spans
}
