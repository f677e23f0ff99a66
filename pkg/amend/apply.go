package amend

import (
	"regexp"
	"strings"

	"github.com/coolbeans/ramseyer/pkg/structure"
)

// Applier executes parsed amendment instructions against statute text.
// An apply either fully succeeds or returns the input byte-for-byte
// unchanged; it never raises and never partially mutates, so a missing
// anchor downgrades one citation to "no change detected" instead of
// erroring the pipeline.
type Applier struct{}

// NewApplier returns an Applier. The type is stateless and safe for
// concurrent use.
func NewApplier() *Applier {
	return &Applier{}
}

// Apply executes the instruction against text. Instructions that fail
// IsValid are rejected without touching the text.
func (applier *Applier) Apply(text string, instruction Instruction) ApplyOutcome {
	if !instruction.IsValid() {
		return ApplyOutcome{Text: text, Applied: false}
	}

	switch instruction.Kind {
	case KindStrikeAndInsert:
		return applier.applyStrikeInsert(text, instruction)
	case KindInsertAfter:
		return applier.applyInsertAfter(text, instruction)
	case KindInsertBefore:
		return applier.applyInsertBefore(text, instruction)
	case KindReadAsFollows:
		// Whole-span rewrite: the amended text is exactly the insert text.
		return ApplyOutcome{Text: instruction.TextToInsert, Applied: true}
	case KindAddAtEnd:
		amended := strings.TrimRight(text, " \t\n") + "\n\n" + instruction.TextToInsert
		return ApplyOutcome{Text: amended, Applied: true}
	case KindAddAtBeginning:
		amended := instruction.TextToInsert + "\n\n" + strings.TrimLeft(text, " \t\n")
		return ApplyOutcome{Text: amended, Applied: true}
	case KindStrike:
		return applier.applyStrike(text, instruction)
	case KindRedesignate, KindDesignate:
		// Redesignations change addressing, not content. They are recorded
		// as valid but non-substitutive; the renderer surfaces the
		// instruction text itself as the visible change.
		return ApplyOutcome{Text: text, Applied: true}
	default:
		return ApplyOutcome{Text: text, Applied: false}
	}
}

func (applier *Applier) applyStrikeInsert(text string, instruction Instruction) ApplyOutcome {
	if len(instruction.StrikeElements) > 0 {
		return replaceElement(text, instruction.StrikeElements[0], instruction.TextToInsert)
	}
	if instruction.ThroughEnd {
		return spliceThroughEnd(text, instruction.TextToStrike, instruction.TextToInsert)
	}
	if instruction.EachPlace {
		amended, count := replaceAllFold(text, instruction.TextToStrike, instruction.TextToInsert)
		return ApplyOutcome{Text: amended, Applied: count > 0}
	}
	amended, ok := replaceFirstFold(text, instruction.TextToStrike, instruction.TextToInsert)
	return ApplyOutcome{Text: amended, Applied: ok}
}

func (applier *Applier) applyInsertAfter(text string, instruction Instruction) ApplyOutcome {
	start, end := indexFold(text, instruction.PositionMarker)
	if start < 0 {
		return ApplyOutcome{Text: text, Applied: false}
	}
	insert := instruction.TextToInsert
	if !strings.HasPrefix(insert, " ") {
		insert = " " + insert
	}
	return ApplyOutcome{Text: text[:end] + insert + text[end:], Applied: true}
}

func (applier *Applier) applyInsertBefore(text string, instruction Instruction) ApplyOutcome {
	start, _ := indexFold(text, instruction.PositionMarker)
	if start < 0 {
		return ApplyOutcome{Text: text, Applied: false}
	}
	insert := instruction.TextToInsert
	if !strings.HasSuffix(insert, " ") {
		insert = insert + " "
	}
	return ApplyOutcome{Text: text[:start] + insert + text[start:], Applied: true}
}

func (applier *Applier) applyStrike(text string, instruction Instruction) ApplyOutcome {
	if len(instruction.StrikeElements) > 0 {
		// Multi-element strikes remove each span left-to-right against the
		// progressively shrinking text.
		current := text
		for _, element := range instruction.StrikeElements {
			outcome := removeElement(current, element)
			if !outcome.Applied {
				return ApplyOutcome{Text: text, Applied: false}
			}
			current = outcome.Text
		}
		return ApplyOutcome{Text: current, Applied: true}
	}
	if instruction.ThroughEnd {
		return spliceThroughEnd(text, instruction.TextToStrike, "")
	}
	if instruction.EachPlace {
		amended, count := replaceAllFold(text, instruction.TextToStrike, "")
		return ApplyOutcome{Text: amended, Applied: count > 0}
	}
	amended, ok := replaceFirstFold(text, instruction.TextToStrike, "")
	return ApplyOutcome{Text: amended, Applied: ok}
}

// elementReferencePattern splits a structural element reference like
// "subparagraph (B)" into its noun and label.
var elementReferencePattern = regexp.MustCompile(
	`(?i)^\s*(subsection|paragraph|subparagraph|clause|subclause)s?\s*\(([A-Za-z0-9]+)\)\s*$`,
)

// elementLevels maps subdivision nouns to structural levels. The stated
// noun wins over lexical inference: a drafter writing "clause (i)" has
// told us the level even though a bare "i" would infer as subsection.
var elementLevels = map[string]structure.Level{
	"subsection":   structure.LevelSubsection,
	"paragraph":    structure.LevelParagraph,
	"subparagraph": structure.LevelSubparagraph,
	"clause":       structure.LevelClause,
	"subclause":    structure.LevelSubclause,
}

// resolveElement finds the span of a named structural element in text.
func resolveElement(text, element string) (start, end int, marker string, ok bool) {
	match := elementReferencePattern.FindStringSubmatch(element)
	if match == nil {
		return 0, 0, "", false
	}
	label := match[2]
	level, known := elementLevels[strings.ToLower(match[1])]
	if !known {
		level = structure.InferLevel(label)
	}
	start, end, ok = structure.LocateSingle(text, level, label)
	return start, end, "(" + label + ")", ok
}

// replaceElement substitutes the full content of a named element with the
// insert text, re-prefixing the original marker unless the insert already
// begins with one.
func replaceElement(text, element, insert string) ApplyOutcome {
	start, end, marker, ok := resolveElement(text, element)
	if !ok {
		return ApplyOutcome{Text: text, Applied: false}
	}

	replacement := insert
	if !strings.HasPrefix(strings.TrimSpace(insert), "(") {
		replacement = marker + " " + insert
	}

	rest := text[end:]
	if rest != "" && !strings.HasPrefix(rest, "\n") && !strings.HasPrefix(rest, " ") {
		rest = " " + rest
	}
	return ApplyOutcome{Text: text[:start] + replacement + rest, Applied: true}
}

// removeElement deletes the full span of a named element.
func removeElement(text, element string) ApplyOutcome {
	start, end, _, ok := resolveElement(text, element)
	if !ok {
		return ApplyOutcome{Text: text, Applied: false}
	}
	amended := strings.TrimRight(text[:start], " \t") + text[end:]
	return ApplyOutcome{Text: amended, Applied: true}
}

// terminalMarkerPattern recognizes a structural marker that can follow a
// sentence terminal.
var terminalMarkerPattern = regexp.MustCompile(`^\s*\(([a-zA-Z]+|\d+)\)`)

// spliceThroughEnd replaces everything from the anchor text through the
// nearest sentence-terminal boundary, inclusive of the terminal
// punctuation, with the insert text. A sentence terminal is a period
// followed by end of text, a newline, or the next structural marker.
func spliceThroughEnd(text, anchor, insert string) ApplyOutcome {
	start, anchorEnd := indexFold(text, anchor)
	if start < 0 {
		return ApplyOutcome{Text: text, Applied: false}
	}

	terminal := findSentenceTerminal(text, anchorEnd)
	if terminal < 0 {
		return ApplyOutcome{Text: text, Applied: false}
	}
	return ApplyOutcome{Text: text[:start] + insert + text[terminal+1:], Applied: true}
}

// findSentenceTerminal scans forward from position for a period that ends
// a sentence, returning its index or -1.
func findSentenceTerminal(text string, from int) int {
	for i := from; i < len(text); i++ {
		if text[i] != '.' {
			continue
		}
		rest := text[i+1:]
		if rest == "" {
			return i
		}
		trimmed := strings.TrimLeft(rest, " \t")
		if trimmed == "" || strings.HasPrefix(trimmed, "\n") {
			return i
		}
		if terminalMarkerPattern.MatchString(rest) {
			return i
		}
	}
	return -1
}

// indexFold finds needle in text, trying an exact match before a
// case-insensitive one, and returns the byte span of the match. The
// fold fallback matches against the original string so offsets stay
// byte-exact even when case conversion changes rune lengths.
func indexFold(text, needle string) (start, end int) {
	if pos := strings.Index(text, needle); pos >= 0 {
		return pos, pos + len(needle)
	}
	pattern, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(needle))
	if err != nil {
		return -1, -1
	}
	if loc := pattern.FindStringIndex(text); loc != nil {
		return loc[0], loc[1]
	}
	return -1, -1
}

// replaceFirstFold replaces the first occurrence of old, case-sensitive
// first with a case-insensitive fallback. The replacement is spliced
// literally.
func replaceFirstFold(text, old, replacement string) (string, bool) {
	start, end := indexFold(text, old)
	if start < 0 {
		return text, false
	}
	return text[:start] + replacement + text[end:], true
}

// replaceAllFold replaces every occurrence of old, falling back to
// case-insensitive matching when no exact occurrence exists.
func replaceAllFold(text, old, replacement string) (string, int) {
	if count := strings.Count(text, old); count > 0 {
		return strings.ReplaceAll(text, old, replacement), count
	}
	pattern, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(old))
	if err != nil {
		return text, 0
	}
	matches := pattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text, 0
	}
	return pattern.ReplaceAllLiteralString(text, replacement), len(matches)
}
