package amend

import (
	"regexp"
	"strings"
)

// quotedText matches a quoted span after quote normalization. Bill
// drafting quotes inserted and struck text with either double or single
// quotes; both forms appear in the same bill.
const quotedText = `["']([^"']+)["']`

// elementWord matches the subdivision nouns used to name structural
// elements in amendment directives.
const elementWord = `(?:subsection|paragraph|subparagraph|clause|subclause)`

// recognizerEntry is one stage of the pattern cascade: a category, a
// compiled matcher, and a typed extractor that builds Instructions from
// match index pairs. Entries are tried in registration order and a
// category registered earlier wins ties during deduplication.
type recognizerEntry struct {
	kind    Kind
	pattern *regexp.Regexp
	extract func(parser *Parser, text string, match []int) (Instruction, bool)
}

// Parser recognizes legislative amendment instructions in context text.
// All patterns are compiled once in NewParser; a Parser is safe for
// concurrent use across any number of goroutines.
type Parser struct {
	recognizers []recognizerEntry

	definitionalPatterns []*regexp.Regexp
	indicatorPatterns    []*regexp.Regexp

	numberedAnchorPattern *regexp.Regexp
	numberedItemPattern   *regexp.Regexp
	itemScopePattern      *regexp.Regexp
	sectionRefPattern     *regexp.Regexp
}

// punctuationWords maps spelled-out punctuation in strike and insert
// positions ("striking the period at the end") to the literal character.
var punctuationWords = map[string]string{
	"period":    ".",
	"comma":     ",",
	"semicolon": ";",
	"colon":     ":",
}

// NewParser compiles the full recognizer cascade. The cascade order is
// fixed: more specific strike variants precede the generic ones so that
// "each place it appears" and "all that follows through" directives are
// not swallowed by the plain strike-and-insert recognizer.
func NewParser() *Parser {
	parser := &Parser{
		definitionalPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\(as\s+defined\s+in\s+(?:section|paragraph)`),
			regexp.MustCompile(`(?i)has\s+the\s+meaning\s+given`),
			regexp.MustCompile(`(?i)the\s+term\s+["'][^"']+["']\s+means`),
			regexp.MustCompile(`(?i)for\s+purposes\s+of\s+this`),
			regexp.MustCompile(`(?i)under\s+(?:section|paragraph|subparagraph)`),
		},
		indicatorPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:is|are)\s+(?:hereby\s+)?(?:further\s+)?amended`),
			regexp.MustCompile(`(?i)shall\s+be\s+amended`),
			regexp.MustCompile(`(?i)by\s+striking`),
			regexp.MustCompile(`(?i)by\s+inserting`),
			regexp.MustCompile(`(?i)by\s+adding`),
			regexp.MustCompile(`(?i)by\s+redesignating`),
			regexp.MustCompile(`(?i)by\s+\bdesignating`),
		},

		// "is amended—", "are further amended--", "is amended:"
		numberedAnchorPattern: regexp.MustCompile(
			`(?i)\b(?:is|are)\s+(?:further\s+)?amended\s*(?:\x{2014}|--|:)`,
		),
		// "(1) by striking...", "(2) in subsection (b)...", "(3) on subparagraph (D)..."
		numberedItemPattern: regexp.MustCompile(
			`(?i)\(\s*(\d+)\s*\)\s*(?:by|in|on)\b`,
		),
		// "on subparagraph (D)," or "in paragraph (1)(A)," inside a list item
		itemScopePattern: regexp.MustCompile(
			`(?i)\b(?:on|in)\s+(` + elementWord + `s?\s*(?:\([A-Za-z0-9]+\))+)[,\s]`,
		),
		// nearest structural reference for target attachment
		sectionRefPattern: regexp.MustCompile(
			`(?i)(?:section|` + elementWord + `)s?\s*\(?\d+[a-zA-Z]?\)?(?:\s*\([A-Za-z0-9]+\))*` +
				`|` + elementWord + `s?\s*\([A-Za-z0-9]+\)(?:\s*\([A-Za-z0-9]+\))*`,
		),
	}

	parser.recognizers = []recognizerEntry{
		// "striking 'X' and all that follows through the period at the end
		// and inserting 'Y'"
		{
			kind: KindStrikeAndInsert,
			pattern: regexp.MustCompile(
				`(?is)(?:by\s+)?striking\s+` + quotedText +
					`\s+and\s+all\s+that\s+follows\s+through\s+the\s+period\s+at\s+the\s+end[,\s]+and\s+inserting\s+` + quotedText,
			),
			extract: extractStrikeInsertThroughEnd,
		},
		// "striking 'X' each place it appears and inserting 'Y'"
		{
			kind: KindStrikeAndInsert,
			pattern: regexp.MustCompile(
				`(?is)(?:by\s+)?striking\s+` + quotedText +
					`\s+each\s+place\s+it\s+appears\s+and\s+inserting\s+` + quotedText,
			),
			extract: extractStrikeInsertEachPlace,
		},
		// "striking 'X' at the end and inserting 'Y'"
		{
			kind: KindStrikeAndInsert,
			pattern: regexp.MustCompile(
				`(?is)(?:by\s+)?striking\s+` + quotedText +
					`\s+at\s+the\s+end\s+and\s+inserting\s+` + quotedText,
			),
			extract: extractStrikeInsert,
		},
		// "striking 'X' and inserting 'Y'", "striking out 'X' and inserting
		// in lieu thereof 'Y'", "strike 'X' and insert in place thereof 'Y'"
		{
			kind: KindStrikeAndInsert,
			pattern: regexp.MustCompile(
				`(?is)(?:by\s+)?strik(?:ing|e)(?:\s+out)?\s+` + quotedText +
					`\s+and\s+insert(?:ing)?\s+(?:in\s+lieu\s+thereof\s+|in\s+place\s+thereof\s+)?` + quotedText,
			),
			extract: extractStrikeInsert,
		},
		// "striking the period at the end and inserting '; or'"
		{
			kind: KindStrikeAndInsert,
			pattern: regexp.MustCompile(
				`(?is)(?:by\s+)?striking\s+the\s+(\w+)\s+at\s+the\s+end\s+and\s+inserting\s+` + quotedText,
			),
			extract: extractStrikePunctuationInsert,
		},
		// "striking subparagraph (E) and inserting the following: ..."
		{
			kind: KindStrikeAndInsert,
			pattern: regexp.MustCompile(
				`(?is)(?:by\s+)?striking\s+(` + elementWord + `)\s*\(([A-Za-z0-9]+)\)\s+and\s+inserting\s+(?:the\s+following[:\s]+)?(.+)`,
			),
			extract: extractStrikeElementInsert,
		},
		// "inserting after 'X' the following: 'Y'"
		{
			kind: KindInsertAfter,
			pattern: regexp.MustCompile(
				`(?is)(?:by\s+)?inserting\s+(?:immediately\s+)?after\s+` + quotedText +
					`\s+(?:the\s+following[:\s]*)?` + quotedText,
			),
			extract: extractInsertAnchored,
		},
		// "inserting before 'X' the following: 'Y'"
		{
			kind: KindInsertBefore,
			pattern: regexp.MustCompile(
				`(?is)(?:by\s+)?inserting\s+(?:immediately\s+)?before\s+` + quotedText +
					`\s+(?:the\s+following[:\s]*)?` + quotedText,
			),
			extract: extractInsertAnchored,
		},
		// "is amended to read as follows: ..."
		{
			kind: KindReadAsFollows,
			pattern: regexp.MustCompile(
				`(?is)(?:is\s+)?amended\s+to\s+read\s+as\s+follows[:\s]+(.+)`,
			),
			extract: extractReadAsFollows,
		},
		// "shall read as follows: ..."
		{
			kind: KindReadAsFollows,
			pattern: regexp.MustCompile(
				`(?is)shall\s+read\s+as\s+follows[:\s]+(.+)`,
			),
			extract: extractReadAsFollows,
		},
		// "adding at the end the following: ..."
		{
			kind: KindAddAtEnd,
			pattern: regexp.MustCompile(
				`(?is)(?:by\s+)?adding\s+at\s+the\s+end\s+(?:thereof\s+)?(?:the\s+following[:\s]+)?(.+)`,
			),
			extract: extractAddText,
		},
		// "inserting at the beginning the following: ..."
		{
			kind: KindAddAtBeginning,
			pattern: regexp.MustCompile(
				`(?is)(?:by\s+)?(?:inserting|adding)\s+(?:at\s+)?the\s+beginning\s+(?:thereof\s+)?(?:the\s+following[:\s]+)?(.+)`,
			),
			extract: extractAddText,
		},
		// "striking 'X' each place it appears" with no insertion
		{
			kind: KindStrike,
			pattern: regexp.MustCompile(
				`(?i)(?:by\s+)?striking\s+` + quotedText + `\s+each\s+place\s+it\s+appears`,
			),
			extract: extractStrikeEachPlace,
		},
		// "striking 'X' and all that follows through the end", including the
		// "through the period at the end" variant
		{
			kind: KindStrike,
			pattern: regexp.MustCompile(
				`(?i)(?:by\s+)?striking\s+` + quotedText +
					`\s+and\s+all\s+that\s+follows\s+through\s+the\s+(?:period\s+at\s+the\s+)?end`,
			),
			extract: extractStrikeThroughEnd,
		},
		// "striking subparagraphs (B) and (C)"
		{
			kind: KindStrike,
			pattern: regexp.MustCompile(
				`(?i)(?:by\s+)?striking\s+(` + elementWord + `)s\s*\(([A-Za-z0-9]+)\)\s+and\s+\(([A-Za-z0-9]+)\)`,
			),
			extract: extractStrikeElementPair,
		},
		// "striking subparagraph (E)"
		{
			kind: KindStrike,
			pattern: regexp.MustCompile(
				`(?i)(?:by\s+)?striking\s+(` + elementWord + `)\s*\(([A-Za-z0-9]+)\)`,
			),
			extract: extractStrikeElement,
		},
		// "striking 'X'", "deleting 'X'", "strike out 'X'"
		{
			kind: KindStrike,
			pattern: regexp.MustCompile(
				`(?i)(?:by\s+)?(?:striking|deleting|strike\s+out)\s+` + quotedText,
			),
			extract: extractStrikeOnly,
		},
		// "redesignating paragraph (3) as paragraph (4)", including ranges
		// "paragraphs (2) through (6) as paragraphs (3) through (7)"
		{
			kind: KindRedesignate,
			pattern: regexp.MustCompile(
				`(?i)(?:by\s+)?redesignating\s+(` + elementWord + `s?\s*\([A-Za-z0-9]+\)(?:\s+through\s+\([A-Za-z0-9]+\))?)` +
					`\s+as\s+(` + elementWord + `s?\s*\([A-Za-z0-9]+\)(?:\s+through\s+\([A-Za-z0-9]+\))?)`,
			),
			extract: extractRelabel,
		},
		// "designating paragraph (1) as subparagraph (A)", including
		// "designating the matter preceding paragraph (1) as subsection (a)"
		{
			kind: KindDesignate,
			pattern: regexp.MustCompile(
				`(?i)(?:by\s+)?\bdesignating\s+((?:the\s+matter\s+preceding\s+)?` + elementWord + `s?\s*\([A-Za-z0-9]+\))` +
					`\s+as\s+(` + elementWord + `s?\s*\([A-Za-z0-9]+\))`,
			),
			extract: extractRelabel,
		},
	}

	return parser
}

// group returns the text of capture group n for a FindSubmatchIndex match,
// or "" when the group did not participate.
func group(text string, match []int, n int) string {
	if 2*n+1 >= len(match) || match[2*n] < 0 {
		return ""
	}
	return text[match[2*n]:match[2*n+1]]
}

// followedByInsertion reports whether the text immediately after the match
// continues with a tail that a more specific recognizer earlier in the
// cascade owns: an "and insert..." continuation or an "and all that
// follows..." span extension.
func followedByInsertion(text string, match []int) bool {
	tail := text[match[1]:]
	trimmed := strings.TrimLeft(tail, " \t\n")
	loweredTail := strings.ToLower(trimmed)
	return strings.HasPrefix(loweredTail, "and insert") ||
		strings.HasPrefix(loweredTail, "and all that follows") ||
		strings.HasPrefix(loweredTail, "at the end and insert") ||
		strings.HasPrefix(loweredTail, "each place it appears and insert")
}

// cutAtBlankLine truncates captured free text at the first blank line,
// the boundary read-as-follows and add-at-end captures run to.
func cutAtBlankLine(s string) string {
	if idx := strings.Index(s, "\n\n"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

// stripOuterQuotes removes one layer of surrounding quotes, plus a
// trailing sentence period left outside the closing quote. Unquoted text
// passes through with only surrounding whitespace trimmed, keeping any
// sentence-final period that belongs to the replacement text.
func stripOuterQuotes(s string) string {
	s = strings.TrimSpace(s)
	for _, quote := range []string{`"`, `'`} {
		candidate := strings.TrimSpace(strings.TrimSuffix(s, "."))
		if len(candidate) >= 2 && strings.HasPrefix(candidate, quote) && strings.HasSuffix(candidate, quote) {
			return strings.TrimSpace(candidate[1 : len(candidate)-1])
		}
	}
	return s
}

// mapPunctuationWord resolves a spelled-out punctuation word to its
// literal character, passing unrecognized words through unchanged.
func mapPunctuationWord(word string) string {
	if punct, ok := punctuationWords[strings.ToLower(word)]; ok {
		return punct
	}
	return word
}

func extractStrikeInsert(_ *Parser, text string, match []int) (Instruction, bool) {
	return Instruction{
		Kind:           KindStrikeAndInsert,
		TextToStrike:   strings.TrimSpace(group(text, match, 1)),
		TextToInsert:   strings.TrimSpace(group(text, match, 2)),
		RawInstruction: group(text, match, 0),
		Confidence:     0.9,
	}, true
}

func extractStrikeInsertEachPlace(parser *Parser, text string, match []int) (Instruction, bool) {
	instruction, _ := extractStrikeInsert(parser, text, match)
	instruction.EachPlace = true
	return instruction, true
}

func extractStrikeInsertThroughEnd(parser *Parser, text string, match []int) (Instruction, bool) {
	instruction, _ := extractStrikeInsert(parser, text, match)
	instruction.ThroughEnd = true
	return instruction, true
}

func extractStrikePunctuationInsert(_ *Parser, text string, match []int) (Instruction, bool) {
	return Instruction{
		Kind:           KindStrikeAndInsert,
		TextToStrike:   mapPunctuationWord(group(text, match, 1)),
		TextToInsert:   strings.TrimSpace(group(text, match, 2)),
		RawInstruction: group(text, match, 0),
		Confidence:     0.9,
	}, true
}

func extractStrikeElementInsert(_ *Parser, text string, match []int) (Instruction, bool) {
	element := strings.ToLower(group(text, match, 1)) + " (" + group(text, match, 2) + ")"
	insert := stripOuterQuotes(cutAtBlankLine(group(text, match, 3)))
	if insert == "" {
		return Instruction{}, false
	}
	return Instruction{
		Kind:           KindStrikeAndInsert,
		StrikeElements: []string{element},
		TextToStrike:   element,
		TextToInsert:   insert,
		RawInstruction: group(text, match, 0),
		Confidence:     0.85,
	}, true
}

func extractInsertAnchored(_ *Parser, text string, match []int) (Instruction, bool) {
	// The directive word sits between the match start and the anchor
	// capture; the anchor and insert text themselves may contain either word.
	directive := strings.ToLower(text[match[0]:match[2]])
	kind := KindInsertAfter
	if strings.Contains(directive, "before") {
		kind = KindInsertBefore
	}
	return Instruction{
		Kind:           kind,
		PositionMarker: strings.TrimSpace(group(text, match, 1)),
		TextToInsert:   strings.TrimSpace(group(text, match, 2)),
		RawInstruction: group(text, match, 0),
		Confidence:     0.9,
	}, true
}

func extractReadAsFollows(_ *Parser, text string, match []int) (Instruction, bool) {
	insert := stripOuterQuotes(cutAtBlankLine(group(text, match, 1)))
	if insert == "" {
		return Instruction{}, false
	}
	return Instruction{
		Kind:           KindReadAsFollows,
		TextToInsert:   insert,
		RawInstruction: group(text, match, 0),
		Confidence:     0.85,
	}, true
}

func extractAddText(_ *Parser, text string, match []int) (Instruction, bool) {
	kind := KindAddAtEnd
	if strings.Contains(strings.ToLower(text[match[0]:match[2]]), "beginning") {
		kind = KindAddAtBeginning
	}
	insert := stripOuterQuotes(cutAtBlankLine(group(text, match, 1)))
	if insert == "" {
		return Instruction{}, false
	}
	return Instruction{
		Kind:           kind,
		TextToInsert:   insert,
		RawInstruction: group(text, match, 0),
		Confidence:     0.9,
	}, true
}

func extractStrikeEachPlace(_ *Parser, text string, match []int) (Instruction, bool) {
	if followedByInsertion(text, match) {
		return Instruction{}, false
	}
	return Instruction{
		Kind:           KindStrike,
		TextToStrike:   strings.TrimSpace(group(text, match, 1)),
		EachPlace:      true,
		RawInstruction: group(text, match, 0),
		Confidence:     0.9,
	}, true
}

func extractStrikeThroughEnd(_ *Parser, text string, match []int) (Instruction, bool) {
	if followedByInsertion(text, match) {
		return Instruction{}, false
	}
	return Instruction{
		Kind:           KindStrike,
		TextToStrike:   strings.TrimSpace(group(text, match, 1)),
		ThroughEnd:     true,
		RawInstruction: group(text, match, 0),
		Confidence:     0.9,
	}, true
}

func extractStrikeElementPair(_ *Parser, text string, match []int) (Instruction, bool) {
	word := strings.ToLower(group(text, match, 1))
	elements := []string{
		word + " (" + group(text, match, 2) + ")",
		word + " (" + group(text, match, 3) + ")",
	}
	return Instruction{
		Kind:           KindStrike,
		StrikeElements: elements,
		TextToStrike:   strings.Join(elements, ", "),
		RawInstruction: group(text, match, 0),
		Confidence:     0.9,
	}, true
}

func extractStrikeElement(_ *Parser, text string, match []int) (Instruction, bool) {
	if followedByInsertion(text, match) {
		return Instruction{}, false
	}
	element := strings.ToLower(group(text, match, 1)) + " (" + group(text, match, 2) + ")"
	return Instruction{
		Kind:           KindStrike,
		StrikeElements: []string{element},
		TextToStrike:   element,
		RawInstruction: group(text, match, 0),
		Confidence:     0.9,
	}, true
}

func extractStrikeOnly(_ *Parser, text string, match []int) (Instruction, bool) {
	if followedByInsertion(text, match) {
		return Instruction{}, false
	}
	return Instruction{
		Kind:           KindStrike,
		TextToStrike:   strings.TrimSpace(group(text, match, 1)),
		RawInstruction: group(text, match, 0),
		Confidence:     0.9,
	}, true
}

// extractRelabel serves both redesignate and designate: the strike side
// holds the old designation and the insert side the new one. Neither is
// applied as a text transformation; see Applier.
func extractRelabel(_ *Parser, text string, match []int) (Instruction, bool) {
	kind := KindRedesignate
	if !strings.Contains(strings.ToLower(group(text, match, 0)), "redesignating") {
		kind = KindDesignate
	}
	return Instruction{
		Kind:           kind,
		TextToStrike:   strings.TrimSpace(group(text, match, 1)),
		TextToInsert:   strings.TrimSpace(group(text, match, 2)),
		RawInstruction: group(text, match, 0),
		Confidence:     0.85,
	}, true
}
