package amend

import "strings"

// rawInstructionLimit bounds the excerpt stored on keyword-fallback
// instructions.
const rawInstructionLimit = 200

// keywordConfidence is the confidence assigned to bare keyword
// classifications, well below any structured pattern match.
const keywordConfidence = 0.5

// detectFromKeywords coarsely classifies text that matched no recognizer,
// using simple substring presence. The returned instruction carries only
// a kind and a raw excerpt; it usually fails IsValid and exists so the
// orchestrator can report what sort of amendment it could not resolve.
func (parser *Parser) detectFromKeywords(text string) (Instruction, bool) {
	lowered := strings.ToLower(text)

	var kind Kind
	switch {
	case strings.Contains(lowered, "striking") && strings.Contains(lowered, "inserting"):
		kind = KindStrikeAndInsert
	case strings.Contains(lowered, "inserting after"):
		kind = KindInsertAfter
	case strings.Contains(lowered, "inserting before"):
		kind = KindInsertBefore
	case strings.Contains(lowered, "read as follows"):
		kind = KindReadAsFollows
	case strings.Contains(lowered, "adding at the end"):
		kind = KindAddAtEnd
	case strings.Contains(lowered, "redesignating"):
		kind = KindRedesignate
	case strings.Contains(lowered, "designating"):
		kind = KindDesignate
	case strings.Contains(lowered, "striking") || strings.Contains(lowered, "deleting"):
		kind = KindStrike
	default:
		return Instruction{}, false
	}

	excerpt := text
	if len(excerpt) > rawInstructionLimit {
		excerpt = excerpt[:rawInstructionLimit]
	}
	return Instruction{
		Kind:           kind,
		RawInstruction: excerpt,
		Confidence:     keywordConfidence,
	}, true
}
