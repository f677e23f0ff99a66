// Package amend parses legislative amendment instructions from bill text
// and applies them to statute text. It recognizes the bounded set of
// drafting idioms catalogued in the Senate Legislative Drafting Manual
// ("by striking X and inserting Y", "is amended to read as follows", and
// so on) and explicitly reports anything else as unresolved rather than
// guessing.
package amend

import "github.com/coolbeans/ramseyer/pkg/structure"

// Kind classifies a legislative amendment instruction.
type Kind string

const (
	// KindStrikeAndInsert replaces existing text with new text.
	KindStrikeAndInsert Kind = "strike_insert"
	// KindInsertAfter splices new text after a literal anchor.
	KindInsertAfter Kind = "insert_after"
	// KindInsertBefore splices new text before a literal anchor.
	KindInsertBefore Kind = "insert_before"
	// KindReadAsFollows replaces the entire target span.
	KindReadAsFollows Kind = "read_as_follows"
	// KindAddAtEnd appends new text to the target span.
	KindAddAtEnd Kind = "add_at_end"
	// KindAddAtBeginning prepends new text to the target span.
	KindAddAtBeginning Kind = "add_at_beginning"
	// KindStrike removes text without inserting a replacement.
	KindStrike Kind = "strike"
	// KindRedesignate renumbers or reletters existing subdivisions.
	KindRedesignate Kind = "redesignate"
	// KindDesignate gives an existing undesignated block a marker.
	KindDesignate Kind = "designate"
	// KindUnknown marks text that resembles an amendment but matched no
	// recognizer.
	KindUnknown Kind = "unknown"
)

// Instruction is one parsed amendment directive. Instructions are created
// by the Parser and consumed read-only by the Applier; no field is
// mutated after parsing.
type Instruction struct {
	Kind Kind `json:"kind"`

	// TextToStrike is the literal text to remove, where applicable.
	TextToStrike string `json:"text_to_strike,omitempty"`

	// TextToInsert is the literal text to add, where applicable.
	TextToInsert string `json:"text_to_insert,omitempty"`

	// PositionMarker anchors insert-after and insert-before splices.
	PositionMarker string `json:"position_marker,omitempty"`

	// Target is the structural reference the instruction applies to,
	// e.g. "subparagraph (D)" or "(b)(1)", when one was stated.
	Target string `json:"target,omitempty"`

	// EachPlace widens a strike to every occurrence of TextToStrike
	// ("each place it appears").
	EachPlace bool `json:"each_place,omitempty"`

	// ThroughEnd extends a strike from TextToStrike through the sentence
	// terminal ("and all that follows through the period at the end").
	ThroughEnd bool `json:"through_end,omitempty"`

	// StrikeElements lists whole subdivisions to remove, in bracket
	// notation with their introducing word, for strikes of the form
	// "striking subparagraphs (B) and (C)".
	StrikeElements []string `json:"strike_elements,omitempty"`

	// RawInstruction is the substring of the context the instruction was
	// derived from.
	RawInstruction string `json:"raw_instruction,omitempty"`

	// Confidence is the parser's confidence in [0,1]: structured pattern
	// matches score 0.85-0.95, the bare keyword fallback scores 0.5.
	Confidence float64 `json:"confidence"`
}

// IsValid reports whether the instruction carries the minimum fields its
// kind needs to be applied. Redesignations and designations are valid with
// both sides of the mapping present even though the Applier does not
// rewrite text for them.
func (inst Instruction) IsValid() bool {
	switch inst.Kind {
	case KindStrikeAndInsert:
		return (inst.TextToStrike != "" || len(inst.StrikeElements) > 0) && inst.TextToInsert != ""
	case KindInsertAfter, KindInsertBefore:
		return inst.PositionMarker != "" && inst.TextToInsert != ""
	case KindReadAsFollows, KindAddAtEnd, KindAddAtBeginning:
		return inst.TextToInsert != ""
	case KindStrike:
		return inst.TextToStrike != "" || len(inst.StrikeElements) > 0
	case KindRedesignate, KindDesignate:
		return inst.TextToStrike != "" && inst.TextToInsert != ""
	default:
		return false
	}
}

// TargetAddress parses the bracket notation embedded in Target, if any.
// A Target like "subparagraph (D)" yields the address for "(D)"; a bare
// "(b)(1)" parses directly. Returns nil when Target is empty or carries
// no markers.
func (inst Instruction) TargetAddress() structure.Address {
	if inst.Target == "" {
		return nil
	}
	address, err := structure.ParseAddress(inst.Target)
	if err != nil {
		return nil
	}
	return address
}

// dedupKey identifies an instruction for deduplication. Overlapping
// recognizers may produce the same logical directive from different
// lexical variants.
func (inst Instruction) dedupKey() string {
	return string(inst.Kind) + "\x00" + inst.TextToStrike + "\x00" + inst.TextToInsert
}

// ParseOutcome is the result of parsing one context text. It is produced
// per Parse call, is immutable, and carries no persistent state; the
// calling orchestrator decides what to do with the instruction list.
type ParseOutcome struct {
	// Instructions holds the deduplicated instructions in recognizer
	// priority order.
	Instructions []Instruction `json:"instructions"`

	// Success reports whether at least one instruction was produced.
	Success bool `json:"success"`

	// Diagnostic explains a failure, e.g. "no text provided" or
	// "definitional reference, not an amendment".
	Diagnostic string `json:"diagnostic,omitempty"`
}

// ApplyOutcome is the result of applying one instruction. An apply either
// fully succeeds or leaves the input untouched; there is no partial
// success.
type ApplyOutcome struct {
	// Text is the amended text on success, or the unchanged original.
	Text string `json:"text"`

	// Applied reports whether the transformation took effect.
	Applied bool `json:"applied"`
}
