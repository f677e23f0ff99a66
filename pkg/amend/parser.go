package amend

import "strings"

// Parse extracts amendment instructions from context text. It never
// panics and never returns an error; every failure mode is represented in
// the outcome's Success flag and Diagnostic text, because one malformed
// amendment in a large bill must not abort processing of the rest.
//
// The pipeline: normalize quotes, reject definitional-only cross
// references, expand "is amended—(1)...(2)..." numbered lists into
// individually parsed items, run the recognizer cascade over the whole
// text, deduplicate, fall back to coarse keyword classification, and
// attach the nearest structural target reference to each instruction.
func (parser *Parser) Parse(contextText string) ParseOutcome {
	if contextText == "" {
		return ParseOutcome{
			Instructions: []Instruction{},
			Success:      false,
			Diagnostic:   "no text provided",
		}
	}

	text := NormalizeQuotes(contextText)

	if parser.isDefinitionalReference(text) && !parser.isAmendmentContext(text) {
		return ParseOutcome{
			Instructions: []Instruction{},
			Success:      false,
			Diagnostic:   "definitional reference, not an amendment",
		}
	}

	var instructions []Instruction

	// Numbered-list items first: they use terser phrasing that the
	// full-text cascade would misparse as a single run-on instruction,
	// and item-derived instructions carry their structural scope, so they
	// must win deduplication against scope-less full-text duplicates.
	instructions = append(instructions, parser.parseNumberedItems(text)...)

	for _, entry := range parser.recognizers {
		instructions = append(instructions, parser.matchAll(entry, text)...)
	}

	instructions = deduplicate(instructions)

	if len(instructions) == 0 {
		if fallback, ok := parser.detectFromKeywords(text); ok {
			instructions = append(instructions, fallback)
		}
	}

	parser.attachTargets(text, instructions)

	if len(instructions) == 0 {
		return ParseOutcome{
			Instructions: []Instruction{},
			Success:      false,
			Diagnostic:   "no amendment instruction recognized",
		}
	}
	return ParseOutcome{
		Instructions: instructions,
		Success:      true,
	}
}

// isDefinitionalReference reports whether the text merely cross-references
// a defined term ("has the meaning given", "the term ... means") rather
// than amending anything.
func (parser *Parser) isDefinitionalReference(text string) bool {
	for _, pattern := range parser.definitionalPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// isAmendmentContext reports whether the text contains amendment
// indicator language. A context with both definitional and amendment
// language is treated as an amendment: the guard must not suppress a
// genuine directive elsewhere in the same passage.
func (parser *Parser) isAmendmentContext(text string) bool {
	for _, pattern := range parser.indicatorPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// matchAll runs one recognizer over the text and collects every
// instruction its extractor accepts.
func (parser *Parser) matchAll(entry recognizerEntry, text string) []Instruction {
	var instructions []Instruction
	for _, match := range entry.pattern.FindAllStringSubmatchIndex(text, -1) {
		instruction, ok := entry.extract(parser, text, match)
		if !ok {
			continue
		}
		instructions = append(instructions, instruction)
	}
	return instructions
}

// parseNumberedItems expands a block of the form
//
//	is amended—
//	(1) on subparagraph (D), by striking "or" at the end;
//	(2) by striking the period at the end and inserting "; or"; and
//	(3) by adding at the end the following: "...".
//
// into individually parsed items. Any structural scope stated within an
// item ("on subparagraph (D)") is carried onto the item's instructions.
func (parser *Parser) parseNumberedItems(text string) []Instruction {
	anchor := parser.numberedAnchorPattern.FindStringIndex(text)
	if anchor == nil {
		return nil
	}
	tail := text[anchor[1]:]

	itemStarts := parser.numberedItemPattern.FindAllStringIndex(tail, -1)
	if len(itemStarts) == 0 {
		return nil
	}

	var instructions []Instruction
	for i, start := range itemStarts {
		end := len(tail)
		if i+1 < len(itemStarts) {
			end = itemStarts[i+1][0]
		}
		item := strings.TrimSpace(tail[start[0]:end])
		// Trailing list punctuation: ";", "; and", ", and"
		item = strings.TrimRight(item, " \n")
		item = strings.TrimSuffix(item, "; and")
		item = strings.TrimSuffix(item, ", and")
		item = strings.TrimSuffix(item, ";")

		scope := ""
		if scopeMatch := parser.itemScopePattern.FindStringSubmatch(item + " "); scopeMatch != nil {
			scope = normalizeScope(scopeMatch[1])
		}

		for _, entry := range parser.recognizers {
			for _, instruction := range parser.matchAll(entry, item) {
				if instruction.Target == "" {
					instruction.Target = scope
				}
				instruction.RawInstruction = item
				instructions = append(instructions, instruction)
			}
		}
	}
	return instructions
}

// normalizeScope canonicalizes a structural scope phrase: lowercased,
// singularized noun, single space before the markers. The marker labels
// keep their case verbatim; level inference reads a lowercase "(d)" as a
// subsection, not the subparagraph "(D)" the drafter named.
func normalizeScope(scope string) string {
	scope = strings.TrimSpace(scope)
	if idx := strings.Index(scope, "("); idx > 0 {
		noun := strings.ToLower(strings.TrimSpace(scope[:idx]))
		noun = strings.TrimSuffix(noun, "s")
		return noun + " " + scope[idx:]
	}
	return strings.ToLower(scope)
}

// deduplicate removes instructions that repeat an earlier one's
// (kind, strike, insert) key, keeping the first occurrence. Overlapping
// recognizers legitimately produce the same directive from different
// lexical variants.
func deduplicate(instructions []Instruction) []Instruction {
	if len(instructions) == 0 {
		return instructions
	}
	seen := make(map[string]bool, len(instructions))
	unique := make([]Instruction, 0, len(instructions))
	for _, instruction := range instructions {
		key := instruction.dedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, instruction)
	}
	return unique
}

// attachTargets sets each instruction's Target to the nearest structural
// reference in the original text when the recognizer did not already
// scope it.
func (parser *Parser) attachTargets(text string, instructions []Instruction) {
	reference := parser.sectionRefPattern.FindString(text)
	if reference == "" {
		return
	}
	for i := range instructions {
		if instructions[i].Target == "" {
			instructions[i].Target = strings.TrimSpace(reference)
		}
	}
}
