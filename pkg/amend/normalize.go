package amend

import "strings"

// quoteReplacer canonicalizes Unicode quotation and prime variants to
// ASCII quotes. Bill text arrives from word processors and PDF extraction
// with curly quotes, low-9 quotes, and prime marks mixed freely; every
// downstream pattern assumes ASCII after this pass.
var quoteReplacer = strings.NewReplacer(
	"“", `"`, // left double quotation mark
	"”", `"`, // right double quotation mark
	"„", `"`, // double low-9 quotation mark
	"‟", `"`, // double high-reversed-9 quotation mark
	"″", `"`, // double prime
	"‘", "'", // left single quotation mark
	"’", "'", // right single quotation mark
	"‚", "'", // single low-9 quotation mark
	"‛", "'", // single high-reversed-9 quotation mark
	"′", "'", // prime
)

// NormalizeQuotes maps Unicode quotation and prime characters to ASCII
// `"` and `'`. It is pure, total, and idempotent; text without such
// characters passes through unchanged.
func NormalizeQuotes(text string) string {
	return quoteReplacer.Replace(text)
}
