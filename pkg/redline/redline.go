// Package redline renders visual diffs between original and amended
// statute text using standard redline conventions: deletions as red
// strikethrough, insertions as green highlight.
package redline

import (
	"fmt"
	"html"
	"strings"
)

// Op classifies one diff segment.
type Op int

const (
	// OpEqual marks text present in both versions.
	OpEqual Op = iota
	// OpDelete marks text struck from the original.
	OpDelete
	// OpInsert marks text added by the amendment.
	OpInsert
)

// Segment is one run of the diff.
type Segment struct {
	Op   Op     `json:"op"`
	Text string `json:"text"`
}

// Result is a rendered redline comparison.
type Result struct {
	// HTML carries the redline markup with <del>/<ins> tags.
	HTML string `json:"html"`

	// Deletions and Insertions count changed words.
	Deletions  int `json:"deletions"`
	Insertions int `json:"insertions"`

	// HasChanges reports whether any word differs.
	HasChanges bool `json:"has_changes"`

	OriginalLength int `json:"original_length"`
	AmendedLength  int `json:"amended_length"`
}

// Generate computes a word-level redline between the original and
// amended text. Empty inputs short-circuit: a missing original renders
// entirely as insertion, a missing amendment entirely as deletion.
func Generate(original, amended string) Result {
	if original == "" && amended == "" {
		return Result{
			HTML: `<span class="redline-unchanged">No text to compare.</span>`,
		}
	}
	if original == "" {
		return Result{
			HTML:          `<ins class="redline-inserted">` + html.EscapeString(amended) + `</ins>`,
			Insertions:    len(strings.Fields(amended)),
			HasChanges:    true,
			AmendedLength: len(amended),
		}
	}
	if amended == "" {
		return Result{
			HTML:           `<del class="redline-deleted">` + html.EscapeString(original) + `</del>`,
			Deletions:      len(strings.Fields(original)),
			HasChanges:     true,
			OriginalLength: len(original),
		}
	}

	segments := Diff(original, amended)

	var sb strings.Builder
	deletions := 0
	insertions := 0
	for _, segment := range segments {
		escaped := html.EscapeString(segment.Text)
		switch segment.Op {
		case OpDelete:
			sb.WriteString(`<del class="redline-deleted">` + escaped + `</del>`)
			deletions += len(strings.Fields(segment.Text))
		case OpInsert:
			sb.WriteString(`<ins class="redline-inserted">` + escaped + `</ins>`)
			insertions += len(strings.Fields(segment.Text))
		default:
			sb.WriteString(escaped)
		}
	}

	return Result{
		HTML:           sb.String(),
		Deletions:      deletions,
		Insertions:     insertions,
		HasChanges:     deletions > 0 || insertions > 0,
		OriginalLength: len(original),
		AmendedLength:  len(amended),
	}
}

// SideBySide renders the diff as two HTML columns: the original with
// deletions marked, the amended with insertions marked.
func SideBySide(original, amended string) (originalHTML, amendedHTML string) {
	var left, right strings.Builder
	for _, segment := range Diff(original, amended) {
		escaped := html.EscapeString(segment.Text)
		switch segment.Op {
		case OpDelete:
			left.WriteString(`<del class="redline-deleted">` + escaped + `</del>`)
		case OpInsert:
			right.WriteString(`<ins class="redline-inserted">` + escaped + `</ins>`)
		default:
			left.WriteString(escaped)
			right.WriteString(escaped)
		}
	}
	return left.String(), right.String()
}

// Wrap surrounds redline markup with container markup carrying a title
// and the change summary, for embedding in a larger report page.
func Wrap(result Result, title string) string {
	var sb strings.Builder
	sb.WriteString(`<div class="redline-container">` + "\n")
	if title != "" {
		sb.WriteString(`<div class="redline-title">` + html.EscapeString(title) + `</div>` + "\n")
	}
	fmt.Fprintf(&sb, `<div class="redline-summary">%d deletion(s), %d insertion(s)</div>`+"\n",
		result.Deletions, result.Insertions)
	sb.WriteString(`<div class="redline-body">` + result.HTML + `</div>` + "\n")
	sb.WriteString(`</div>`)
	return sb.String()
}

// Diff computes word-level diff segments between two texts. Adjacent
// words sharing an operation are merged into one segment so the HTML
// stays readable.
func Diff(original, amended string) []Segment {
	originalWords := tokenize(original)
	amendedWords := tokenize(amended)

	common := longestCommonSubsequence(originalWords, amendedWords)

	var segments []Segment
	oldIdx, newIdx := 0, 0
	for _, token := range common {
		for oldIdx < len(originalWords) && originalWords[oldIdx] != token {
			segments = appendSegment(segments, OpDelete, originalWords[oldIdx])
			oldIdx++
		}
		for newIdx < len(amendedWords) && amendedWords[newIdx] != token {
			segments = appendSegment(segments, OpInsert, amendedWords[newIdx])
			newIdx++
		}
		segments = appendSegment(segments, OpEqual, token)
		oldIdx++
		newIdx++
	}
	for oldIdx < len(originalWords) {
		segments = appendSegment(segments, OpDelete, originalWords[oldIdx])
		oldIdx++
	}
	for newIdx < len(amendedWords) {
		segments = appendSegment(segments, OpInsert, amendedWords[newIdx])
		newIdx++
	}
	return segments
}

// tokenize splits text into whitespace-delimited words. Whitespace
// variation is not meaningful in a redline, so tokens rejoin with single
// spaces.
func tokenize(text string) []string {
	return strings.Fields(text)
}

// appendSegment merges consecutive same-op tokens into one segment.
func appendSegment(segments []Segment, op Op, token string) []Segment {
	if len(segments) > 0 && segments[len(segments)-1].Op == op {
		segments[len(segments)-1].Text += " " + token
		return segments
	}
	return append(segments, Segment{Op: op, Text: token})
}

// longestCommonSubsequence computes the LCS of two token slices with the
// standard dynamic-programming table.
func longestCommonSubsequence(a, b []string) []string {
	m := len(a)
	n := len(b)

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	var lcs []string
	i, j := m, n
	for i > 0 && j > 0 {
		if a[i-1] == b[j-1] {
			lcs = append([]string{a[i-1]}, lcs...)
			i--
			j--
		} else if dp[i-1][j] > dp[i][j-1] {
			i--
		} else {
			j--
		}
	}
	return lcs
}
