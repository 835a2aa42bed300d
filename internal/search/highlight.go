// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import "unicode"

// =============================================================================
// HIGHLIGHTING
// =============================================================================

// PreviewLimit is the rune length a collapsed result is truncated to.
const PreviewLimit = 200

// Span marks a highlighted region of document content. Offsets are rune
// indices, half-open [Start, End).
type Span struct {
	Start int
	End   int
}

// Spans returns the regions of content matching any of the query terms,
// case-insensitively, sorted and with overlapping matches merged.
func Spans(content string, terms []string) []Span {
	if content == "" || len(terms) == 0 {
		return nil
	}

	runes := foldRunes(content)

	var spans []Span
	for _, term := range terms {
		needle := foldRunes(term)
		if len(needle) == 0 {
			continue
		}
		for i := 0; i+len(needle) <= len(runes); i++ {
			if matchAt(runes, needle, i) {
				spans = append(spans, Span{Start: i, End: i + len(needle)})
			}
		}
	}
	return mergeSpans(spans)
}

func foldRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

func matchAt(haystack, needle []rune, at int) bool {
	for i, r := range needle {
		if haystack[at+i] != r {
			return false
		}
	}
	return true
}

// mergeSpans sorts spans and coalesces any that overlap or touch.
func mergeSpans(spans []Span) []Span {
	if len(spans) < 2 {
		return spans
	}

	// insertion sort: span counts are tiny
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].Start < spans[j-1].Start; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}

	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// Preview returns the content to render for a result: the full content
// when expanded or short enough, otherwise the first PreviewLimit runes
// with an ellipsis.
func Preview(content string, expanded bool) string {
	if expanded {
		return content
	}
	runes := []rune(content)
	if len(runes) <= PreviewLimit {
		return content
	}
	return string(runes[:PreviewLimit]) + "…"
}
