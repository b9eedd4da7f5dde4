package retrieval

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 300

	minChunkLength = 100
	chunkLookAhead = 200
	breakEligible  = 150

	// maxChunks guards against a degenerate window advance; it is not a
	// semantic limit.
	maxChunks = 2000
)

// break point priorities: paragraph > sentence end > clause > any whitespace
var breakPoints = []struct {
	find   func(string) int
	weight float64
}{
	{func(s string) int { return strings.Index(s, "\n\n") }, 3},
	{func(s string) int { return indexPunctBeforeSpace(s, ".!?") }, 2},
	{func(s string) int { return indexPunctBeforeSpace(s, ",;") }, 1},
	{indexWhitespace, 0.5},
}

// ChunkText walks text in a sliding window of chunkSize characters,
// extending each window end to the best nearby break point and retaining
// overlap characters of context between consecutive chunks. Windows whose
// trimmed content is minChunkLength characters or shorter are discarded.
// The walk is deterministic and side-effect-free.
func ChunkText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	var chunks []string
	start := 0

	for start < len(text) {
		end := min(start+chunkSize, len(text))

		if end < len(text) {
			end += bestBreak(text[end:min(end+chunkLookAhead, len(text))])
			// hard cuts may land inside a multibyte rune
			if clamped := runeStart(text, end); clamped > start {
				end = clamped
			}
		}

		if chunk := strings.TrimSpace(text[start:end]); len(chunk) > minChunkLength {
			chunks = append(chunks, chunk)
		}

		if end == len(text) || len(chunks) >= maxChunks {
			break
		}
		next := runeStart(text, end-overlap)
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// bestBreak returns the offset of the highest-priority break point within
// the look-ahead window, or 0 when no eligible candidate exists (a hard
// cut at the window boundary). Only candidates within the first
// breakEligible characters qualify; ties keep the earliest candidate of
// the winning priority.
func bestBreak(lookAhead string) int {
	best := -1
	bestWeight := -1.0

	for _, bp := range breakPoints {
		idx := bp.find(lookAhead)
		if idx != -1 && idx < breakEligible && bp.weight > bestWeight {
			best = idx
			bestWeight = bp.weight
		}
	}

	if best > 0 {
		return best
	}
	return 0
}

// indexPunctBeforeSpace finds the earliest occurrence of any punct rune
// immediately followed by whitespace.
func indexPunctBeforeSpace(s, punct string) int {
	for i := 0; i+1 < len(s); i++ {
		if strings.IndexByte(punct, s[i]) != -1 && isSpace(s[i+1]) {
			return i
		}
	}
	return -1
}

func indexWhitespace(s string) int {
	for i := 0; i < len(s); i++ {
		if isSpace(s[i]) {
			return i
		}
	}
	return -1
}

// runeStart walks i back to the nearest rune boundary at or before it.
func runeStart(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
