package retrieval

import (
	"strings"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/api"
)

const (
	// PageBreak is the control character upstream extraction inserts
	// between pages.
	PageBreak = "\f"

	minPageLength        = 30
	minLogicalPageLength = 50
	minAvgPageSize       = 1500
	pageLookAhead        = 300
	pageBreakWindow      = 250
)

// SegmentPages splits raw extracted text into logical pages. Text carrying
// explicit page-break markers is split on them; otherwise the text is cut
// into windows sized from the declared page count, extended to the nearest
// paragraph break. Page numbers are assigned sequentially over retained
// pages only, so they are always 1-based with no gaps.
//
// Empty or whitespace-only input yields an empty page list.
func SegmentPages(raw string, declaredPageCount int) []api.Page {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	segments := strings.Split(raw, PageBreak)
	if len(segments) > 1 {
		pages := make([]api.Page, 0, len(segments))
		for _, seg := range segments {
			trimmed := strings.TrimSpace(seg)
			if len(trimmed) <= minPageLength {
				continue
			}
			pages = append(pages, api.Page{
				PageNumber: len(pages) + 1,
				Content:    trimmed,
			})
		}
		return pages
	}

	return segmentLogical(raw, declaredPageCount)
}

// segmentLogical paginates marker-less text by average page size.
func segmentLogical(raw string, declaredPageCount int) []api.Page {
	if declaredPageCount < 1 {
		declaredPageCount = 1
	}

	avgPageSize := len(raw) / declaredPageCount
	if avgPageSize < minAvgPageSize {
		avgPageSize = minAvgPageSize
	}

	var pages []api.Page
	for start := 0; start < len(raw); {
		end := min(start+avgPageSize, len(raw))

		// extend the window to the next paragraph break, avoiding
		// mid-paragraph cuts
		if end < len(raw) {
			lookAhead := raw[end:min(end+pageLookAhead, len(raw))]
			if paraBreak := strings.Index(lookAhead, "\n\n"); paraBreak != -1 && paraBreak < pageBreakWindow {
				end += paraBreak + 2
			} else if clamped := runeStart(raw, end); clamped > start {
				end = clamped
			}
		}

		content := strings.TrimSpace(raw[start:end])
		start = end
		if len(content) <= minLogicalPageLength {
			continue
		}
		pages = append(pages, api.Page{
			PageNumber: len(pages) + 1,
			Content:    content,
		})
	}
	return pages
}
