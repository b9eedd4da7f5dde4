// Package ingest turns uploaded file bytes into retrieval-ready documents:
// PDF text extraction, page segmentation, chunking and document assembly.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/api"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/retrieval"
)

// ErrNoExtractableText marks a file whose pages produced no usable text
// (scanned images, encrypted content). Distinct from an empty document,
// which is a valid "no content" outcome for plain text input.
var ErrNoExtractableText = errors.New("no extractable text in document")

type Ingestor struct {
	chunkSize    int
	chunkOverlap int
}

type Option func(*Ingestor)

func New(opts ...Option) *Ingestor {
	in := &Ingestor{
		chunkSize:    retrieval.DefaultChunkSize,
		chunkOverlap: retrieval.DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

func WithChunkSize(size int) Option {
	return func(in *Ingestor) {
		if size > 0 {
			in.chunkSize = size
		}
	}
}

func WithChunkOverlap(overlap int) Option {
	return func(in *Ingestor) {
		if overlap >= 0 {
			in.chunkOverlap = overlap
		}
	}
}

// FromPDF decodes a PDF byte stream, extracts per-page text joined with
// page-break markers, and builds the document.
func (in *Ingestor) FromPDF(data []byte) (*api.Document, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	numPages := reader.NumPage()
	pageTexts := make([]string, 0, numPages)

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			slog.Warn("failed to extract page text, skipping", "page", i, "err", err)
			continue
		}
		pageTexts = append(pageTexts, text)
	}

	fullText := sanitize(strings.Join(pageTexts, retrieval.PageBreak))
	if strings.TrimSpace(fullText) == "" {
		return nil, ErrNoExtractableText
	}

	return in.FromText(fullText, numPages), nil
}

// FromText segments and chunks already-extracted text into a Document.
// Empty or whitespace-only text yields a document with zero pages and
// chunks rather than an error.
func (in *Ingestor) FromText(text string, declaredPageCount int) *api.Document {
	pages := retrieval.SegmentPages(text, declaredPageCount)

	var chunks []api.Chunk
	for _, page := range pages {
		for idx, content := range retrieval.ChunkText(page.Content, in.chunkSize, in.chunkOverlap) {
			chunks = append(chunks, api.Chunk{
				Content:    content,
				PageNumber: page.PageNumber,
				ChunkIndex: idx,
			})
		}
	}

	doc := &api.Document{
		ID:             uuid.NewString(),
		Pages:          pages,
		Chunks:         chunks,
		FullTextLength: len(text),
		PageCount:      len(pages),
	}

	slog.Info("document ingested", "id", doc.ID, "pages", len(pages), "chunks", len(chunks))
	return doc
}

// sanitize removes NUL bytes and non-printing controls that some PDF
// extractors emit, preserving whitespace and the page-break marker.
func sanitize(s string) string {
	if s == "" {
		return s
	}

	s = strings.ReplaceAll(s, "\x00", "")

	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || r == '\f' {
			out = append(out, r)
			continue
		}
		if r < 0x20 {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
