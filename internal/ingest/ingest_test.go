package ingest

import (
	"strings"
	"testing"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/retrieval"
)

func TestFromTextBuildsDocument(t *testing.T) {
	pageA := strings.Repeat("alpha beta gamma delta sentence. ", 20)
	pageB := strings.Repeat("epsilon zeta eta theta sentence. ", 20)
	text := pageA + retrieval.PageBreak + pageB

	doc := New().FromText(text, 2)

	if doc.ID == "" {
		t.Error("expected generated document id")
	}
	if doc.PageCount != 2 {
		t.Fatalf("expected 2 pages, got %d", doc.PageCount)
	}
	if len(doc.Chunks) == 0 {
		t.Fatal("expected chunks to be produced")
	}
	if doc.FullTextLength != len(text) {
		t.Errorf("expected full text length %d, got %d", len(text), doc.FullTextLength)
	}

	if err := doc.Validate(); err != nil {
		t.Errorf("expected valid page back-references: %v", err)
	}
}

func TestFromTextEmpty(t *testing.T) {
	doc := New().FromText("", 0)

	if doc.PageCount != 0 || len(doc.Chunks) != 0 {
		t.Errorf("expected empty document, got %d pages and %d chunks", doc.PageCount, len(doc.Chunks))
	}
	if doc.ID == "" {
		t.Error("expected generated document id even for empty text")
	}
}

func TestFromTextChunkIndexesPerPage(t *testing.T) {
	pageA := strings.Repeat("one two three four five six seven. ", 80)
	pageB := strings.Repeat("eight nine ten eleven twelve items. ", 80)
	text := pageA + retrieval.PageBreak + pageB

	doc := New(WithChunkSize(500), WithChunkOverlap(100)).FromText(text, 2)

	perPage := map[int]int{}
	for _, c := range doc.Chunks {
		if c.ChunkIndex != perPage[c.PageNumber] {
			t.Errorf("page %d chunk has index %d, expected %d", c.PageNumber, c.ChunkIndex, perPage[c.PageNumber])
		}
		perPage[c.PageNumber]++
	}

	if perPage[1] < 2 || perPage[2] < 2 {
		t.Errorf("expected multiple chunks per page, got %v", perPage)
	}
}

func TestFromPDFInvalidData(t *testing.T) {
	if _, err := New().FromPDF([]byte("not a pdf")); err == nil {
		t.Error("expected error for invalid pdf data")
	}
}

func TestSanitize(t *testing.T) {
	in := "text\x00 with\x01 controls\nand\ttabs\fkept"
	want := "text with controls\nand\ttabs\fkept"

	if got := sanitize(in); got != want {
		t.Errorf("sanitize(%q) = %q, want %q", in, got, want)
	}
}

func TestIngestorOptions(t *testing.T) {
	in := New(WithChunkSize(0), WithChunkOverlap(-1))

	if in.chunkSize != retrieval.DefaultChunkSize {
		t.Errorf("expected invalid chunk size to fall back to default, got %d", in.chunkSize)
	}
	if in.chunkOverlap != retrieval.DefaultChunkOverlap {
		t.Errorf("expected invalid overlap to fall back to default, got %d", in.chunkOverlap)
	}
}
