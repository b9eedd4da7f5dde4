package api

import "fmt"

// Document is the unit of ingestion: the full extracted text of an
// uploaded file, segmented into pages and chunked for retrieval.
// Documents are immutable once constructed.
type Document struct {
	ID string
	// Name is the caller-supplied display name, usually the uploaded
	// file name.
	Name string

	Pages  []Page
	Chunks []Chunk

	FullTextLength int
	PageCount      int
}

// Page holds the trimmed text of a single logical page.
// Page numbers are 1-based and sequential over retained pages.
type Page struct {
	PageNumber int
	Content    string
}

// Chunk is a bounded, possibly overlapping span of a page's text.
// PageNumber is a lookup key into the owning Document's pages,
// not an ownership reference.
type Chunk struct {
	Content    string
	PageNumber int
	ChunkIndex int
}

// ScoredChunk attaches a query-relative similarity score to a Chunk.
// Scores are computed per query and never persisted.
type ScoredChunk struct {
	Chunk
	Similarity float64
}

type ErrPageRefInvalid struct {
	DocumentID string
	PageNumber int
	ChunkIndex int
}

func (e ErrPageRefInvalid) Error() string {
	return fmt.Sprintf("document '%s': chunk %d references missing page %d",
		e.DocumentID, e.ChunkIndex, e.PageNumber)
}

// Validate checks the page back-reference invariant. A violation means
// ingestion produced a corrupted document and callers should fail fast.
func (d *Document) Validate() error {
	pages := make(map[int]bool, len(d.Pages))
	for _, p := range d.Pages {
		pages[p.PageNumber] = true
	}

	for _, c := range d.Chunks {
		if !pages[c.PageNumber] {
			return ErrPageRefInvalid{
				DocumentID: d.ID,
				PageNumber: c.PageNumber,
				ChunkIndex: c.ChunkIndex,
			}
		}
	}
	return nil
}
