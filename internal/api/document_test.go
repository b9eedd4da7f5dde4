package api_test

import (
	"errors"
	"testing"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/api"
)

func TestDocumentValidate(t *testing.T) {
	doc := &api.Document{
		ID: "doc-1",
		Pages: []api.Page{
			{PageNumber: 1, Content: "first"},
			{PageNumber: 2, Content: "second"},
		},
		Chunks: []api.Chunk{
			{Content: "a", PageNumber: 1, ChunkIndex: 0},
			{Content: "b", PageNumber: 2, ChunkIndex: 0},
		},
	}

	if err := doc.Validate(); err != nil {
		t.Errorf("expected valid document, got %v", err)
	}
}

func TestDocumentValidateEmpty(t *testing.T) {
	doc := &api.Document{ID: "empty"}
	if err := doc.Validate(); err != nil {
		t.Errorf("expected empty document to be valid, got %v", err)
	}
}

func TestDocumentValidateBadReference(t *testing.T) {
	doc := &api.Document{
		ID: "doc-2",
		Pages: []api.Page{
			{PageNumber: 1, Content: "only page"},
		},
		Chunks: []api.Chunk{
			{Content: "a", PageNumber: 1, ChunkIndex: 0},
			{Content: "b", PageNumber: 4, ChunkIndex: 1},
		},
	}

	err := doc.Validate()
	if err == nil {
		t.Fatal("expected validation error for missing page reference")
	}

	var refErr api.ErrPageRefInvalid
	if !errors.As(err, &refErr) {
		t.Fatalf("expected ErrPageRefInvalid, got %T", err)
	}
	if refErr.PageNumber != 4 || refErr.ChunkIndex != 1 {
		t.Errorf("unexpected error details: %+v", refErr)
	}
}
