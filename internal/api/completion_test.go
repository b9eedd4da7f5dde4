package api_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/api"
)

type fakeStream struct {
	chunks []string
	pos    int
	err    error
	closed bool
}

func (s *fakeStream) Recv() (string, error) {
	if s.pos < len(s.chunks) {
		chunk := s.chunks[s.pos]
		s.pos++
		return chunk, nil
	}
	if s.err != nil {
		return "", s.err
	}
	return "", io.EOF
}

func (s *fakeStream) Close() error {
	s.closed = true
	return nil
}

func TestStreamReadAll(t *testing.T) {
	stream := &fakeStream{chunks: []string{"The answer", " is ", "42."}}

	got, err := api.StreamReadAll(context.Background(), stream)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "The answer is 42." {
		t.Errorf("unexpected accumulated output: %q", got)
	}
	if !stream.closed {
		t.Error("expected the underlying stream to be closed")
	}
}

func TestStreamReadAllError(t *testing.T) {
	streamErr := errors.New("provider failed")
	stream := &fakeStream{chunks: []string{"partial"}, err: streamErr}

	got, err := api.StreamReadAll(context.Background(), stream)
	if !errors.Is(err, streamErr) {
		t.Fatalf("expected provider error to propagate, got %v", err)
	}
	if got != "partial" {
		t.Errorf("expected partial output to be returned, got %q", got)
	}
	if !stream.closed {
		t.Error("expected the underlying stream to be closed on error")
	}
}

func TestStreamReadAllEmpty(t *testing.T) {
	stream := &fakeStream{}

	got, err := api.StreamReadAll(context.Background(), stream)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

func TestFromPrompt(t *testing.T) {
	req := api.FromPrompt("analyze this")

	if req.Prompt != "analyze this" {
		t.Errorf("unexpected prompt: %q", req.Prompt)
	}
	if req.Temperature != 0.2 {
		t.Errorf("expected default temperature 0.2, got %f", req.Temperature)
	}
	if req.ModelName != "" {
		t.Errorf("expected no default model override, got %q", req.ModelName)
	}
}
