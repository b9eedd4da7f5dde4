package server

import (
	"context"
	"errors"
	"testing"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/transport"
)

type scriptedStream struct {
	id   string
	msgs []transport.MessageStreamPayload
	errs []error
	pos  int
}

func (s *scriptedStream) Send(ctx context.Context, payload transport.MessageStreamPayload) error {
	return nil
}

func (s *scriptedStream) Recv(ctx context.Context) (*transport.MessageStreamPayload, error) {
	if s.pos < len(s.errs) && s.errs[s.pos] != nil {
		err := s.errs[s.pos]
		s.pos++
		return nil, err
	}
	if s.pos >= len(s.msgs) {
		return nil, errors.New("stream exhausted")
	}
	msg := s.msgs[s.pos]
	s.pos++
	return &msg, nil
}

func (s *scriptedStream) GetID() string {
	return s.id
}

func TestCollectMessageStream(t *testing.T) {
	stream := &scriptedStream{
		id: "trace-1",
		msgs: []transport.MessageStreamPayload{
			{Status: "OK", Type: transport.MessageTypeContent, Content: "The answer "},
			{Status: "OK", Type: transport.MessageTypeContent, Content: "is here."},
			{Status: "OK", Type: transport.MessageTypeCitations, Citations: []int{2, 5}},
			{Status: "DONE"},
		},
	}

	res, err := collectMessageStream(context.Background(), "trace-1", stream)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Content != "The answer is here." {
		t.Errorf("unexpected folded content: %q", res.Content)
	}
	if len(res.Citations) != 2 || res.Citations[0] != 2 || res.Citations[1] != 5 {
		t.Errorf("unexpected citations: %v", res.Citations)
	}
}

func TestCollectMessageStreamDocument(t *testing.T) {
	stream := &scriptedStream{
		id: "trace-2",
		msgs: []transport.MessageStreamPayload{
			{
				Status: "OK",
				Type:   transport.MessageTypeDocument,
				Document: &transport.DocumentSummary{
					ID: "doc-1", Pages: 12, Chunks: 40,
				},
			},
			{Status: "DONE"},
		},
	}

	res, err := collectMessageStream(context.Background(), "trace-2", stream)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Document == nil || res.Document.ID != "doc-1" {
		t.Errorf("expected document summary, got %+v", res.Document)
	}
}

func TestCollectMessageStreamWorkerError(t *testing.T) {
	stream := &scriptedStream{
		id: "trace-3",
		msgs: []transport.MessageStreamPayload{
			{Status: "OK", Type: transport.MessageTypeContent, Content: "partial"},
			{Status: "ERR", Error: transport.ErrorKindUnreadableDocument},
		},
	}

	_, err := collectMessageStream(context.Background(), "trace-3", stream)
	if err == nil {
		t.Fatal("expected error when the worker reports ERR")
	}

	var werr *workerError
	if !errors.As(err, &werr) {
		t.Fatalf("expected a worker error, got %v", err)
	}
	if werr.Kind != transport.ErrorKindUnreadableDocument {
		t.Errorf("expected the error kind to be carried, got %q", werr.Kind)
	}
}

func TestCollectMessageStreamRetriesTransientReads(t *testing.T) {
	stream := &scriptedStream{
		id:   "trace-4",
		errs: []error{errors.New("transient"), errors.New("transient")},
		msgs: []transport.MessageStreamPayload{
			{}, {},
			{Status: "OK", Type: transport.MessageTypeContent, Content: "recovered"},
			{Status: "DONE"},
		},
	}

	res, err := collectMessageStream(context.Background(), "trace-4", stream)
	if err != nil {
		t.Fatalf("expected transient errors to be retried: %v", err)
	}
	if res.Content != "recovered" {
		t.Errorf("unexpected content after retries: %q", res.Content)
	}
}
