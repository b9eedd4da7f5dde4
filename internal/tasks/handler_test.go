package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/answer"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/api"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/index"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/ingest"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/transport"
)

type recordingStream struct {
	id       string
	payloads []transport.MessageStreamPayload
}

func (s *recordingStream) Send(ctx context.Context, payload transport.MessageStreamPayload) error {
	s.payloads = append(s.payloads, payload)
	return nil
}

func (s *recordingStream) Recv(ctx context.Context) (*transport.MessageStreamPayload, error) {
	return nil, io.EOF
}

func (s *recordingStream) GetID() string {
	return s.id
}

type stubRanker struct {
	ranked    []api.ScoredChunk
	citations []int
}

func (r stubRanker) Rank(query string, doc *api.Document, topK int) []api.ScoredChunk {
	return r.ranked
}

func (r stubRanker) Citations(ranked []api.ScoredChunk) []int {
	return r.citations
}

type scriptedCompletion struct {
	chunks []string
	pos    int
}

func (s *scriptedCompletion) Recv() (string, error) {
	if s.pos >= len(s.chunks) {
		return "", io.EOF
	}
	chunk := s.chunks[s.pos]
	s.pos++
	return chunk, nil
}

func (s *scriptedCompletion) Close() error { return nil }

type stubGenerator struct {
	chunks []string
	gotReq api.GenerationRequest
}

func (g *stubGenerator) Generate(ctx context.Context, req api.GenerationRequest) (api.CompletionStream, error) {
	g.gotReq = req
	return &scriptedCompletion{chunks: g.chunks}, nil
}

func newTestHandler(gen *stubGenerator, ranker Ranker) (*Handler, *index.Index) {
	idx := index.New()
	return &Handler{
		idx:       idx,
		ranker:    ranker,
		generator: gen,
		topK:      10,
	}, idx
}

func rankedFixture() []api.ScoredChunk {
	return []api.ScoredChunk{
		{Chunk: api.Chunk{Content: "exposure limits are 20 mSv per year", PageNumber: 2}, Similarity: 3.4},
	}
}

func TestAnswerQueryBuffersFullResponse(t *testing.T) {
	gen := &stubGenerator{chunks: []string{"The limit ", "is 20 mSv ", "per year."}}
	h, idx := newTestHandler(gen, stubRanker{ranked: rankedFixture(), citations: []int{2}})
	idx.Put("doc-1", &api.Document{ID: "doc-1"})

	ms := &recordingStream{id: "trace-1"}
	p := &queryTaskPayload{Query: "what is the limit?", DocumentID: "doc-1"}

	if err := h.answerQuery(context.Background(), p, ms); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ms.payloads) != 2 {
		t.Fatalf("expected one content and one citations send, got %d", len(ms.payloads))
	}
	if ms.payloads[0].Type != transport.MessageTypeContent {
		t.Errorf("first send has type %d, want content", ms.payloads[0].Type)
	}
	if ms.payloads[0].Content != "The limit is 20 mSv per year." {
		t.Errorf("expected the accumulated response in one send, got %q", ms.payloads[0].Content)
	}
	if ms.payloads[1].Type != transport.MessageTypeCitations {
		t.Errorf("second send has type %d, want citations", ms.payloads[1].Type)
	}
	if len(ms.payloads[1].Citations) != 1 || ms.payloads[1].Citations[0] != 2 {
		t.Errorf("unexpected citations: %v", ms.payloads[1].Citations)
	}
	if gen.gotReq.MaxTokens != answerMaxTokens {
		t.Errorf("expected max tokens %d, got %d", answerMaxTokens, gen.gotReq.MaxTokens)
	}
}

func TestAnswerQueryReplacesNoInfoResponse(t *testing.T) {
	gen := &stubGenerator{chunks: []string{"I couldn't find relevant", " information about that."}}
	h, idx := newTestHandler(gen, stubRanker{ranked: rankedFixture(), citations: []int{2}})
	idx.Put("doc-1", &api.Document{ID: "doc-1"})

	ms := &recordingStream{id: "trace-2"}
	p := &queryTaskPayload{Query: "something off-topic", DocumentID: "doc-1"}

	if err := h.answerQuery(context.Background(), p, ms); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ms.payloads) != 2 {
		t.Fatalf("expected 2 sends, got %d", len(ms.payloads))
	}
	if ms.payloads[0].Content != answer.Fallback {
		t.Errorf("expected the fallback answer, got %q", ms.payloads[0].Content)
	}
	if len(ms.payloads[1].Citations) != 0 {
		t.Errorf("expected empty citations with the fallback, got %v", ms.payloads[1].Citations)
	}
}

func TestAnswerQueryNoRelevantChunks(t *testing.T) {
	gen := &stubGenerator{chunks: []string{"should never be generated"}}
	h, _ := newTestHandler(gen, stubRanker{})

	ms := &recordingStream{id: "trace-3"}
	p := &queryTaskPayload{Query: "anything", DocumentID: "missing"}

	if err := h.answerQuery(context.Background(), p, ms); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ms.payloads) != 2 || ms.payloads[0].Content != answer.Fallback {
		t.Errorf("expected the fallback answer without generation, got %+v", ms.payloads)
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ingest.ErrNoExtractableText, transport.ErrorKindUnreadableDocument},
		{fmt.Errorf("wrapped: %w", ingest.ErrNoExtractableText), transport.ErrorKindUnreadableDocument},
		{errors.New("anything else"), transport.ErrorKindInternal},
	}

	for _, tt := range tests {
		if got := errorKind(tt.err); got != tt.want {
			t.Errorf("errorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
