package tasks

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/answer"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/api"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/index"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/ingest"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/provider"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/transport"
)

const answerMaxTokens = 800

// Handler processes document Q&A tasks. It owns the in-memory document
// index, so every task type for a given deployment must be routed to the
// same worker process.
type Handler struct {
	transport transport.Transport
	idx       *index.Index
	ingestor  *ingest.Ingestor
	ranker    Ranker
	generator provider.Generator

	topK int
}

// Ranker is the slice of the retrieval ranker the handler needs; it keeps
// the handler testable without a full retrieval setup.
type Ranker interface {
	Rank(query string, doc *api.Document, topK int) []api.ScoredChunk
	Citations(ranked []api.ScoredChunk) []int
}

func NewHandler(
	t transport.Transport,
	idx *index.Index,
	ingestor *ingest.Ingestor,
	ranker Ranker,
	generator provider.Generator,
	topK int,
) *Handler {
	return &Handler{
		transport: t,
		idx:       idx,
		ingestor:  ingestor,
		ranker:    ranker,
		generator: generator,
		topK:      topK,
	}
}

func (h *Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	id := t.ResultWriter().TaskID()

	ms, err := h.transport.GetMessageStream(id)
	if err != nil {
		slog.Error("failed to initialize message stream", "err", err)
		return fmt.Errorf("failed to initialize message stream: %v (%w)", err, asynq.SkipRetry)
	}

	switch t.Type() {
	case TypeIngest:
		err = h.processIngest(ctx, t, ms)
	case TypeQuery:
		err = h.processQuery(ctx, t, ms)
	case TypeInfo:
		err = h.processInfo(ctx, t, ms)
	default:
		return fmt.Errorf("unrecognized task type '%s' (%w)", t.Type(), asynq.SkipRetry)
	}

	if err != nil {
		ms.Send(ctx, transport.MessageStreamPayload{
			Content: "task failed",
			Status:  "ERR",
			Error:   errorKind(err),
		})
		return fmt.Errorf("task '%s' failed: %v (%w)", id, err, asynq.SkipRetry)
	}

	if err := ms.Send(ctx, transport.MessageStreamPayload{
		Content: "task finished",
		Status:  "DONE",
	}); err != nil {
		slog.Warn("failed to write DONE message to stream", "id", id)
	}
	return nil
}

func (h *Handler) processIngest(ctx context.Context, t *asynq.Task, ms transport.MessageStream) error {
	var p ingestTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	slog.Info("received ingest task", "id", ms.GetID(), "name", p.Name)

	data, err := base64.StdEncoding.DecodeString(p.Content)
	if err != nil {
		return fmt.Errorf("failed to decode file contents: %w", err)
	}

	doc, err := h.ingestor.FromPDF(data)
	if err != nil {
		return err
	}
	doc.Name = p.Name

	// a chunk referencing a missing page means ingestion is corrupted;
	// fail fast instead of serving bad citations later
	if err := doc.Validate(); err != nil {
		return err
	}

	h.idx.Put(doc.ID, doc)

	return ms.Send(ctx, transport.MessageStreamPayload{
		Type:     transport.MessageTypeDocument,
		Status:   "OK",
		Document: transport.SummarizeDocument(doc),
	})
}

// errorKind maps a task failure onto the error kind relayed to callers.
func errorKind(err error) string {
	if errors.Is(err, ingest.ErrNoExtractableText) {
		return transport.ErrorKindUnreadableDocument
	}
	return transport.ErrorKindInternal
}

func (h *Handler) processQuery(ctx context.Context, t *asynq.Task, ms transport.MessageStream) error {
	var p queryTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	id := ms.GetID()
	slog.Info("received query task", "id", id, "query", p.Query, "document", p.DocumentID)

	trace := &transport.RequestTrace{
		ID:         id,
		Status:     transport.TraceStatusRunning,
		StartedAt:  time.Now().UnixNano(),
		Query:      p.Query,
		DocumentID: p.DocumentID,
	}
	if err := h.transport.SetTrace(ctx, trace); err != nil {
		slog.Error("failed to set trace", "id", id, "err", err)
	}

	err := h.answerQuery(ctx, &p, ms)

	trace.CompletedAt = time.Now().UnixNano()
	trace.Status = transport.TraceStatusCompleted
	if err != nil {
		trace.Status = transport.TraceStatusFailed
	}
	if terr := h.transport.SetTrace(ctx, trace); terr != nil {
		slog.Error("failed to set trace", "id", id, "err", terr)
	}

	return err
}

func (h *Handler) answerQuery(ctx context.Context, p *queryTaskPayload, ms transport.MessageStream) error {
	topK := p.TopK
	if topK <= 0 {
		topK = h.topK
	}

	// a missing document and an unconfident ranking both resolve to the
	// fallback answer, not an error
	doc, _ := h.idx.Get(p.DocumentID)
	ranked := h.ranker.Rank(p.Query, doc, topK)

	if len(ranked) == 0 {
		slog.Info("no relevant chunks found", "id", ms.GetID(), "query", p.Query)
		return h.sendFallback(ctx, ms)
	}

	prompt, err := answer.BuildPrompt(p.Query, ranked)
	if err != nil {
		return err
	}

	req := api.FromPrompt(prompt)
	req.MaxTokens = answerMaxTokens

	cs, err := h.generator.Generate(ctx, *req)
	if err != nil {
		return fmt.Errorf("failed to create completion stream: %w", err)
	}

	// the full response is needed before anything reaches the caller:
	// a no-information reply must be replaced, not relayed
	response, err := api.StreamReadAll(ctx, cs)
	if err != nil {
		return fmt.Errorf("failed to read completion stream: %w", err)
	}

	if answer.ContainsNoInfo(response) {
		return h.sendFallback(ctx, ms)
	}

	citations := h.ranker.Citations(ranked)
	slog.Info("answer generated", "id", ms.GetID(),
		"relevant", len(ranked), "topScore", ranked[0].Similarity, "citations", citations)

	if err := ms.Send(ctx, transport.MessageStreamPayload{
		Type:    transport.MessageTypeContent,
		Status:  "OK",
		Content: response,
	}); err != nil {
		return err
	}
	return ms.Send(ctx, transport.MessageStreamPayload{
		Type:      transport.MessageTypeCitations,
		Status:    "OK",
		Citations: citations,
	})
}

func (h *Handler) sendFallback(ctx context.Context, ms transport.MessageStream) error {
	if err := ms.Send(ctx, transport.MessageStreamPayload{
		Type:    transport.MessageTypeContent,
		Status:  "OK",
		Content: answer.Fallback,
	}); err != nil {
		return err
	}
	return ms.Send(ctx, transport.MessageStreamPayload{
		Type:      transport.MessageTypeCitations,
		Status:    "OK",
		Citations: []int{},
	})
}

func (h *Handler) processInfo(ctx context.Context, t *asynq.Task, ms transport.MessageStream) error {
	var p infoTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	slog.Info("received info task", "id", ms.GetID(), "document", p.DocumentID)

	doc, ok := h.idx.Get(p.DocumentID)
	if !ok {
		return fmt.Errorf("document '%s' not found", p.DocumentID)
	}

	return ms.Send(ctx, transport.MessageStreamPayload{
		Type:     transport.MessageTypeDocument,
		Status:   "OK",
		Document: transport.SummarizeDocument(doc),
	})
}
