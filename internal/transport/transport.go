package transport

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/api"
)

var (
	TraceExpiry = time.Hour * 24
)

type Transport interface {
	GetMessageStream(id string) (MessageStream, error)
	SetTrace(ctx context.Context, trace *RequestTrace) error
	GetTrace(ctx context.Context, traceId string) (*RequestTrace, error)
}

type MessageStream interface {
	Send(ctx context.Context, payload MessageStreamPayload) error

	Recv(ctx context.Context) (*MessageStreamPayload, error)

	GetID() string
}

type MessageStreamPayload struct {
	ID     int         `json:"id"`
	Status string      `json:"status"`
	Type   MessageType `json:"type"`

	Content   string           `json:"content,omitempty"`
	Citations []int            `json:"citations,omitempty"`
	Document  *DocumentSummary `json:"document,omitempty"`

	// Error names the failure kind on ERR payloads so callers can map
	// worker failures onto their own error responses.
	Error string `json:"error,omitempty"`
}

// Error kinds carried on ERR payloads.
const (
	ErrorKindInternal           = "internal"
	ErrorKindUnreadableDocument = "unreadable_document"
)

type MessageType int

const (
	MessageTypeOther = iota
	MessageTypeContent
	MessageTypeCitations
	MessageTypeDocument
)

// DocumentSummary is the document report sent back over the stream:
// enough for the caller to address and describe the stored document.
type DocumentSummary struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Pages       int           `json:"pages"`
	Chunks      int           `json:"chunks"`
	TextLength  int           `json:"text_length"`
	SamplePages []PagePreview `json:"sample_pages,omitempty"`
}

// PagePreview is a short excerpt of a stored page.
type PagePreview struct {
	PageNumber int    `json:"page"`
	Preview    string `json:"preview"`
}

const (
	samplePageCount   = 3
	pagePreviewLength = 150
)

func SummarizeDocument(doc *api.Document) *DocumentSummary {
	s := &DocumentSummary{
		ID:         doc.ID,
		Name:       doc.Name,
		Pages:      doc.PageCount,
		Chunks:     len(doc.Chunks),
		TextLength: doc.FullTextLength,
	}

	for _, p := range doc.Pages[:min(samplePageCount, len(doc.Pages))] {
		preview := p.Content
		if len(preview) > pagePreviewLength {
			cut := pagePreviewLength
			for cut > 0 && !utf8.RuneStart(preview[cut]) {
				cut--
			}
			preview = preview[:cut]
		}
		s.SamplePages = append(s.SamplePages, PagePreview{
			PageNumber: p.PageNumber,
			Preview:    preview + "...",
		})
	}

	return s
}

type RequestTrace struct {
	ID          string `redis:"id"`
	Status      int    `redis:"status"`
	StartedAt   int64  `redis:"started_at"`
	CompletedAt int64  `redis:"completed_at"`
	Query       string `redis:"query"`
	DocumentID  string `redis:"document_id"`
}

type TraceStatus int

const (
	TraceStatusUnspecified = iota
	TraceStatusRunning
	TraceStatusCompleted
	TraceStatusFailed
)

