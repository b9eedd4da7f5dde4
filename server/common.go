package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/transport"
)

// streamResult is a fully drained worker message stream, folded into the
// pieces the JSON handlers respond with.
type streamResult struct {
	Content   string
	Citations []int
	Document  *transport.DocumentSummary
}

// collectMessageStream reads a worker's message stream until it reports
// DONE, accumulating content chunks, citations and document summaries.
// Transient read failures are retried a bounded number of times.
func collectMessageStream(ctx context.Context, traceID string, tstream transport.MessageStream) (*streamResult, error) {
	res := &streamResult{
		Citations: []int{},
	}
	var content strings.Builder

	readFails := 0
	for {
		msg, err := tstream.Recv(ctx)

		if err != nil {
			slog.Warn("failed to read from stream", "stream", traceID)
			readFails += 1
			if readFails >= 10 {
				slog.Error("exceeded stream read attempts, failed", "id", traceID)
				return nil, errStreamFailed
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}
		readFails = 0

		switch msg.Status {
		case "ERR":
			return nil, &workerError{Kind: msg.Error}
		case "DONE":
			slog.Debug("message stream done", "trace", traceID)
			res.Content = content.String()
			return res, nil
		}

		switch msg.Type {
		case transport.MessageTypeContent:
			content.WriteString(msg.Content)
		case transport.MessageTypeCitations:
			res.Citations = msg.Citations
		case transport.MessageTypeDocument:
			res.Document = msg.Document
		}
	}
}

var errStreamFailed = errors.New("message stream failed")

// workerError is a task failure reported over the message stream, carrying
// the worker's error kind.
type workerError struct {
	Kind string
}

func (e *workerError) Error() string {
	if e.Kind == "" {
		return "task failed"
	}
	return "task failed: " + e.Kind
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}
