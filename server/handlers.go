package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/provider"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/tasks"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/transport"
)

type chatRequest struct {
	Message    string `json:"message"`
	DocumentID string `json:"documentId"`
	TopK       int    `json:"topK,omitempty"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadSize)

	file, header, err := r.FormFile("pdf")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no PDF file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}
	slog.Debug("received upload request", "name", header.Filename, "size", len(data))

	t, err := tasks.NewIngestTask(header.Filename, data)
	if err != nil {
		slog.Error(err.Error())
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	info, err := s.asynqClient.Enqueue(t)
	if err != nil {
		slog.Error(err.Error())
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	slog.Info("enqueued task successfully", "id", info.ID)

	tstream, err := s.transport.GetMessageStream(info.ID)
	if err != nil {
		slog.Error("failed to retrieve stream", "id", info.ID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	res, err := collectMessageStream(r.Context(), info.ID, tstream)
	if err != nil {
		var werr *workerError
		if errors.As(err, &werr) && werr.Kind == transport.ErrorKindUnreadableDocument {
			writeError(w, http.StatusBadRequest, "PDF is empty or unreadable")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to process PDF")
		return
	}
	if res.Document == nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"documentId":  res.Document.ID,
		"totalPages":  res.Document.Pages,
		"totalChunks": res.Document.Chunks,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" || req.DocumentID == "" {
		writeError(w, http.StatusBadRequest, "message and documentId are required")
		return
	}
	slog.Debug("received chat request", "query", req.Message, "document", req.DocumentID)

	t, err := tasks.NewQueryTask(req.Message, req.DocumentID, req.TopK)
	if err != nil {
		slog.Error(err.Error())
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	info, err := s.asynqClient.Enqueue(t)
	if err != nil {
		slog.Error(err.Error())
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	slog.Info("enqueued task successfully", "id", info.ID)

	tstream, err := s.transport.GetMessageStream(info.ID)
	if err != nil {
		slog.Error("failed to retrieve stream", "id", info.ID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	res, err := collectMessageStream(r.Context(), info.ID, tstream)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate answer")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"response":  res.Content,
		"citations": res.Citations,
	})
}

func (s *Server) handleDocumentInfo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "document id is required")
		return
	}

	t, err := tasks.NewInfoTask(id)
	if err != nil {
		slog.Error(err.Error())
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	info, err := s.asynqClient.Enqueue(t)
	if err != nil {
		slog.Error(err.Error())
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	tstream, err := s.transport.GetMessageStream(info.ID)
	if err != nil {
		slog.Error("failed to retrieve stream", "id", info.ID)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	res, err := collectMessageStream(r.Context(), info.ID, tstream)
	if err != nil || res.Document == nil {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}

	samplePages := make([]map[string]any, 0, len(res.Document.SamplePages))
	for _, p := range res.Document.SamplePages {
		samplePages = append(samplePages, map[string]any{
			"page":    p.PageNumber,
			"preview": p.Preview,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"documentId":  res.Document.ID,
		"name":        res.Document.Name,
		"totalPages":  res.Document.Pages,
		"totalChunks": res.Document.Chunks,
		"textLength":  res.Document.TextLength,
		"samplePages": samplePages,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.rdb.Ping(r.Context()).Err(); err != nil {
		writeError(w, http.StatusServiceUnavailable, "redis unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"backend":  "running",
		"provider": provider.Health(s.generator),
	})
}
