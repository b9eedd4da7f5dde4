package ollama

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/api"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/http"
)

const (
	Endpoint = "http://localhost:11434"

	defaultModel = "gemma3:1b"
)

type OllamaProvider struct {
	client       http.Client
	defaultModel string
}

type streamResponse struct {
	Model     string `json:"model"`
	CreatedAt string `json:"created_at"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
}

func New() *OllamaProvider {
	c := http.NewClient(
		Endpoint,
		http.WithMaxRetries(3),
	)
	p := &OllamaProvider{
		client:       c,
		defaultModel: defaultModel,
	}
	return p
}

func (p OllamaProvider) Generate(ctx context.Context, req api.GenerationRequest) (api.CompletionStream, error) {
	model := p.defaultModel
	if req.ModelName != "" {
		model = req.ModelName
	}

	options := map[string]any{
		"temperature":    req.Temperature,
		"top_p":          0.8,
		"top_k":          30,
		"repeat_penalty": 1.2,
	}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}

	requestData := map[string]any{
		"model":   model,
		"prompt":  req.Prompt,
		"options": options,
	}

	respBody, err := p.client.RequestStream(http.MethodPost, "/api/generate", requestData)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}

	return NewOllamaCompletionStream(respBody), nil
}

// Reachable reports whether the local Ollama daemon answers.
func (p OllamaProvider) Reachable() bool {
	_, err := p.client.Request(http.MethodGet, "/api/tags", nil)
	return err == nil
}

type OllamaCompletionStream struct {
	body   io.ReadCloser
	reader *bufio.Reader
}

func NewOllamaCompletionStream(body io.ReadCloser) *OllamaCompletionStream {
	return &OllamaCompletionStream{
		body:   body,
		reader: bufio.NewReader(body),
	}
}

func (s OllamaCompletionStream) Recv() (string, error) {
	line, err := s.reader.ReadBytes('\n')
	if err != nil {
		return "", err
	}

	var response streamResponse
	err = json.Unmarshal(line, &response)
	if err != nil {
		return "", fmt.Errorf("failed to deserialize stream response: %w", err)
	}

	return response.Response, nil
}

func (s OllamaCompletionStream) Close() error {
	return s.body.Close()
}
