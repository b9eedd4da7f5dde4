package gemini

import (
	"context"
	"io"
	"iter"
	"os"

	"google.golang.org/genai"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/api"
)

const defaultModel = "gemini-2.0-flash"

type GeminiProvider struct {
	client *genai.Client
}

func New() *GeminiProvider {
	c, _ := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	return &GeminiProvider{
		client: c,
	}
}

func (p GeminiProvider) Generate(ctx context.Context, req api.GenerationRequest) (api.CompletionStream, error) {
	config := &genai.GenerateContentConfig{
		Temperature: &req.Temperature,
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	modelName := defaultModel
	if req.ModelName != "" {
		modelName = req.ModelName
	}

	contents := genai.Text(req.Prompt)
	i := p.client.Models.GenerateContentStream(ctx, modelName, contents, config)

	next, stop := iter.Pull2(i)
	return &GeminiCompletionStream{
		next: next,
		stop: stop,
	}, nil
}

type GeminiCompletionStream struct {
	next func() (*genai.GenerateContentResponse, error, bool)
	stop func()
}

func (s GeminiCompletionStream) Recv() (string, error) {
	res, err, valid := s.next()
	if !valid {
		// iterator is finished
		return "", io.EOF
	}

	if err != nil {
		return "", err
	}

	return res.Text(), nil
}

func (s GeminiCompletionStream) Close() error {
	s.stop()
	return nil
}
