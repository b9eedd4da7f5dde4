package cohere

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
	coherecore "github.com/cohere-ai/cohere-go/v2/core"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/api"
)

const defaultModel = "command-r-08-2024"

type CohereProvider struct {
	client *cohereclient.Client
}

func New() *CohereProvider {
	c := cohereclient.NewClient(
		cohereclient.WithToken(os.Getenv("COHERE_API_KEY")),
		cohereclient.WithHTTPClient(
			&http.Client{
				Timeout: 60 * time.Second,
			},
		),
	)
	return &CohereProvider{
		client: c,
	}
}

func (p CohereProvider) Generate(ctx context.Context, req api.GenerationRequest) (api.CompletionStream, error) {
	temp := float64(req.Temperature)
	cohereReq := &cohere.V2ChatStreamRequest{
		Model:       defaultModel,
		Temperature: &temp,
	}

	if req.ModelName != "" {
		cohereReq.Model = req.ModelName
	}
	if req.MaxTokens > 0 {
		maxTokens := req.MaxTokens
		cohereReq.MaxTokens = &maxTokens
	}

	cohereReq.Messages = append(cohereReq.Messages, &cohere.ChatMessageV2{
		Role: "user",
		User: &cohere.UserMessage{Content: &cohere.UserMessageContent{
			String: req.Prompt,
		}},
	})

	stream, err := p.client.V2.ChatStream(ctx, cohereReq)
	if err != nil {
		return nil, fmt.Errorf("chat streaming request failed: %w", err)
	}

	return &CohereCompletionStream{stream: stream}, nil
}

type CohereCompletionStream struct {
	stream *coherecore.Stream[cohere.StreamedChatResponseV2]
}

func (s CohereCompletionStream) Recv() (string, error) {
	for {
		resp, err := s.stream.Recv()
		if err != nil {
			return "", err
		}

		if resp.ContentDelta != nil {
			return *resp.ContentDelta.Delta.Message.Content.Text, nil
		}
	}
}

func (s CohereCompletionStream) Close() error {
	return s.stream.Close()
}
