// Package provider abstracts the text-generation collaborators the answer
// pipeline can stream completions from.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/api"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/provider/cohere"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/provider/gemini"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/provider/ollama"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/provider/openai"
)

var (
	ErrInvalidGeneratorType     = errors.New("no generator found for given type")
	ErrFailedGeneratorInitalize = errors.New("failed to initialise generator")
)

const (
	GeneratorTypeOllama = iota
	GeneratorTypeOpenAI
	GeneratorTypeGemini
	GeneratorTypeCohere
)

var generatorTypeMap = map[string]GeneratorType{
	"ollama": GeneratorTypeOllama,
	"openai": GeneratorTypeOpenAI,
	"gemini": GeneratorTypeGemini,
	"cohere": GeneratorTypeCohere,
}

type GeneratorType int

// Generator streams a model completion for a fully rendered prompt.
type Generator interface {
	Generate(ctx context.Context, req api.GenerationRequest) (api.CompletionStream, error)
}

// HealthChecker is implemented by generators that can probe their backing
// service without issuing a completion.
type HealthChecker interface {
	Reachable() bool
}

// Health status values reported for a generator's backing service.
const (
	HealthConnected    = "connected"
	HealthDisconnected = "disconnected"
	HealthUnknown      = "unknown"
)

// Health reports the connectivity of a generator's backing service.
// Generators without a probe report unknown.
func Health(g Generator) string {
	hc, ok := g.(HealthChecker)
	if !ok {
		return HealthUnknown
	}
	if hc.Reachable() {
		return HealthConnected
	}
	return HealthDisconnected
}

func NewGenerator(name string) (Generator, error) {
	generatorType, ok := generatorTypeMap[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidGeneratorType, name)
	}

	switch generatorType {
	case GeneratorTypeOllama:
		return ollama.New(), nil
	case GeneratorTypeOpenAI:
		return openai.New(), nil
	case GeneratorTypeGemini:
		return gemini.New(), nil
	case GeneratorTypeCohere:
		return cohere.New(), nil
	default:
		return nil, ErrInvalidGeneratorType
	}
}
