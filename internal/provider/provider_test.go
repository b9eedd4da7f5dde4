package provider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/api"
	"github.com/Sanmukapriya/NotebookLM-Clone/internal/provider"
)

type plainGenerator struct{}

func (plainGenerator) Generate(ctx context.Context, req api.GenerationRequest) (api.CompletionStream, error) {
	return nil, errors.New("not implemented")
}

type probingGenerator struct {
	plainGenerator
	reachable bool
}

func (g probingGenerator) Reachable() bool {
	return g.reachable
}

func TestHealth(t *testing.T) {
	cases := []struct {
		name string
		g    provider.Generator
		want string
	}{
		{"reachable probe", probingGenerator{reachable: true}, provider.HealthConnected},
		{"unreachable probe", probingGenerator{reachable: false}, provider.HealthDisconnected},
		{"no probe", plainGenerator{}, provider.HealthUnknown},
		{"nil generator", nil, provider.HealthUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := provider.Health(tc.g); got != tc.want {
				t.Errorf("Health() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNewGeneratorUnknownName(t *testing.T) {
	_, err := provider.NewGenerator("mystery")
	if !errors.Is(err, provider.ErrInvalidGeneratorType) {
		t.Errorf("expected invalid generator type error, got %v", err)
	}
}
