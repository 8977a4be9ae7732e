package insights

import (
	"context"
	"sync"
)

type GeneratorStub struct {
	mu       sync.Mutex
	result   Insights
	err      error
	payloads []string
}

func NewGeneratorStub(result Insights) *GeneratorStub {
	return &GeneratorStub{result: result}
}

func (g *GeneratorStub) Generate(ctx context.Context, payload string) (Insights, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.payloads = append(g.payloads, payload)
	if g.err != nil {
		return Insights{}, g.err
	}
	return g.result, nil
}

func (g *GeneratorStub) SetError(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

func (g *GeneratorStub) Payloads() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	result := make([]string, len(g.payloads))
	copy(result, g.payloads)
	return result
}
