package llm

import (
	"context"
	"sync"
)

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	mu sync.Mutex

	Response   string
	Err        error
	Embeddings [][]float32
	EmbedErr   error

	Prompts []string
	Inputs  [][]string
}

func (m *MockClient) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	return m.Response, m.Err
}

// Embed devuelve Embeddings en orden; si hay menos vectores que textos repite el ultimo.
func (m *MockClient) Embed(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inputs = append(m.Inputs, texts)
	if m.EmbedErr != nil {
		return nil, m.EmbedErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		switch {
		case i < len(m.Embeddings):
			out[i] = m.Embeddings[i]
		case len(m.Embeddings) > 0:
			out[i] = m.Embeddings[len(m.Embeddings)-1]
		}
	}
	return out, nil
}
