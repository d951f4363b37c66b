package service

import (
	"math/rand"
	"sync"
)

// RandomSource produce valores uniformes en [0, 1). *rand.Rand la satisface.
type RandomSource interface {
	Float64() float64
}

type entropySource struct{}

func (entropySource) Float64() float64 { return rand.Float64() }

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// NewRandomSource devuelve una fuente segura para uso concurrente.
// seed == 0 usa la fuente global del runtime; cualquier otro valor es reproducible.
func NewRandomSource(seed int64) RandomSource {
	if seed == 0 {
		return entropySource{}
	}
	return &lockedSource{r: rand.New(rand.NewSource(seed))} //nolint:gosec // not security sensitive
}

// intInBand devuelve un entero en [lo, hi).
func intInBand(r RandomSource, lo, hi int) int {
	return lo + int(r.Float64()*float64(hi-lo))
}
