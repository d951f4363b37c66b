package service

import (
	"testing"

	"careerpath/internal/catalog"
)

// seqSource repite una secuencia fija de valores.
type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func constSource(v float64) *seqSource {
	return &seqSource{vals: []float64{v}}
}

func mustCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c
}
