package depgraph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/crofthq/croft/internal/kv"
)

// GraphKey is the fixed key under which the full graph document lives.
const GraphKey = "depgraph"

// Store is the data-access layer over the persisted graph document. It
// performs no validation; callers own acyclicity.
type Store struct {
	kv kv.Store
}

// NewStore wraps a key/value store.
func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// Load reads and decodes the full graph. An absent document yields an empty
// graph.
func (s *Store) Load(ctx context.Context) (Graph, error) {
	data, err := s.kv.Get(ctx, GraphKey)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return Graph{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dependency graph: %w", err)
	}
	return decode(data)
}

// Save overwrites the full graph document. No partial or merge semantics.
func (s *Store) Save(ctx context.Context, g Graph) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dependency graph: %w", err)
	}
	if err := s.kv.Set(ctx, GraphKey, data); err != nil {
		return fmt.Errorf("failed to save dependency graph: %w", err)
	}
	return nil
}

// Update applies fn to the graph as one read-modify-write unit. The
// modified graph is written in full, or not at all.
func (s *Store) Update(ctx context.Context, fn func(Graph) error) error {
	return s.kv.Update(ctx, GraphKey, func(current []byte) ([]byte, error) {
		g := Graph{}
		if current != nil {
			var err error
			if g, err = decode(current); err != nil {
				return nil, err
			}
		}
		if err := fn(g); err != nil {
			return nil, err
		}
		return json.MarshalIndent(g, "", "  ")
	})
}

func decode(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("dependency graph document corrupted: %w", err)
	}
	if g == nil {
		g = Graph{}
	}
	return g, nil
}
