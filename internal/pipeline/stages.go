package pipeline

import (
	"context"

	"github.com/docrag/docrag/internal/document"
)

// PortIn and PortOut are the conventional single-port names.
const (
	PortIn  = "in"
	PortOut = "out"
)

// funcStage adapts a function to the Stage interface.
type funcStage struct {
	name    string
	inputs  []string
	outputs []string
	run     func(ctx context.Context, in map[string][]document.Document) (map[string][]document.Document, error)
}

func (s *funcStage) Name() string      { return s.name }
func (s *funcStage) Inputs() []string  { return s.inputs }
func (s *funcStage) Outputs() []string { return s.outputs }
func (s *funcStage) Run(ctx context.Context, in map[string][]document.Document) (map[string][]document.Document, error) {
	return s.run(ctx, in)
}

// Source creates a stage with no inputs that emits the result of fn on "out".
func Source(name string, fn func(ctx context.Context) ([]document.Document, error)) Stage {
	return &funcStage{
		name:    name,
		outputs: []string{PortOut},
		run: func(ctx context.Context, _ map[string][]document.Document) (map[string][]document.Document, error) {
			docs, err := fn(ctx)
			if err != nil {
				return nil, err
			}
			return map[string][]document.Document{PortOut: docs}, nil
		},
	}
}

// Transform creates a single-input single-output stage.
func Transform(name string, fn func(ctx context.Context, docs []document.Document) ([]document.Document, error)) Stage {
	return &funcStage{
		name:    name,
		inputs:  []string{PortIn},
		outputs: []string{PortOut},
		run: func(ctx context.Context, in map[string][]document.Document) (map[string][]document.Document, error) {
			docs, err := fn(ctx, in[PortIn])
			if err != nil {
				return nil, err
			}
			return map[string][]document.Document{PortOut: docs}, nil
		},
	}
}

// Sink creates a terminal stage that consumes documents for side effects.
func Sink(name string, fn func(ctx context.Context, docs []document.Document) error) Stage {
	return &funcStage{
		name:   name,
		inputs: []string{PortIn},
		run: func(ctx context.Context, in map[string][]document.Document) (map[string][]document.Document, error) {
			return nil, fn(ctx, in[PortIn])
		},
	}
}

// Union merges every batch arriving on its input port into one output batch.
// The merge is order-insensitive and does not deduplicate; connect several
// branches to its "in" port to reconverge them.
func Union(name string) Stage {
	return Transform(name, func(_ context.Context, docs []document.Document) ([]document.Document, error) {
		return docs, nil
	})
}
