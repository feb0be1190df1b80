// Package pipeline provides a small typed-port DAG engine for document
// processing. Stages are held in an arena indexed by position with an
// explicit edge list, so the whole wiring can be validated before anything
// runs: every required input port must be connected and the graph must be
// acyclic.
package pipeline

import (
	"context"
	"fmt"

	"github.com/docrag/docrag/internal/document"
)

// Stage is a named processing node with typed input and output ports.
type Stage interface {
	Name() string
	// Inputs lists required input ports. A stage with no inputs is a source.
	Inputs() []string
	// Outputs lists the ports the stage may emit on.
	Outputs() []string
	// Run consumes one batch per input port and produces batches keyed by
	// output port. Missing output ports mean "nothing emitted there".
	Run(ctx context.Context, in map[string][]document.Document) (map[string][]document.Document, error)
}

type edge struct {
	from, to         int
	fromPort, toPort string
}

// Graph is a static DAG of stages.
type Graph struct {
	stages []Stage
	byName map[string]int
	edges  []edge
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{byName: make(map[string]int)}
}

// Add registers a stage and returns its node index.
func (g *Graph) Add(s Stage) error {
	if _, dup := g.byName[s.Name()]; dup {
		return fmt.Errorf("pipeline: duplicate stage name %q", s.Name())
	}
	g.byName[s.Name()] = len(g.stages)
	g.stages = append(g.stages, s)
	return nil
}

// Connect wires an output port of one stage to an input port of another.
// Multiple edges may target the same input port; their batches are
// concatenated in arrival order.
func (g *Graph) Connect(from, fromPort, to, toPort string) error {
	fi, ok := g.byName[from]
	if !ok {
		return fmt.Errorf("pipeline: unknown stage %q", from)
	}
	ti, ok := g.byName[to]
	if !ok {
		return fmt.Errorf("pipeline: unknown stage %q", to)
	}
	if !contains(g.stages[fi].Outputs(), fromPort) {
		return fmt.Errorf("pipeline: stage %q has no output port %q", from, fromPort)
	}
	if !contains(g.stages[ti].Inputs(), toPort) {
		return fmt.Errorf("pipeline: stage %q has no input port %q", to, toPort)
	}
	g.edges = append(g.edges, edge{from: fi, to: ti, fromPort: fromPort, toPort: toPort})
	return nil
}

// Validate checks that every required input port of every stage is connected
// and that the graph is acyclic.
func (g *Graph) Validate() error {
	connected := make(map[int]map[string]bool)
	for _, e := range g.edges {
		if connected[e.to] == nil {
			connected[e.to] = make(map[string]bool)
		}
		connected[e.to][e.toPort] = true
	}
	for i, s := range g.stages {
		for _, port := range s.Inputs() {
			if !connected[i][port] {
				return fmt.Errorf("pipeline: input port %s.%s is not connected", s.Name(), port)
			}
		}
	}

	if _, err := g.topoOrder(); err != nil {
		return err
	}
	return nil
}

// topoOrder returns a topological ordering of node indices (Kahn's algorithm).
func (g *Graph) topoOrder() ([]int, error) {
	indegree := make([]int, len(g.stages))
	for _, e := range g.edges {
		indegree[e.to]++
	}

	var queue []int
	for i := range g.stages {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	var order []int
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, e := range g.edges {
			if e.from != n {
				continue
			}
			indegree[e.to]--
			if indegree[e.to] == 0 {
				queue = append(queue, e.to)
			}
		}
	}

	if len(order) != len(g.stages) {
		return nil, fmt.Errorf("pipeline: graph contains a cycle")
	}
	return order, nil
}

// Run validates the graph and executes every stage in topological order.
// It returns the batches emitted on output ports that have no outgoing
// edge, keyed "stage.port".
func (g *Graph) Run(ctx context.Context) (map[string][]document.Document, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	order, err := g.topoOrder()
	if err != nil {
		return nil, err
	}

	hasConsumer := make(map[string]bool)
	for _, e := range g.edges {
		hasConsumer[portKey(g.stages[e.from].Name(), e.fromPort)] = true
	}

	// inputs[node][port] accumulates batches delivered over edges.
	inputs := make([]map[string][]document.Document, len(g.stages))
	for i := range inputs {
		inputs[i] = make(map[string][]document.Document)
	}

	terminal := make(map[string][]document.Document)
	for _, n := range order {
		stage := g.stages[n]
		out, err := stage.Run(ctx, inputs[n])
		if err != nil {
			return nil, fmt.Errorf("pipeline: stage %q: %w", stage.Name(), err)
		}

		for port, docs := range out {
			key := portKey(stage.Name(), port)
			if !hasConsumer[key] {
				terminal[key] = append(terminal[key], docs...)
				continue
			}
			for _, e := range g.edges {
				if e.from == n && e.fromPort == port {
					inputs[e.to][e.toPort] = append(inputs[e.to][e.toPort], docs...)
				}
			}
		}
	}
	return terminal, nil
}

func portKey(stage, port string) string { return stage + "." + port }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
