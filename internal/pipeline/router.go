package pipeline

import (
	"context"
	"fmt"

	"github.com/docrag/docrag/internal/document"
)

// PortOthers is the catch-all output port of a MetaRouter.
const PortOthers = "others"

// Op is a routing rule operator.
type Op string

const (
	OpEq Op = "=="
	OpNe Op = "!="
)

// Rule routes documents whose metadata field satisfies the comparison to
// the named output port.
type Rule struct {
	Field string
	Op    Op
	Value string
	Port  string
}

// Matches reports whether the rule applies to the document.
func (r Rule) Matches(doc document.Document) bool {
	v := doc.Meta[r.Field]
	switch r.Op {
	case OpNe:
		return v != r.Value
	default:
		return v == r.Value
	}
}

// MetaRouter partitions a document stream by metadata rules. Each document
// goes to the port of the first matching rule; documents matching no rule go
// to the mandatory "others" port.
type MetaRouter struct {
	name  string
	rules []Rule
}

// NewMetaRouter creates a metadata router.
func NewMetaRouter(name string, rules []Rule) *MetaRouter {
	return &MetaRouter{name: name, rules: rules}
}

func (r *MetaRouter) Name() string     { return r.name }
func (r *MetaRouter) Inputs() []string { return []string{PortIn} }

func (r *MetaRouter) Outputs() []string {
	ports := make([]string, 0, len(r.rules)+1)
	for _, rule := range r.rules {
		ports = append(ports, rule.Port)
	}
	return append(ports, PortOthers)
}

func (r *MetaRouter) Run(_ context.Context, in map[string][]document.Document) (map[string][]document.Document, error) {
	out := make(map[string][]document.Document)
	for _, doc := range in[PortIn] {
		port := PortOthers
		for _, rule := range r.rules {
			if rule.Matches(doc) {
				port = rule.Port
				break
			}
		}
		out[port] = append(out[port], doc)
	}
	return out, nil
}

// TypeRouter partitions documents by their file_type discriminator into one
// port per accepted type. A document with an unlisted type is a terminal
// condition reported to the caller, not silently dropped.
type TypeRouter struct {
	name  string
	types []string
}

// NewTypeRouter creates a file-type router with one output port per type.
func NewTypeRouter(name string, types []string) *TypeRouter {
	return &TypeRouter{name: name, types: types}
}

func (r *TypeRouter) Name() string      { return r.name }
func (r *TypeRouter) Inputs() []string  { return []string{PortIn} }
func (r *TypeRouter) Outputs() []string { return r.types }

func (r *TypeRouter) Run(_ context.Context, in map[string][]document.Document) (map[string][]document.Document, error) {
	out := make(map[string][]document.Document)
	for _, doc := range in[PortIn] {
		ft := doc.Meta[document.MetaFileType]
		if !contains(r.types, ft) {
			return nil, fmt.Errorf("unroutable file type %q", ft)
		}
		out[ft] = append(out[ft], doc)
	}
	return out, nil
}
