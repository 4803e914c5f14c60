package rtti

import (
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/topo"
)

// Global is the process-wide registry. The built-in descriptors are
// registered during package initialization; packages that define types
// register them from their own init functions.
var Global = NewRegistry(nil)

// Registry maps names to descriptors. It only grows, and once sealed it only
// serves lookups.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Type
	types  []*Type
	sealed bool
	logger *slog.Logger
}

// NewRegistry returns an empty registry. A nil logger disables tracing.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		byName: map[string]*Type{},
		logger: logger,
	}
}

// SetLogger replaces the logger used to trace registrations.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register adds descriptors in order. Registering the same descriptor twice
// is a no-op; registering a different descriptor under a used name fails.
func (r *Registry) Register(types ...*Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrSealed
	}
	for _, t := range types {
		if existing, ok := r.byName[t.name]; ok {
			if existing == t {
				continue
			}
			return fmt.Errorf("%w: %s", ErrDuplicateType, t.name)
		}
		r.byName[t.name] = t
		r.types = append(r.types, t)
		if r.logger != nil {
			r.logger.Debug("registered type", "name", t.name, "kind", t.kind, "size", t.size)
		}
	}
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(types ...*Type) {
	if err := r.Register(types...); err != nil {
		panic(err)
	}
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := maps.Keys(r.byName)
	slices.Sort(names)
	return names
}

// Types returns the registered descriptors. After Seal the order places
// every type after the types it contains by value.
func (r *Registry) Types() []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.types)
}

// Sealed reports whether Seal has succeeded.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

type typeNode struct {
	t  *Type
	id int64
}

func (n *typeNode) ID() int64 {
	return n.id
}

// Seal orders the descriptors by layout dependency and stops further
// registration. It fails when a type contains itself by value, directly or
// through other types.
func (r *Registry) Seal() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return nil
	}

	g := multi.NewDirectedGraph()
	nodes := make(map[*Type]*typeNode, len(r.types))
	for i, t := range r.types {
		n := &typeNode{t: t, id: int64(i)}
		nodes[t] = n
		g.AddNode(n)
	}

	// A field stored by value must be laid out before the type holding it.
	for _, t := range r.types {
		for _, f := range t.fields {
			if f.IsPointer || f.Type == nil {
				continue
			}
			if f.Type == t {
				return fmt.Errorf("%w: [%s]", ErrLayoutCycle, t.name)
			}
			dep, ok := nodes[f.Type]
			if !ok {
				continue
			}
			g.SetLine(g.NewLine(dep, nodes[t]))
		}
	}

	// The sort emits the last visited node first, so visiting the newest
	// registrations first keeps independent types in registration order.
	sorted, err := topo.SortStabilized(g, func(ns []graph.Node) {
		slices.SortFunc(ns, func(a, b graph.Node) bool {
			return a.ID() > b.ID()
		})
	})
	if err != nil {
		var names []string
		if cycles, ok := err.(topo.Unorderable); ok {
			for _, cycle := range cycles {
				for _, n := range cycle {
					names = append(names, n.(*typeNode).t.name)
				}
			}
		}
		slices.Sort(names)
		return fmt.Errorf("%w: %v", ErrLayoutCycle, names)
	}

	r.types = r.types[:0]
	for _, n := range sorted {
		r.types = append(r.types, n.(*typeNode).t)
	}
	r.sealed = true
	if r.logger != nil {
		r.logger.Debug("sealed type registry", "types", len(r.types))
	}
	return nil
}
