// Package render walks a content tree and dispatches every node to the
// handler registered for its type.
//
// Backends (see the html and term subpackages) supply one Handler per node
// type. Nodes without a handler produce nothing. A handler that fails, by
// returning an error or by panicking, loses its whole subtree, while its
// siblings render normally. Failures are kept as Faults so callers can
// decide whether partial output is acceptable.
package render

import (
	"fmt"

	"github.com/henri123lemoine/quire/internal/content"
	"github.com/henri123lemoine/quire/internal/debug"
)

// Handler renders one node. Container handlers render their children
// through r.Children.
type Handler func(r *Renderer, path string, n content.Node) (string, error)

// Handlers maps node types to handlers.
type Handlers map[content.Type]Handler

// Fault describes a node whose output was dropped.
type Fault struct {
	Path string
	Type content.Type
	Err  error
}

func (f Fault) Error() string {
	return fmt.Sprintf("node %s (%s): %v", f.Path, f.Type, f.Err)
}

func (f Fault) Unwrap() error {
	return f.Err
}

// Renderer dispatches nodes to handlers. It is not safe for concurrent use.
type Renderer struct {
	handlers Handlers
	faults   []Fault
}

// New creates a renderer over the given handlers.
func New(handlers Handlers) *Renderer {
	return &Renderer{handlers: handlers}
}

// Supports reports whether a handler is registered for t.
func (r *Renderer) Supports(t content.Type) bool {
	_, ok := r.handlers[t]
	return ok
}

// Render renders a top-level node list. Faults from a previous call are
// discarded.
func (r *Renderer) Render(nodes []content.Node) []string {
	r.faults = nil
	return r.Nodes("", nodes)
}

// Nodes renders the siblings below parent, one fragment per rendered node,
// in source order.
func (r *Renderer) Nodes(parent string, nodes []content.Node) []string {
	out := make([]string, 0, len(nodes))
	for i, n := range nodes {
		if s, ok := r.Node(content.JoinPath(parent, i), n); ok {
			out = append(out, s)
		}
	}
	return out
}

// Children renders the children of the node at path.
func (r *Renderer) Children(path string, n content.Node) []string {
	return r.Nodes(path, n.Content)
}

// Node renders a single node. ok is false when the type is unsupported or
// the handler failed.
func (r *Renderer) Node(path string, n content.Node) (out string, ok bool) {
	h, found := r.handlers[n.Type]
	if !found {
		return "", false
	}

	defer func() {
		if v := recover(); v != nil {
			r.fault(path, n.Type, fmt.Errorf("panic: %v", v))
			out, ok = "", false
		}
	}()

	s, err := h(r, path, n)
	if err != nil {
		r.fault(path, n.Type, err)
		return "", false
	}
	return s, true
}

func (r *Renderer) fault(path string, t content.Type, err error) {
	r.faults = append(r.faults, Fault{Path: path, Type: t, Err: err})
	debug.Fault(path, string(t), err)
}

// Faults returns the failures recorded since the last Render.
func (r *Renderer) Faults() []Fault {
	out := make([]Fault, len(r.faults))
	copy(out, r.faults)
	return out
}
