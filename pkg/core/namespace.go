package core

// Constructor builds one controller instance. It runs exactly once per scan.
type Constructor func() (Controller, error)

// Of wraps an already-built controller.
func Of(c Controller) Constructor {
	return func() (Controller, error) { return c, nil }
}

type controllerEntry struct {
	name string
	ctor Constructor
}

// Namespace is the registration tree the Scanner walks. Controllers are
// declared explicitly; nothing is discovered by reflection.
type Namespace struct {
	name        string
	parent      *Namespace
	controllers []controllerEntry
	children    []*Namespace
}

func NewNamespace(name string) *Namespace {
	return &Namespace{name: name}
}

// Controller declares a controller in this namespace and returns the
// namespace for chaining.
func (n *Namespace) Controller(name string, ctor Constructor) *Namespace {
	n.controllers = append(n.controllers, controllerEntry{name: name, ctor: ctor})
	return n
}

// Child returns the named sub-namespace, creating it on first use.
func (n *Namespace) Child(name string) *Namespace {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	c := &Namespace{name: name, parent: n}
	n.children = append(n.children, c)
	return c
}

func (n *Namespace) Name() string { return n.name }

// Path is the slash-joined chain of names from the root.
func (n *Namespace) Path() string {
	if n.parent == nil {
		return n.name
	}
	return n.parent.Path() + "/" + n.name
}

// walk visits this node's controllers, then its children, depth-first.
func (n *Namespace) walk(fn func(ns *Namespace, e controllerEntry)) {
	for _, e := range n.controllers {
		fn(n, e)
	}
	for _, c := range n.children {
		c.walk(fn)
	}
}
