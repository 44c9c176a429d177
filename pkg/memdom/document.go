package memdom

import (
	"fmt"

	"github.com/vango-dev/vdomkit/pkg/dom"
)

// Document is an in-memory dom.Document that records every mutation.
// It is not safe for concurrent use.
type Document struct {
	nextID uint32
	nodes  map[uint32]dom.Node
	log    []Mutation
}

var _ dom.Document = (*Document)(nil)

// New returns an empty document.
func New() *Document {
	return &Document{nodes: make(map[uint32]dom.Node)}
}

// CreateElement implements dom.Document.
func (d *Document) CreateElement(tag string) dom.Element {
	e := &Element{tag: tag}
	e.init(d, e)
	d.record(Mutation{Op: OpCreateElement, Target: e.id, Name: tag})
	return e
}

// CreateTextNode implements dom.Document.
func (d *Document) CreateTextNode(data string) dom.Text {
	t := &Text{data: data}
	t.init(d, t)
	d.record(Mutation{Op: OpCreateText, Target: t.id, Value: data})
	return t
}

// NodeByID returns the attached or pending node with the given ID.
func (d *Document) NodeByID(id uint32) (dom.Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// Mutations returns the log recorded since the last Drain without clearing it.
func (d *Document) Mutations() []Mutation {
	out := make([]Mutation, len(d.log))
	copy(out, d.log)
	return out
}

// Drain returns the recorded log and resets it.
func (d *Document) Drain() []Mutation {
	out := d.log
	d.log = nil
	return out
}

// Dispatch delivers e to the listeners registered on target for e.Type.
// Listeners added or removed while dispatching take effect on the next event.
func (d *Document) Dispatch(target dom.Node, e dom.Event) error {
	el, ok := target.(*Element)
	if !ok || el.doc != d {
		return fmt.Errorf("memdom: dispatch target %v is not an element of this document", target)
	}
	e.Target = el
	listeners := append([]*dom.Listener(nil), el.listeners[e.Type]...)
	for _, l := range listeners {
		l.Handle(e)
	}
	return nil
}

// ID returns the document ID of n, or 0 for nodes from another implementation.
func ID(n dom.Node) uint32 {
	switch v := n.(type) {
	case *Element:
		return v.id
	case *Text:
		return v.id
	}
	return 0
}

func (d *Document) record(m Mutation) {
	d.log = append(d.log, m)
}

func (d *Document) register(n *treeNode) {
	d.nextID++
	n.id = d.nextID
	d.nodes[n.id] = n.self
}

func (d *Document) forget(n *treeNode) {
	delete(d.nodes, n.id)
	for _, c := range n.children {
		d.forget(c)
	}
}
