package memdom

import (
	"fmt"
	"strconv"

	"github.com/vango-dev/vdomkit/pkg/dom"
)

// treeNode holds the tree links shared by elements and text nodes.
type treeNode struct {
	doc      *Document
	self     dom.Node
	id       uint32
	parent   *treeNode
	children []*treeNode
}

func (n *treeNode) init(d *Document, self dom.Node) {
	n.doc = d
	n.self = self
	d.register(n)
}

// ID returns the node's document ID.
func (n *treeNode) ID() uint32 { return n.id }

// OwnerDocument implements dom.Node.
func (n *treeNode) OwnerDocument() dom.Document { return n.doc }

// ParentNode implements dom.Node.
func (n *treeNode) ParentNode() dom.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent.self
}

// FirstChild implements dom.Node.
func (n *treeNode) FirstChild() dom.Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0].self
}

// NextSibling implements dom.Node.
func (n *treeNode) NextSibling() dom.Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[i+1].self
}

// ChildNodes implements dom.Node. The returned slice is a snapshot.
func (n *treeNode) ChildNodes() []dom.Node {
	out := make([]dom.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c.self
	}
	return out
}

// AppendChild implements dom.Node.
func (n *treeNode) AppendChild(child dom.Node) {
	c := n.adopt(child)
	n.children = append(n.children, c)
	n.doc.record(Mutation{Op: OpAppend, Target: n.id, Child: c.id})
}

// InsertBefore implements dom.Node.
func (n *treeNode) InsertBefore(child, ref dom.Node) {
	if ref == nil {
		n.AppendChild(child)
		return
	}
	r := n.doc.tree(ref)
	i := n.indexOf(r)
	if i < 0 {
		panic(fmt.Sprintf("memdom: reference node #%d is not a child of #%d", r.id, n.id))
	}
	c := n.adopt(child)
	// adopt may have removed c from this same parent.
	i = n.indexOf(r)
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = c
	n.doc.record(Mutation{Op: OpInsertBefore, Target: n.id, Child: c.id, Ref: r.id})
}

// Remove implements dom.Node.
func (n *treeNode) Remove() {
	if n.parent == nil {
		return
	}
	n.parent.detach(n)
	n.doc.forget(n)
	n.doc.record(Mutation{Op: OpRemove, Target: n.id})
}

func (n *treeNode) adopt(child dom.Node) *treeNode {
	c := n.doc.tree(child)
	if c.parent != nil {
		c.parent.detach(c)
	}
	c.parent = n
	n.doc.nodes[c.id] = c.self
	return c
}

func (n *treeNode) detach(c *treeNode) {
	i := n.indexOf(c)
	if i < 0 {
		return
	}
	n.children = append(n.children[:i], n.children[i+1:]...)
	c.parent = nil
}

func (n *treeNode) indexOf(c *treeNode) int {
	for i, x := range n.children {
		if x == c {
			return i
		}
	}
	return -1
}

func (d *Document) tree(n dom.Node) *treeNode {
	var t *treeNode
	switch v := n.(type) {
	case *Element:
		t = &v.treeNode
	case *Text:
		t = &v.treeNode
	default:
		panic(fmt.Sprintf("memdom: foreign node %T", n))
	}
	if t.doc != d {
		panic("memdom: node belongs to another document")
	}
	return t
}

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is an in-memory element.
type Element struct {
	treeNode
	tag       string
	attrs     []Attr
	props     map[string]any
	listeners map[string][]*dom.Listener
}

var _ dom.Element = (*Element)(nil)

// TagName implements dom.Element.
func (e *Element) TagName() string { return e.tag }

// SetAttribute implements dom.Element.
func (e *Element) SetAttribute(name, value string) {
	replaced := false
	for i := range e.attrs {
		if e.attrs[i].Name == name {
			e.attrs[i].Value = value
			replaced = true
			break
		}
	}
	if !replaced {
		e.attrs = append(e.attrs, Attr{Name: name, Value: value})
	}
	e.doc.record(Mutation{Op: OpSetAttr, Target: e.id, Name: name, Value: value})
}

// RemoveAttribute implements dom.Element.
func (e *Element) RemoveAttribute(name string) {
	for i := range e.attrs {
		if e.attrs[i].Name == name {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			break
		}
	}
	e.doc.record(Mutation{Op: OpRemoveAttr, Target: e.id, Name: name})
}

// Attribute returns the value of the named attribute.
func (e *Element) Attribute(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Attributes returns the element's attributes in insertion order.
func (e *Element) Attributes() []Attr {
	return append([]Attr(nil), e.attrs...)
}

// SetProperty implements dom.Element.
func (e *Element) SetProperty(name string, value any) {
	if e.props == nil {
		e.props = make(map[string]any)
	}
	e.props[name] = value
	e.doc.record(Mutation{Op: OpSetProperty, Target: e.id, Name: name, Value: formatProperty(value)})
}

// Property returns a live property set with SetProperty.
func (e *Element) Property(name string) any {
	return e.props[name]
}

// AddEventListener implements dom.Element. Adding the same listener twice
// for one event is a no-op.
func (e *Element) AddEventListener(event string, l *dom.Listener) {
	for _, x := range e.listeners[event] {
		if x == l {
			return
		}
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]*dom.Listener)
	}
	e.listeners[event] = append(e.listeners[event], l)
	e.doc.record(Mutation{Op: OpAddListener, Target: e.id, Name: event})
}

// RemoveEventListener implements dom.Element. Removing a listener that is
// not registered is a no-op.
func (e *Element) RemoveEventListener(event string, l *dom.Listener) {
	ls := e.listeners[event]
	for i, x := range ls {
		if x == l {
			e.listeners[event] = append(ls[:i], ls[i+1:]...)
			if len(e.listeners[event]) == 0 {
				delete(e.listeners, event)
			}
			e.doc.record(Mutation{Op: OpRemoveListener, Target: e.id, Name: event})
			return
		}
	}
}

// ListenerCount returns the number of listeners registered for event.
func (e *Element) ListenerCount(event string) int {
	return len(e.listeners[event])
}

// Text is an in-memory text node.
type Text struct {
	treeNode
	data string
}

var _ dom.Text = (*Text)(nil)

// Data implements dom.Text.
func (t *Text) Data() string { return t.data }

// SetData implements dom.Text.
func (t *Text) SetData(data string) {
	t.data = data
	t.doc.record(Mutation{Op: OpSetText, Target: t.id, Value: data})
}

func formatProperty(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
