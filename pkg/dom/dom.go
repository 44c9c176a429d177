// Package dom defines the live document surface the reconciler mutates.
//
// The vdom engine never creates or inspects document nodes directly. It asks a
// Document for new nodes and drives them through the Node, Element and Text
// interfaces below. Any host that can satisfy these interfaces (a browser
// bridge, a terminal canvas, the in-memory memdom package) can be rendered to.
//
// Implementations must return the same Node value for the same underlying
// node on every call, since the engine keys its history by node identity.
package dom

// Document creates live nodes.
type Document interface {
	CreateElement(tag string) Element
	CreateTextNode(data string) Text
}

// Node is a node in the live document tree.
type Node interface {
	OwnerDocument() Document
	ParentNode() Node
	FirstChild() Node
	NextSibling() Node
	ChildNodes() []Node

	AppendChild(child Node)
	// InsertBefore inserts child before ref. A nil ref appends.
	InsertBefore(child, ref Node)
	// Remove detaches the node from its parent. Removing a detached node is a no-op.
	Remove()
}

// Element is a host element node.
type Element interface {
	Node

	TagName() string
	SetAttribute(name, value string)
	RemoveAttribute(name string)
	// SetProperty sets a live property such as value or checked.
	SetProperty(name string, value any)
	AddEventListener(event string, l *Listener)
	RemoveEventListener(event string, l *Listener)
}

// Text is a text node.
type Text interface {
	Node

	Data() string
	SetData(data string)
}

// Event is delivered to listeners.
type Event struct {
	Type   string
	Target Node
	// Value carries the input value for input/change events.
	Value string
}

// Listener wraps an event callback. Listeners are compared by pointer, so the
// same *Listener must be passed to remove what was added.
type Listener struct {
	fn func(Event)
}

// NewListener wraps fn.
func NewListener(fn func(Event)) *Listener {
	return &Listener{fn: fn}
}

// Handle invokes the callback. A nil listener does nothing.
func (l *Listener) Handle(e Event) {
	if l == nil || l.fn == nil {
		return
	}
	l.fn(e)
}
