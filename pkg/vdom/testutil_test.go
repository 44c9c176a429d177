package vdom

import (
	"testing"

	"github.com/vango-dev/vdomkit/pkg/dom"
	"github.com/vango-dev/vdomkit/pkg/memdom"
)

// fixture is a fresh document, container and renderer.
type fixture struct {
	doc  *memdom.Document
	root *memdom.Element
	r    *Renderer
}

func newFixture(t *testing.T, opts ...RendererOption) *fixture {
	t.Helper()
	doc := memdom.New()
	root := doc.CreateElement("main").(*memdom.Element)
	doc.Drain()
	return &fixture{doc: doc, root: root, r: NewRenderer(opts...)}
}

// render reconciles v into the root and returns the mutations it caused.
func (f *fixture) render(t *testing.T, v *VNode) []memdom.Mutation {
	t.Helper()
	if err := f.r.Render(v, f.root); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	return f.doc.Drain()
}

func (f *fixture) html() string {
	return memdom.InnerHTML(f.root)
}

func (f *fixture) first() dom.Node {
	return f.root.FirstChild()
}

// recorder collects lifecycle events in call order.
type recorder struct {
	events []string
}

func (r *recorder) add(e string) {
	r.events = append(r.events, e)
}

func (r *recorder) reset() {
	r.events = nil
}

func (r *recorder) count(e string) int {
	n := 0
	for _, x := range r.events {
		if x == e {
			n++
		}
	}
	return n
}

// leaf is a stateful component that records every lifecycle hook.
type leaf struct {
	Component
	log     *recorder
	name    string
	renders int
	guard   func(next Props, state State) bool
}

func (l *leaf) Render() *VNode {
	l.renders++
	l.log.add(l.name + ":render")
	return Span(Text(l.Props().String("label")))
}

func (l *leaf) WillMount()                  { l.log.add(l.name + ":willMount") }
func (l *leaf) DidMount()                   { l.log.add(l.name + ":didMount") }
func (l *leaf) WillReceiveProps(next Props) { l.log.add(l.name + ":willReceiveProps") }
func (l *leaf) WillUpdate(Props, State)     { l.log.add(l.name + ":willUpdate") }
func (l *leaf) DidUpdate(Props, State)      { l.log.add(l.name + ":didUpdate") }
func (l *leaf) WillUnmount()                { l.log.add(l.name + ":willUnmount") }

func (l *leaf) ShouldUpdate(next Props, state State) bool {
	l.log.add(l.name + ":shouldUpdate")
	if l.guard != nil {
		return l.guard(next, state)
	}
	return l.Component.ShouldUpdate(next, state)
}

// leafType defines a leaf component type whose instances are collected in
// *out. Call it once per test: every call is a distinct type.
func leafType(log *recorder, out *[]*leaf) *ComponentType {
	return Define("Leaf", func(p Props) Instance {
		l := &leaf{log: log, name: p.String("name")}
		if out != nil {
			*out = append(*out, l)
		}
		return l
	})
}

// counter increments on click.
type counter struct {
	Component
	click   *dom.Listener
	renders int
}

func (c *counter) Render() *VNode {
	c.renders++
	return Button(On("click", c.click), Textf("%d", c.State().Int("count")))
}

func counterType(out **counter) *ComponentType {
	return Define("Counter", func(Props) Instance {
		c := &counter{}
		c.click = dom.NewListener(func(dom.Event) {
			_ = c.SetState(State{"count": c.State().Int("count") + 1})
		})
		if out != nil {
			*out = c
		}
		return c
	})
}

func ops(ms []memdom.Mutation) []memdom.MutationOp {
	out := make([]memdom.MutationOp, len(ms))
	for i, m := range ms {
		out[i] = m.Op
	}
	return out
}
