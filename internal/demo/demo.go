// Package demo holds the example application served by the live server and
// rendered by the CLI.
package demo

import (
	"fmt"
	"slices"

	"github.com/vango-dev/vdomkit/internal/errors"
	"github.com/vango-dev/vdomkit/pkg/dom"
	. "github.com/vango-dev/vdomkit/pkg/vdom"
)

// Apps lists the names accepted by New.
var Apps = []string{"counter", "todo"}

// New returns the root node of the named app.
func New(name string) (*VNode, error) {
	switch name {
	case "counter":
		return Main(ID("app"), Greeting.Create(Prop("name", "vdomkit")), Counter.Create(Prop("start", 0))), nil
	case "todo":
		return Main(ID("app"), TodoApp.Create(Prop("title", "Todo"))), nil
	}
	return nil, errors.New("E302").
		WithDetailf("unknown app %q", name).
		WithSuggestion(fmt.Sprintf("use one of %v", Apps))
}

// Greeting renders a heading from its name prop.
var Greeting = Func("Greeting", func(p Props) *VNode {
	name := p.String("name")
	if name == "" {
		name = "world"
	}
	return H1(Class("greeting"), Textf("Hello, %s!", name))
})

// Counter is a stateful counter with increment and decrement buttons.
var Counter = Define("Counter", func(p Props) Instance {
	c := &counter{}
	c.InitState(State{"count": p.Int("start")})
	c.inc = dom.NewListener(func(dom.Event) { c.add(1) })
	c.dec = dom.NewListener(func(dom.Event) { c.add(-1) })
	return c
})

type counter struct {
	Component
	inc, dec *dom.Listener
}

// Listener errors surface through Renderer.TakeError.
func (c *counter) add(delta int) {
	_ = c.SetState(State{"count": c.State().Int("count") + delta})
}

func (c *counter) Render() *VNode {
	count := c.State().Int("count")
	classes := []string{"count"}
	if count < 0 {
		classes = append(classes, "negative")
	}
	return Div(Class("counter"),
		Button(Class("dec"), On("click", c.dec), "-"),
		Span(Class(classes...), Textf("%d", count)),
		Button(Class("inc"), On("click", c.inc), "+"),
	)
}

// TodoApp keeps a list of items edited through an input and buttons.
var TodoApp = Define("TodoApp", func(Props) Instance {
	t := &todoApp{remove: make(map[int]*dom.Listener)}
	t.InitState(State{"items": []string{}, "draft": ""})
	t.input = dom.NewListener(func(e dom.Event) {
		_ = t.SetState(State{"draft": e.Value})
	})
	t.submit = dom.NewListener(func(dom.Event) { t.addDraft() })
	t.clear = dom.NewListener(func(dom.Event) {
		_ = t.SetState(State{"items": []string{}})
	})
	return t
})

type todoApp struct {
	Component
	input, submit, clear *dom.Listener
	remove               map[int]*dom.Listener
}

func (t *todoApp) items() []string {
	items, _ := t.State()["items"].([]string)
	return items
}

func (t *todoApp) addDraft() {
	draft := t.State().String("draft")
	if draft == "" {
		return
	}
	_ = t.SetState(State{
		"items": append(slices.Clone(t.items()), draft),
		"draft": "",
	})
}

// removeAt returns the listener deleting the item at index i. Listeners are
// cached per index so re-renders leave subscriptions untouched.
func (t *todoApp) removeAt(i int) *dom.Listener {
	if l, ok := t.remove[i]; ok {
		return l
	}
	l := dom.NewListener(func(dom.Event) {
		items := t.items()
		if i >= len(items) {
			return
		}
		_ = t.SetState(State{"items": slices.Delete(slices.Clone(items), i, i+1)})
	})
	t.remove[i] = l
	return l
}

func (t *todoApp) Render() *VNode {
	items := t.items()

	list := make([]*VNode, len(items))
	for i, item := range items {
		list[i] = TodoItem.Create(Prop("text", item), Prop("onRemove", t.removeAt(i)))
	}

	var body any
	if len(items) == 0 {
		body = P(Class("empty"), "Nothing to do")
	} else {
		body = Ul(Class("items"), list)
	}

	return Section(Class("todo"),
		H2(t.Props().String("title")),
		Div(Class("entry"),
			Input(Type("text"), Placeholder("What needs doing?"), Value(t.State().String("draft")), On("input", t.input)),
			Button(Class("add"), On("click", t.submit), "Add"),
		),
		body,
		Footer(
			Span(Textf("%d left", len(items))),
			AttrIf(len(items) > 0, Prop("data-has-items", "true")),
			Button(Class("clear"), AttrIf(len(items) == 0, Disabled()), On("click", t.clear), "Clear"),
		),
	)
}

// TodoItem renders one list entry with its remove button.
var TodoItem = Func("TodoItem", func(p Props) *VNode {
	remove, _ := p["onRemove"].(*dom.Listener)
	return Li(
		Span(Class("text"), p.String("text")),
		Button(Class("remove"), On("click", remove), "×"),
	)
})
