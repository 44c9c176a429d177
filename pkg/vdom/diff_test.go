package vdom

import (
	"context"
	"reflect"
	"testing"

	"github.com/vango-dev/vdomkit/pkg/dom"
	"github.com/vango-dev/vdomkit/pkg/memdom"
)

func TestMountNestedElements(t *testing.T) {
	f := newFixture(t)

	muts := f.render(t, Div(Span("hi")))

	if got := f.html(); got != "<div><span>hi</span></div>" {
		t.Errorf("html = %q", got)
	}
	want := []memdom.MutationOp{
		memdom.OpCreateElement, memdom.OpAppend,
		memdom.OpCreateElement, memdom.OpAppend,
		memdom.OpCreateText, memdom.OpAppend,
	}
	if !reflect.DeepEqual(ops(muts), want) {
		t.Errorf("ops = %v, want %v", ops(muts), want)
	}
}

func TestEndToEndTextUpdate(t *testing.T) {
	f := newFixture(t)
	f.render(t, Div(Span("hi")))
	div := f.first()

	muts := f.render(t, Div(Span("bye")))

	if len(muts) != 1 {
		t.Fatalf("Expected 1 mutation, got %d: %v", len(muts), muts)
	}
	if muts[0].Op != memdom.OpSetText || muts[0].Value != "bye" {
		t.Errorf("mutation = %v, want SetText bye", muts[0])
	}
	if f.first() != div {
		t.Error("div was recreated")
	}
	if got := f.html(); got != "<div><span>bye</span></div>" {
		t.Errorf("html = %q", got)
	}
}

func TestRenderIdempotent(t *testing.T) {
	f := newFixture(t)
	click := dom.NewListener(func(dom.Event) {})
	tree := func() *VNode {
		return Div(ID("app"), Class("x"),
			Input(Value("v"), Checked(true)),
			Button(On("click", click), Text("go")),
			Ul(Li("a"), Li("b")),
		)
	}
	f.render(t, tree())

	if muts := f.render(t, tree()); len(muts) != 0 {
		t.Errorf("Expected 0 mutations for unchanged tree, got %v", muts)
	}

	same := tree()
	f.render(t, same)
	if muts := f.render(t, same); len(muts) != 0 {
		t.Errorf("Expected 0 mutations re-rendering the same tree, got %v", muts)
	}
}

func TestTextNodeUpdate(t *testing.T) {
	f := newFixture(t)
	f.render(t, Text("Hello"))

	if muts := f.render(t, Text("Hello")); len(muts) != 0 {
		t.Errorf("Expected 0 writes for same text, got %v", muts)
	}

	muts := f.render(t, Text("Hello!"))
	if len(muts) != 1 || muts[0].Op != memdom.OpSetText || muts[0].Value != "Hello!" {
		t.Errorf("mutations = %v, want one SetText", muts)
	}
}

func TestTextViaCreateElement(t *testing.T) {
	f := newFixture(t)
	f.render(t, CreateElement("p", nil, CreateElement(TextType, Props{"textContent": "a"})))
	if got := f.html(); got != "<p>a</p>" {
		t.Errorf("html = %q", got)
	}
}

func TestAttributeDeltaMinimal(t *testing.T) {
	f := newFixture(t)
	f.render(t, Div(ID("a"), Class("x")))

	muts := f.render(t, Div(ID("a"), Class("y"), TitleAttr("t")))

	want := []memdom.Mutation{
		{Op: memdom.OpSetAttr, Target: memdom.ID(f.first()), Name: "class", Value: "y"},
		{Op: memdom.OpSetAttr, Target: memdom.ID(f.first()), Name: "title", Value: "t"},
	}
	if !reflect.DeepEqual(muts, want) {
		t.Errorf("mutations = %v, want %v", muts, want)
	}
}

func TestPositionalShiftIsDeterministic(t *testing.T) {
	run := func() []memdom.Mutation {
		f := newFixture(t)
		f.render(t, Ul(Li("a"), Li("b")))
		return f.render(t, Ul(Li("x"), Li("a"), Li("b")))
	}

	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("shift diff not stable:\n%v\n%v", first, second)
	}

	want := []memdom.MutationOp{
		memdom.OpSetText, memdom.OpSetText,
		memdom.OpCreateElement, memdom.OpAppend,
		memdom.OpCreateText, memdom.OpAppend,
	}
	if !reflect.DeepEqual(ops(first), want) {
		t.Errorf("ops = %v, want %v (positional patching, no move)", ops(first), want)
	}
	if first[0].Value != "x" || first[1].Value != "a" {
		t.Errorf("text writes = %q, %q", first[0].Value, first[1].Value)
	}
}

func TestChildTrimming(t *testing.T) {
	f := newFixture(t)
	ls := make([]*dom.Listener, 4)
	for i := range ls {
		ls[i] = dom.NewListener(func(dom.Event) {})
	}
	item := func(i int) *VNode { return Li(On("click", ls[i]), Textf("%d", i)) }

	f.render(t, Ul(item(0), item(1), item(2), item(3)))
	ul := f.first().(*memdom.Element)
	kids := ul.ChildNodes()
	li2, text2 := memdom.ID(kids[2]), memdom.ID(kids[2].FirstChild())
	li3, text3 := memdom.ID(kids[3]), memdom.ID(kids[3].FirstChild())

	muts := f.render(t, Ul(item(0), item(1)))

	want := []memdom.Mutation{
		{Op: memdom.OpRemove, Target: text3},
		{Op: memdom.OpRemoveListener, Target: li3, Name: "click"},
		{Op: memdom.OpRemove, Target: li3},
		{Op: memdom.OpRemove, Target: text2},
		{Op: memdom.OpRemoveListener, Target: li2, Name: "click"},
		{Op: memdom.OpRemove, Target: li2},
	}
	if !reflect.DeepEqual(muts, want) {
		t.Errorf("mutations = %v\nwant %v", muts, want)
	}
	if len(ul.ChildNodes()) != 2 {
		t.Errorf("children = %d, want 2", len(ul.ChildNodes()))
	}
	if f.r.Tracked() != 1+2*2 {
		t.Errorf("Tracked() = %d, want 5", f.r.Tracked())
	}
}

func TestChildTrimmingUnmountsComponents(t *testing.T) {
	f := newFixture(t)
	log := &recorder{}
	Leaf := leafType(log, nil)

	f.render(t, Div(
		Leaf.Create(Prop("name", "a")),
		Leaf.Create(Prop("name", "b")),
		Leaf.Create(Prop("name", "c")),
	))
	log.reset()

	f.render(t, Div(Leaf.Create(Prop("name", "a"))))

	if log.count("c:willUnmount") != 1 || log.count("b:willUnmount") != 1 {
		t.Errorf("events = %v", log.events)
	}
	if log.count("a:willUnmount") != 0 {
		t.Errorf("a should survive: %v", log.events)
	}
}

func TestDifferentTagReplaced(t *testing.T) {
	f := newFixture(t)
	f.render(t, Div(Span("x"), Em("tail")))
	div := f.first()
	oldSpan := div.FirstChild()

	f.render(t, Div(P("x"), Em("tail")))

	if got := f.html(); got != "<div><p>x</p><em>tail</em></div>" {
		t.Errorf("html = %q", got)
	}
	if oldSpan.ParentNode() != nil {
		t.Error("old span still attached")
	}
	if f.r.VNodeOf(oldSpan) != nil {
		t.Error("old span still tracked")
	}
}

func TestTextReplacedByElement(t *testing.T) {
	f := newFixture(t)
	f.render(t, Div("plain"))
	f.render(t, Div(Strong("bold")))
	if got := f.html(); got != "<div><strong>bold</strong></div>" {
		t.Errorf("html = %q", got)
	}
}

func TestUntrackedNodeReplaced(t *testing.T) {
	f := newFixture(t)
	stray := f.doc.CreateElement("aside")
	f.root.AppendChild(stray)
	f.doc.Drain()

	f.render(t, Div("app"))

	if got := f.html(); got != "<div>app</div>" {
		t.Errorf("html = %q", got)
	}
	if stray.ParentNode() != nil {
		t.Error("untracked node not detached")
	}
}

func TestVNodeHistoryUpdated(t *testing.T) {
	f := newFixture(t)
	f.render(t, Div(Class("a")))
	next := Div(Class("b"))
	f.render(t, next)

	if f.r.VNodeOf(f.first()) != next {
		t.Error("live node should point at the latest vnode")
	}
}

func TestReconcileWithExplicitNode(t *testing.T) {
	f := newFixture(t)
	f.render(t, Div(Span("one"), Span("two")))
	div := f.first()
	second := div.ChildNodes()[1]

	if err := f.r.Reconcile(context.Background(), Span("TWO"), div, second); err != nil {
		t.Fatalf("Reconcile() error: %v", err)
	}
	if got := f.html(); got != "<div><span>one</span><span>TWO</span></div>" {
		t.Errorf("html = %q", got)
	}
}

func TestFunctionalComponent(t *testing.T) {
	f := newFixture(t)
	calls := 0
	Greeting := Func("Greeting", func(p Props) *VNode {
		calls++
		return P(Text("Hello, "), Text(p.String("name")), p.Children())
	})

	f.render(t, Div(Greeting.Create(Prop("name", "Ada"), Em("!"))))
	if got := f.html(); got != "<div><p>Hello, Ada<em>!</em></p></div>" {
		t.Errorf("html = %q", got)
	}

	if muts := f.render(t, Div(Greeting.Create(Prop("name", "Ada"), Em("!")))); len(muts) != 0 {
		t.Errorf("Expected 0 mutations, got %v", muts)
	}

	muts := f.render(t, Div(Greeting.Create(Prop("name", "Bob"), Em("!"))))
	if len(muts) != 1 || muts[0].Op != memdom.OpSetText {
		t.Errorf("mutations = %v", muts)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestFunctionalComponentAtRoot(t *testing.T) {
	f := newFixture(t)
	Box := Func("Box", func(p Props) *VNode { return Div(p.Children()) })

	f.render(t, Box.Create("a"))
	f.render(t, Box.Create("b"))
	if got := f.html(); got != "<div>b</div>" {
		t.Errorf("html = %q", got)
	}
}
