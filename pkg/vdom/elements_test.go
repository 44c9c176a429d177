package vdom

import (
	"reflect"
	"testing"

	"github.com/vango-dev/vdomkit/pkg/dom"
)

func TestCreateElementChildrenInvariant(t *testing.T) {
	attrs := Props{"id": "root"}
	v := CreateElement("div", attrs, "a", Span("b"))

	if v.Kind != KindElement || v.Tag != "div" {
		t.Fatalf("node = %v %q, want Element div", v.Kind, v.Tag)
	}
	kids, ok := v.Props["children"].([]*VNode)
	if !ok {
		t.Fatalf("props[children] = %T, want []*VNode", v.Props["children"])
	}
	if len(kids) != 2 || reflect.ValueOf(kids).Pointer() != reflect.ValueOf(v.Children).Pointer() {
		t.Error("props[children] and Children should be the same slice")
	}
	if _, ok := attrs["children"]; ok {
		t.Error("CreateElement must not modify the caller's attrs")
	}
}

func TestCreateElementWithoutChildren(t *testing.T) {
	v := CreateElement("br", nil)
	if v.Children == nil || len(v.Children) != 0 {
		t.Errorf("Children = %#v, want empty non-nil slice", v.Children)
	}
	if len(v.Props.Children()) != 0 {
		t.Error("props[children] should be empty")
	}
}

func TestCreateElementTypes(t *testing.T) {
	fn := Func("F", func(Props) *VNode { return Div() })
	class := Define("C", func(Props) Instance { return nil })

	tests := []struct {
		name string
		typ  any
		kind VKind
		want string
	}{
		{"tag", "ul", KindElement, "ul"},
		{"text", TextType, KindText, "text"},
		{"functional", fn, KindFunc, "F"},
		{"stateful", class, KindStateful, "C"},
		{"untyped", 42, KindElement, "<untyped>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := CreateElement(tt.typ, nil)
			if v.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", v.Kind, tt.kind)
			}
			if v.TypeName() != tt.want {
				t.Errorf("TypeName() = %q, want %q", v.TypeName(), tt.want)
			}
		})
	}
}

func TestCreateTextElement(t *testing.T) {
	v := CreateElement(TextType, Props{"textContent": "hello"})
	if v.Kind != KindText || v.Text != "hello" {
		t.Errorf("text node = %v %q", v.Kind, v.Text)
	}
}

func TestFlattenChildren(t *testing.T) {
	items := []*VNode{Li("1"), nil, Li("2")}
	v := Ul(
		nil,
		true,
		false,
		"text",
		items,
		[]any{Li("3"), []any{Li("4"), nil}},
		7,
	)

	var got []string
	for _, c := range v.Children {
		if c.Kind == KindText {
			got = append(got, "text:"+c.Text)
		} else {
			got = append(got, c.Tag)
		}
	}
	want := []string{"text:text", "li", "li", "li", "li", "text:7"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}
}

func TestBuildSplitsArgs(t *testing.T) {
	v := Div(
		ID("main"),
		[]Attr{Class("a", "b"), {}},
		Props{"data-x": "1"},
		ClassIf(false, "hidden"),
		AttrIf(true, TitleAttr("t")),
		"child",
	)

	want := map[string]any{"id": "main", "class": "a b", "data-x": "1", "title": "t"}
	for k, val := range want {
		if v.Props[k] != val {
			t.Errorf("props[%q] = %v, want %v", k, v.Props[k], val)
		}
	}
	if len(v.Props) != len(want)+1 {
		t.Errorf("props = %v, want %d keys", v.Props, len(want)+1)
	}
	if len(v.Children) != 1 || v.Children[0].Text != "child" {
		t.Errorf("children = %v", v.Children)
	}
}

func TestComponentCreate(t *testing.T) {
	Card := Define("Card", func(Props) Instance { return nil })
	v := Card.Create(Prop("title", "x"), P("body"))

	if v.Class != Card {
		t.Error("Class should be the defined type")
	}
	if v.Props.String("title") != "x" {
		t.Errorf("title = %q", v.Props.String("title"))
	}
	if kids := v.Props.Children(); len(kids) != 1 || kids[0].Tag != "p" {
		t.Errorf("children = %v", kids)
	}
	if !v.IsComponent() {
		t.Error("IsComponent() = false")
	}
}

func TestEventHelpersCreateListeners(t *testing.T) {
	var fired int
	v := Button(OnClick(func(dom.Event) { fired++ }))

	l, ok := v.Props["onclick"].(*dom.Listener)
	if !ok {
		t.Fatalf("props[onclick] = %T, want *dom.Listener", v.Props["onclick"])
	}
	l.Handle(dom.Event{Type: "click"})
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}

	shared := dom.NewListener(func(dom.Event) {})
	a, b := Button(On("click", shared)), Button(On("click", shared))
	if a.Props["onclick"] != b.Props["onclick"] {
		t.Error("On should reuse the given listener")
	}
}

func TestPropsAccessors(t *testing.T) {
	p := Props{"n": 3, "f": 2.0, "s": "x", "i64": int64(9), "str": "12"}
	tests := []struct {
		key  string
		want int
	}{
		{"n", 3}, {"f", 2}, {"i64", 9}, {"str", 12}, {"s", 0}, {"missing", 0},
	}
	for _, tt := range tests {
		if got := p.Int(tt.key); got != tt.want {
			t.Errorf("Int(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}
	if p.String("s") != "x" || p.String("missing") != "" {
		t.Error("String() mismatch")
	}
}

func TestVKindString(t *testing.T) {
	if KindStateful.String() != "Stateful" || VKind(99).String() != "Unknown" {
		t.Error("VKind.String() mismatch")
	}
}
