package vdom

import "fmt"

// CreateElement builds a node from a type, attributes and children.
//
// typ is a tag name, TextType, a *FuncType or a *ComponentType. For
// TextType the content is read from attrs["textContent"]. Children may be
// *VNode, []*VNode, []any (flattened recursively), or any other value, which
// is wrapped in a text node. nil and boolean children are dropped.
//
// attrs is copied; the caller's map is not retained.
func CreateElement(typ any, attrs Props, children ...any) *VNode {
	flat := flattenChildren(children, nil)

	props := make(Props, len(attrs)+1)
	for k, v := range attrs {
		props[k] = v
	}
	props["children"] = flat

	node := &VNode{Props: props, Children: flat}
	switch t := typ.(type) {
	case string:
		if t == TextType {
			node.Kind = KindText
			node.Text = props.String("textContent")
		} else {
			node.Kind = KindElement
			node.Tag = t
		}
	case *FuncType:
		node.Kind = KindFunc
		node.Func = t
	case *ComponentType:
		node.Kind = KindStateful
		node.Class = t
	default:
		// Left untyped; the reconciler rejects it with E102.
		node.Kind = KindElement
	}
	return node
}

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind:     KindText,
		Text:     content,
		Props:    Props{"textContent": content, "children": []*VNode{}},
		Children: []*VNode{},
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Create creates a node for a stateful component type.
func (t *ComponentType) Create(args ...any) *VNode {
	return build(t, args)
}

// Create creates a node for a functional component type.
func (t *FuncType) Create(args ...any) *VNode {
	return build(t, args)
}

// createElement creates a new element node with the given tag and arguments.
func createElement(tag string, args []any) *VNode {
	return build(tag, args)
}

// build splits helper arguments into props and children.
// Arguments can be: nil, Attr, []Attr, Props, *VNode, []*VNode, []any, string.
func build(typ any, args []any) *VNode {
	props := make(Props)
	var children []any
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
		case Attr:
			if v.Key != "" {
				props[v.Key] = v.Value
			}
		case []Attr:
			for _, a := range v {
				if a.Key != "" {
					props[a.Key] = a.Value
				}
			}
		case Props:
			for k, val := range v {
				props[k] = val
			}
		default:
			children = append(children, v)
		}
	}
	return CreateElement(typ, props, children...)
}

func flattenChildren(children []any, acc []*VNode) []*VNode {
	if acc == nil {
		acc = make([]*VNode, 0, len(children))
	}
	for _, child := range children {
		switch v := child.(type) {
		case nil, bool:
			continue
		case *VNode:
			if v != nil {
				acc = append(acc, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					acc = append(acc, c)
				}
			}
		case []any:
			acc = flattenChildren(v, acc)
		case string:
			acc = append(acc, Text(v))
		default:
			acc = append(acc, Text(propToString(v)))
		}
	}
	return acc
}

// Content sectioning elements

func Header(args ...any) *VNode  { return createElement("header", args) }
func Footer(args ...any) *VNode  { return createElement("footer", args) }
func Main(args ...any) *VNode    { return createElement("main", args) }
func Nav(args ...any) *VNode     { return createElement("nav", args) }
func Section(args ...any) *VNode { return createElement("section", args) }
func H1(args ...any) *VNode      { return createElement("h1", args) }
func H2(args ...any) *VNode      { return createElement("h2", args) }
func H3(args ...any) *VNode      { return createElement("h3", args) }

// Text content elements

func Div(args ...any) *VNode    { return createElement("div", args) }
func P(args ...any) *VNode      { return createElement("p", args) }
func Span(args ...any) *VNode   { return createElement("span", args) }
func Ul(args ...any) *VNode     { return createElement("ul", args) }
func Ol(args ...any) *VNode     { return createElement("ol", args) }
func Li(args ...any) *VNode     { return createElement("li", args) }
func A(args ...any) *VNode      { return createElement("a", args) }
func Strong(args ...any) *VNode { return createElement("strong", args) }
func Em(args ...any) *VNode     { return createElement("em", args) }
func Br(args ...any) *VNode     { return createElement("br", args) }
func Hr(args ...any) *VNode     { return createElement("hr", args) }

// Form elements

func Form(args ...any) *VNode     { return createElement("form", args) }
func Input(args ...any) *VNode    { return createElement("input", args) }
func Textarea(args ...any) *VNode { return createElement("textarea", args) }
func Select(args ...any) *VNode   { return createElement("select", args) }
func Option(args ...any) *VNode   { return createElement("option", args) }
func Button(args ...any) *VNode   { return createElement("button", args) }
func Label(args ...any) *VNode    { return createElement("label", args) }

// Table elements

func Table(args ...any) *VNode { return createElement("table", args) }
func Tbody(args ...any) *VNode { return createElement("tbody", args) }
func Tr(args ...any) *VNode    { return createElement("tr", args) }
func Td(args ...any) *VNode    { return createElement("td", args) }

// CustomElement creates an element with a custom tag name.
func CustomElement(tag string, args ...any) *VNode {
	return createElement(tag, args)
}
