package vdom

import (
	"strconv"
	"strings"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <button>, etc.
	KindText                  // Plain text node
	KindFunc                  // Functional component
	KindStateful              // Stateful component
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFunc:
		return "Func"
	case KindStateful:
		return "Stateful"
	default:
		return "Unknown"
	}
}

// TextType is the CreateElement type marker for text nodes.
const TextType = "text"

// VNode is the virtual DOM node. Props["children"] and Children always hold
// the same slice.
type VNode struct {
	Kind     VKind
	Tag      string         // KindElement
	Text     string         // KindText
	Func     *FuncType      // KindFunc
	Class    *ComponentType // KindStateful
	Props    Props
	Children []*VNode

	// instance is set on the node returned directly by a stateful render.
	instance *Component
}

// IsComponent reports whether the node is a functional or stateful component.
func (v *VNode) IsComponent() bool {
	return v != nil && (v.Kind == KindFunc || v.Kind == KindStateful)
}

// TypeName returns the tag, the component name, or "text".
func (v *VNode) TypeName() string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case KindElement:
		return v.Tag
	case KindText:
		return TextType
	case KindFunc:
		if v.Func != nil {
			return v.Func.Name
		}
	case KindStateful:
		if v.Class != nil {
			return v.Class.Name
		}
	}
	return "<untyped>"
}

// Props holds attributes, event listeners and children.
type Props map[string]any

// Children returns the children slice stored in the props.
func (p Props) Children() []*VNode {
	c, _ := p["children"].([]*VNode)
	return c
}

// String returns the prop as a string, or "" when absent.
func (p Props) String(key string) string {
	switch v := p[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return propToString(v)
	}
}

// Int returns the prop as an int, or 0 when absent or not numeric.
func (p Props) Int(key string) int {
	return toInt(p[key])
}

// State is a stateful component's state. SetState merges into it shallowly.
type State map[string]any

// Int returns the state entry as an int, or 0 when absent or not numeric.
func (s State) Int(key string) int {
	return toInt(s[key])
}

// String returns the state entry as a string, or "" when absent.
func (s State) String(key string) string {
	v, _ := s[key].(string)
	return v
}

// Bool returns the state entry as a bool.
func (s State) Bool(key string) bool {
	v, _ := s[key].(bool)
	return v
}

// Attr represents a single prop.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// FuncType is a functional component: a pure Props -> *VNode transform.
type FuncType struct {
	Name   string
	Render func(Props) *VNode
}

// Func creates a functional component type.
func Func(name string, render func(Props) *VNode) *FuncType {
	return &FuncType{Name: name, Render: render}
}

// ComponentType is a stateful component's constructor. Two nodes refer to
// the same component when their *ComponentType pointers are equal.
type ComponentType struct {
	Name string
	New  func(Props) Instance
}

// Define registers a stateful component type. factory must return a fresh
// instance on every call.
func Define(name string, factory func(Props) Instance) *ComponentType {
	return &ComponentType{Name: name, New: factory}
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(n))
		return i
	}
	return 0
}
