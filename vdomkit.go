// Package vdomkit provides the public API for the vdomkit UI library.
//
// This is the recommended import for most applications:
//
//	import "github.com/vango-dev/vdomkit"
//
// Usage:
//
//	type Hello struct{ vdomkit.Component }
//
//	func (h *Hello) Render() *vdomkit.VNode {
//	    return vdomkit.CreateElement("p", nil, "hello ", h.Props().String("name"))
//	}
//
//	var HelloType = vdomkit.Define("Hello", func(vdomkit.Props) vdomkit.Instance {
//	    return &Hello{}
//	})
//
//	err := vdomkit.Render(vdomkit.CreateElement(HelloType, vdomkit.Props{"name": "Ada"}), root)
//
// The element helpers (Div, Span, OnClick, ...) live in pkg/vdom.
package vdomkit

import (
	"github.com/vango-dev/vdomkit/pkg/dom"
	"github.com/vango-dev/vdomkit/pkg/vdom"
)

// =============================================================================
// Core types
// =============================================================================

// VNode is a virtual node.
type VNode = vdom.VNode

// Props holds a node's attributes, listeners and children.
type Props = vdom.Props

// State is a stateful component's state.
type State = vdom.State

// Component is the base every stateful component embeds.
type Component = vdom.Component

// Instance is a stateful component.
type Instance = vdom.Instance

// Renderer reconciles virtual trees against live documents.
type Renderer = vdom.Renderer

// =============================================================================
// Construction
// =============================================================================

// CreateElement builds a node from a tag, TextType, *FuncType or
// *ComponentType, an attribute map and children. Nested child slices are
// flattened, non-node children become text, nil and booleans are skipped.
func CreateElement(typ any, attrs Props, children ...any) *VNode {
	return vdom.CreateElement(typ, attrs, children...)
}

// Define registers a stateful component type.
func Define(name string, factory func(Props) Instance) *vdom.ComponentType {
	return vdom.Define(name, factory)
}

// Func registers a functional component.
func Func(name string, render func(Props) *VNode) *vdom.FuncType {
	return vdom.Func(name, render)
}

// =============================================================================
// Rendering
// =============================================================================

// Render reconciles v into container against the container's first child,
// using a process-wide Renderer. Applications that render from more than one
// goroutine should create their own Renderer per document with NewRenderer.
func Render(v *VNode, container dom.Node) error {
	return vdom.Render(v, container)
}

// NewRenderer creates a Renderer with its own node history.
func NewRenderer(opts ...vdom.RendererOption) *Renderer {
	return vdom.NewRenderer(opts...)
}
