// Package vdom provides the virtual DOM and the reconciler for vdomkit.
//
// A UI is described as a tree of VNodes and handed to a Renderer, which
// brings a live dom tree in line with it. The Renderer keeps, for every live
// node it created, the VNode that node was last reconciled against. That
// history is all the diff needs: there is no separate "previous tree".
//
// # Core Types
//
// VNode is a tagged variant over four kinds: host elements, text, functional
// components and stateful components. Props holds attributes, listeners and
// the children slice. Attr is used to build Props with the element helpers.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    Button(OnClick(handler), Text("Save")),
//	)
//
// or with CreateElement, which takes a type, a Props map and children:
//
//	CreateElement("div", Props{"className": "card"}, "hello", child)
//
// # Components
//
// Functional components are pure Props -> *VNode transforms created with
// Func. Stateful components embed Component and are registered with Define:
//
//	type Counter struct{ vdom.Component }
//
//	func (c *Counter) Render() *vdom.VNode {
//	    n := c.State().Int("count")
//	    return vdom.Button(vdom.OnClick(func(dom.Event) {
//	        c.SetState(vdom.State{"count": n + 1})
//	    }), vdom.Textf("%d", n))
//	}
//
//	var CounterType = vdom.Define("Counter", func(vdom.Props) vdom.Instance {
//	    return &Counter{}
//	})
//
// SetState merges into the current state and reconciles the component's
// subtree before it returns.
//
// # Reconciliation
//
// Children are matched strictly by position. A Renderer and the documents it
// drives must be used from one goroutine at a time.
package vdom
