package vdom

import "github.com/vango-dev/vdomkit/pkg/dom"

// event creates an Attr holding a listener under the "on"+name prop.
func event(name string, handler func(dom.Event)) Attr {
	return Attr{Key: "on" + name, Value: dom.NewListener(handler)}
}

// On attaches an existing listener. Passing the same *dom.Listener on every
// render keeps the subscription stable across updates.
func On(name string, l *dom.Listener) Attr {
	return Attr{Key: "on" + name, Value: l}
}

// Mouse events

// OnClick handles click events.
func OnClick(handler func(dom.Event)) Attr { return event("click", handler) }

// OnDblClick handles double-click events.
func OnDblClick(handler func(dom.Event)) Attr { return event("dblclick", handler) }

// OnMouseEnter handles mouseenter events.
func OnMouseEnter(handler func(dom.Event)) Attr { return event("mouseenter", handler) }

// OnMouseLeave handles mouseleave events.
func OnMouseLeave(handler func(dom.Event)) Attr { return event("mouseleave", handler) }

// Keyboard events

// OnKeyDown handles keydown events.
func OnKeyDown(handler func(dom.Event)) Attr { return event("keydown", handler) }

// OnKeyUp handles keyup events.
func OnKeyUp(handler func(dom.Event)) Attr { return event("keyup", handler) }

// Form events

// OnInput handles input events (fired when value changes).
func OnInput(handler func(dom.Event)) Attr { return event("input", handler) }

// OnChange handles change events (fired when value is committed).
func OnChange(handler func(dom.Event)) Attr { return event("change", handler) }

// OnSubmit handles form submit events.
func OnSubmit(handler func(dom.Event)) Attr { return event("submit", handler) }

// OnFocus handles focus events.
func OnFocus(handler func(dom.Event)) Attr { return event("focus", handler) }

// OnBlur handles blur events.
func OnBlur(handler func(dom.Event)) Attr { return event("blur", handler) }
