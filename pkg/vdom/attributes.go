package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// ClassName is Class with a single name. A raw "className" prop is accepted
// as an alias of "class"; a node should carry only one of the two.
func ClassName(name string) Attr { return attr("class", name) }

// StyleAttr sets the style attribute.
func StyleAttr(style string) Attr { return attr("style", style) }

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// TitleAttr sets the title attribute.
func TitleAttr(title string) Attr { return attr("title", title) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// Link attributes

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Form attributes

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Value sets the value property. It is applied to the live element as a
// property, not an attribute, so user edits are not clobbered by markup.
func Value(value string) Attr { return attr("value", value) }

// Checked sets the checked property.
func Checked(checked bool) Attr { return attr("checked", checked) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// Disabled sets the disabled attribute.
func Disabled() Attr { return attr("disabled", true) }

// Reconciler attributes

// Ref registers a callback that receives the live node (for elements) or the
// instance (for stateful components) after mount, and nil on unmount.
func Ref(fn func(any)) Attr { return attr("ref", fn) }

// Prop sets an arbitrary prop. Useful for passing data to components.
func Prop(key string, value any) Attr { return attr(key, value) }

// Conditional helpers

// ClassIf returns a class attribute if the condition is true.
func ClassIf(condition bool, class string) Attr {
	if condition {
		return Class(class)
	}
	return Attr{}
}

// AttrIf returns the attribute if the condition is true.
func AttrIf(condition bool, a Attr) Attr {
	if condition {
		return a
	}
	return Attr{}
}
