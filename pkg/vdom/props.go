package vdom

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/vango-dev/vdomkit/internal/errors"
	"github.com/vango-dev/vdomkit/pkg/dom"
)

// syncProps applies the delta between prev and next to el. Additions and
// changes are applied before removals, each in key order. "className" is an
// alias of "class"; dropping one leaves the attribute alone while the other
// is still set.
func (r *Renderer) syncProps(el dom.Element, next, prev Props) error {
	for _, name := range sortedKeys(next) {
		val := next[name]
		if isReserved(name) || val == nil {
			continue
		}
		old, had := prev[name]
		if had && propsEqual(old, val) {
			continue
		}

		switch {
		case isEventHandler(name):
			l, ok := val.(*dom.Listener)
			if !ok || l == nil {
				return errors.New("E103").WithDetailf("prop %q on <%s> holds %T", name, el.TagName(), val)
			}
			ev := eventName(name)
			if ol, ok := old.(*dom.Listener); had && ok && ol != nil {
				el.RemoveEventListener(ev, ol)
			}
			el.AddEventListener(ev, l)
		case name == "value" || name == "checked":
			el.SetProperty(name, val)
		case name == "className":
			el.SetAttribute("class", propToString(val))
		default:
			el.SetAttribute(name, propToString(val))
		}
	}

	for _, name := range sortedKeys(prev) {
		old := prev[name]
		if isReserved(name) || old == nil {
			continue
		}
		if v, ok := next[name]; ok && v != nil {
			continue
		}

		switch {
		case isEventHandler(name):
			if l, ok := old.(*dom.Listener); ok && l != nil {
				el.RemoveEventListener(eventName(name), l)
			}
		case name == "className" || name == "class":
			if next["class"] == nil && next["className"] == nil {
				el.RemoveAttribute("class")
			}
		default:
			el.RemoveAttribute(name)
		}
	}
	return nil
}

// isReserved reports props that never reach the document.
func isReserved(name string) bool {
	return name == "children" || name == "ref" || name == "key"
}

// isEventHandler returns true if the key is an event handler (starts with "on").
// Case-insensitive to catch onclick, onClick, OnLoad, etc.
func isEventHandler(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}

// eventName maps a handler prop to its event: "onClick" -> "click".
func eventName(key string) string {
	return strings.ToLower(key[2:])
}

func sortedKeys(p Props) []string {
	if len(p) == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(p))
}

// propsEqual compares two prop values for equality.
func propsEqual(a, b any) bool {
	// Fast path for common types
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return av == bv
		}
		return false
	case int:
		if bv, ok := b.(int); ok {
			return av == bv
		}
		return false
	case int64:
		if bv, ok := b.(int64); ok {
			return av == bv
		}
		return false
	case float64:
		if bv, ok := b.(float64); ok {
			return av == bv
		}
		return false
	case bool:
		if bv, ok := b.(bool); ok {
			return av == bv
		}
		return false
	case *dom.Listener:
		bv, ok := b.(*dom.Listener)
		return ok && av == bv
	case nil:
		return b == nil
	}
	// Functions are only equal by identity, which Go cannot compare.
	if reflect.TypeOf(a).Kind() == reflect.Func {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// propToString converts a prop value to its attribute string.
func propToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
