package vdom

import (
	"github.com/vango-dev/vdomkit/internal/errors"
	"github.com/vango-dev/vdomkit/pkg/dom"
)

// diff reconciles next against the live node at s.
//
// Transitions, in order:
//  1. nothing at the position: mount
//  2. next is a component: update the instance in place when the position
//     already holds one of the same type, otherwise mount fresh
//  3. same kind and tag as the attached history: patch in place
//  4. anything else: mount fresh over the old node
func (r *Renderer) diff(next *VNode, s slot) error {
	if err := validate(next); err != nil {
		return err
	}
	if s.existing == nil {
		_, err := r.mount(next, s, s.keep)
		return err
	}

	prev := r.nodes[s.existing]
	var current *Component
	if prev != nil && prev.instance != nil {
		current = prev.instance.atLevel(s.keep)
	}

	switch next.Kind {
	case KindFunc:
		out, err := renderFunc(next)
		if err != nil {
			return err
		}
		return r.diff(out, s)
	case KindStateful:
		if current != nil && current.typ == next.Class {
			return r.updateComponent(current, next.Props, s)
		}
		_, err := r.mount(next, s, s.keep)
		return err
	}

	if current != nil || prev == nil || prev.Kind != next.Kind || prev.Tag != next.Tag {
		_, err := r.mount(next, s, s.keep)
		return err
	}
	return r.patch(next, prev, s.existing)
}

// updateComponent drives a parent-initiated update of c.
func (r *Renderer) updateComponent(c *Component, nextProps Props, s slot) error {
	c.self.WillReceiveProps(nextProps)
	if c.busy {
		// An enclosing pass is still walking c's subtree; it re-renders c
		// with these props when its diff completes.
		c.props = nextProps
		c.dirty = true
		return nil
	}
	if !c.self.ShouldUpdate(nextProps, c.state) {
		r.metrics.componentUpdate(resultSkipped)
		return nil
	}

	prevProps, prevState := c.props, c.state
	c.busy = true
	defer func() { c.busy = false }()
	c.self.WillUpdate(nextProps, c.state)
	c.props = nextProps

	out, err := r.renderInstance(c)
	if err != nil {
		return err
	}
	// A SetState from WillReceiveProps may have replaced c's node.
	existing := c.node
	if existing == nil {
		existing = s.existing
	}
	if err := r.diff(out, slot{container: s.container, existing: existing, keep: c}); err != nil {
		return err
	}
	if err := r.settle(c); err != nil {
		return err
	}
	c.busy = false
	if c.phase == phaseUnmounted {
		return nil
	}
	r.metrics.componentUpdate(resultRendered)
	c.self.DidUpdate(prevProps, prevState)
	return nil
}

// patch updates live in place to match next, then reconciles children by
// position.
func (r *Renderer) patch(next, prev *VNode, live dom.Node) error {
	switch next.Kind {
	case KindText:
		t, ok := live.(dom.Text)
		if !ok {
			return errors.New("E104").WithDetailf("live node %T is not a text node", live)
		}
		if next.Text != prev.Text {
			t.SetData(next.Text)
		}
	default:
		el, ok := live.(dom.Element)
		if !ok {
			return errors.New("E104").WithDetailf("live node %T is not an element", live)
		}
		if err := r.syncProps(el, next.Props, prev.Props); err != nil {
			return err
		}
	}
	r.nodes[live] = next

	cur := live.FirstChild()
	for _, child := range next.Children {
		var after dom.Node
		if cur != nil {
			after = cur.NextSibling()
		}
		if err := r.diff(child, slot{container: live, existing: cur}); err != nil {
			return err
		}
		cur = after
	}

	var surplus []dom.Node
	for n := cur; n != nil; n = n.NextSibling() {
		surplus = append(surplus, n)
	}
	for i := len(surplus) - 1; i >= 0; i-- {
		r.unmount(surplus[i], nil)
	}
	return nil
}
