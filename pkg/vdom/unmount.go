package vdom

import "github.com/vango-dev/vdomkit/pkg/dom"

// unmount tears down n and its subtree, then detaches it. Instances at or
// above keep in n's chain are left alive.
func (r *Renderer) unmount(n dom.Node, keep *Component) {
	v, tracked := r.nodes[n]
	if !tracked {
		n.Remove()
		return
	}

	if v.instance != nil {
		for _, c := range v.instance.chain(keep) {
			c.self.WillUnmount()
			c.phase = phaseUnmounted
			c.node = nil
			if ref, ok := c.props["ref"].(func(any)); ok && ref != nil {
				ref(nil)
			}
			r.metrics.componentUnmounted()
			r.logger.Debug("component unmounted", "component", c.name())
		}
	}

	for child := n.FirstChild(); child != nil; child = n.FirstChild() {
		r.unmount(child, nil)
	}

	if ref, ok := v.Props["ref"].(func(any)); ok && ref != nil {
		ref(nil)
	}

	if el, ok := n.(dom.Element); ok {
		for _, name := range sortedKeys(v.Props) {
			if !isEventHandler(name) {
				continue
			}
			if l, ok := v.Props[name].(*dom.Listener); ok && l != nil {
				el.RemoveEventListener(eventName(name), l)
			}
		}
	}

	delete(r.nodes, n)
	n.Remove()
	r.metrics.nodeRemoved()
}
