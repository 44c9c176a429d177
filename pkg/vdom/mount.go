package vdom

import (
	"github.com/vango-dev/vdomkit/internal/errors"
	"github.com/vango-dev/vdomkit/pkg/dom"
)

// slot is a position in the live tree.
type slot struct {
	container dom.Node
	// existing is the live node currently at the position, or nil to append.
	existing dom.Node
	// keep is the instance whose render produced the position's node. It and
	// its owners survive when existing is torn down.
	keep *Component
}

// mount builds a live subtree for v at s. owner is the instance whose render
// returned v directly, or nil.
func (r *Renderer) mount(v *VNode, s slot, owner *Component) (dom.Node, error) {
	if err := validate(v); err != nil {
		return nil, err
	}
	switch v.Kind {
	case KindFunc:
		out, err := renderFunc(v)
		if err != nil {
			return nil, err
		}
		return r.mount(out, s, owner)
	case KindStateful:
		return r.mountStateful(v, s, owner)
	default:
		return r.mountHost(v, s)
	}
}

func (r *Renderer) mountStateful(v *VNode, s slot, owner *Component) (dom.Node, error) {
	inst := v.Class.New(v.Props)
	if inst == nil {
		return nil, errors.New("E105").WithDetailf("component %s", v.Class.Name)
	}
	c := inst.base()
	c.self = inst
	c.typ = v.Class
	c.r = r
	c.owner = owner
	c.props = v.Props
	if c.state == nil {
		c.state = State{}
	}
	c.phase = phaseMounting

	inst.WillMount()
	c.busy = true
	defer func() { c.busy = false }()
	out, err := r.renderInstance(c)
	if err != nil {
		return nil, err
	}
	if _, err := r.mount(out, s, c); err != nil {
		return nil, err
	}
	if err := r.settle(c); err != nil {
		return nil, err
	}
	c.busy = false

	c.phase = phaseMounted
	r.metrics.componentMounted()
	r.logger.Debug("component mounted", "component", v.Class.Name)
	inst.DidMount()
	if ref, ok := v.Props["ref"].(func(any)); ok && ref != nil {
		ref(inst)
	}
	return c.node, nil
}

func (r *Renderer) mountHost(v *VNode, s slot) (dom.Node, error) {
	doc := s.container.OwnerDocument()
	if doc == nil {
		return nil, errors.New("E104").WithDetail("container has no owner document")
	}

	var node dom.Node
	switch v.Kind {
	case KindText:
		node = doc.CreateTextNode(v.Text)
	default:
		el := doc.CreateElement(v.Tag)
		if err := r.syncProps(el, v.Props, nil); err != nil {
			return nil, err
		}
		node = el
	}
	r.nodes[node] = v
	r.metrics.nodeCreated()

	// Tear the old node down before the new one takes its place.
	var next dom.Node
	if s.existing != nil {
		next = s.existing.NextSibling()
		r.logger.Debug("replacing node", "type", v.TypeName())
		r.unmount(s.existing, s.keep)
	}
	if next != nil {
		s.container.InsertBefore(node, next)
	} else {
		s.container.AppendChild(node)
	}

	for c := v.instance; c != nil; c = c.owner {
		c.node = node
	}

	for _, child := range v.Children {
		if _, err := r.mount(child, slot{container: node}, nil); err != nil {
			return nil, err
		}
	}

	if ref, ok := v.Props["ref"].(func(any)); ok && ref != nil {
		ref(node)
	}
	return node, nil
}

// renderInstance calls Render and tags the result with the instance.
func (r *Renderer) renderInstance(c *Component) (*VNode, error) {
	out := c.self.Render()
	if out == nil {
		return nil, errors.New("E106").WithDetailf("component %s", c.name())
	}
	return tagged(out, c), nil
}

// renderFunc evaluates a functional component. The instance tag of the
// component node carries over to the output.
func renderFunc(v *VNode) (*VNode, error) {
	props := v.Props
	if props == nil {
		props = Props{"children": []*VNode{}}
	}
	out := v.Func.Render(props)
	if out == nil {
		return nil, errors.New("E106").WithDetailf("component %s", v.Func.Name)
	}
	return tagged(out, v.instance), nil
}

// tagged returns a shallow copy of out owned by c. Render functions may
// return the same *VNode every time, so the tag is never written to out.
func tagged(out *VNode, c *Component) *VNode {
	cp := *out
	cp.instance = c
	return &cp
}

func validate(v *VNode) error {
	if v == nil {
		return errors.New("E101")
	}
	switch v.Kind {
	case KindElement:
		if v.Tag == "" {
			return errors.New("E102").WithDetail("element without a tag")
		}
	case KindText:
	case KindFunc:
		if v.Func == nil || v.Func.Render == nil {
			return errors.New("E102").WithDetail("functional component without a render function")
		}
	case KindStateful:
		if v.Class == nil || v.Class.New == nil {
			return errors.New("E102").WithDetail("stateful component without a factory")
		}
	default:
		return errors.New("E102").WithDetailf("unknown kind %d", v.Kind)
	}
	return nil
}
