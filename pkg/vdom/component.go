package vdom

import (
	"reflect"

	"github.com/vango-dev/vdomkit/internal/errors"
	"github.com/vango-dev/vdomkit/pkg/dom"
)

// Instance is a stateful component. Implementations embed Component, which
// supplies every method except Render.
type Instance interface {
	Render() *VNode

	WillMount()
	DidMount()
	WillReceiveProps(next Props)
	ShouldUpdate(nextProps Props, nextState State) bool
	WillUpdate(nextProps Props, nextState State)
	DidUpdate(prevProps Props, prevState State)
	WillUnmount()

	base() *Component
}

type phase uint8

const (
	phaseNew phase = iota
	phaseMounting
	phaseMounted
	phaseUnmounted
)

// Component is the base every stateful component embeds. Its lifecycle hooks
// are no-ops; override the ones you need on the embedding type.
type Component struct {
	props     Props
	state     State
	prevState State

	self  Instance
	typ   *ComponentType
	r     *Renderer
	owner *Component // instance whose render returned this one's node
	node  dom.Node
	phase phase

	// busy is set while the instance's subtree is being rendered and diffed.
	// SetState during that window marks it dirty instead of re-entering.
	busy  bool
	dirty bool
}

func (c *Component) base() *Component { return c }

// Props returns the current props.
func (c *Component) Props() Props { return c.props }

// State returns the current state. Treat it as read-only; use SetState.
func (c *Component) State() State {
	if c.state == nil {
		c.state = State{}
	}
	return c.state
}

// PrevState returns the state as it was before the most recent SetState.
func (c *Component) PrevState() State { return c.prevState }

// InitState seeds the state without reconciling. Intended for factories and
// WillMount.
func (c *Component) InitState(s State) {
	c.state = s
}

// Node returns the live node this instance currently renders into.
func (c *Component) Node() dom.Node { return c.node }

// Mounted reports whether the instance is attached to the document.
func (c *Component) Mounted() bool { return c.phase == phaseMounted }

// WillMount is called once, after construction and before the first render.
func (c *Component) WillMount() {}

// DidMount is called once the instance's whole subtree is in the document.
func (c *Component) DidMount() {}

// WillReceiveProps is called when a parent re-render reaches this instance.
func (c *Component) WillReceiveProps(next Props) {}

// ShouldUpdate decides whether an update proceeds. The default proceeds when
// either map differs by identity from the current one.
func (c *Component) ShouldUpdate(nextProps Props, nextState State) bool {
	return !sameMap(nextProps, c.props) || !sameMap(nextState, c.state)
}

// WillUpdate is called before props are committed and Render runs.
func (c *Component) WillUpdate(nextProps Props, nextState State) {}

// DidUpdate is called after the update has been applied to the document.
func (c *Component) DidUpdate(prevProps Props, prevState State) {}

// WillUnmount is called before the instance's node is detached.
func (c *Component) WillUnmount() {}

// SetState shallow-merges partial into the current state and, if the
// instance is mounted and ShouldUpdate agrees, synchronously reconciles the
// instance's subtree before returning.
//
// A call that arrives while the instance's own subtree is being mounted or
// updated (for example from a child's DidMount) only merges; the pass in
// progress re-renders the instance once its diff completes, before DidMount
// or DidUpdate fire. A call before the first render, such as from WillMount,
// merges and the first render picks it up. After unmount SetState fails
// with E107.
func (c *Component) SetState(partial State) error {
	if c.self == nil || c.phase == phaseUnmounted {
		return errors.New("E107").WithDetailf("component %s", c.name())
	}

	next := make(State, len(c.state)+len(partial))
	for k, v := range c.state {
		next[k] = v
	}
	for k, v := range partial {
		next[k] = v
	}

	if c.busy || c.phase != phaseMounted {
		c.prevState = c.state
		c.state = next
		if c.busy {
			c.dirty = true
		}
		return nil
	}

	proceed := c.self.ShouldUpdate(c.props, next)
	prev := c.state
	c.prevState = prev
	c.state = next
	if !proceed {
		c.r.metrics.componentUpdate(resultSkipped)
		return nil
	}
	return c.r.rerender(c, prev)
}

func (c *Component) name() string {
	if c.typ != nil {
		return c.typ.Name
	}
	return "<unregistered>"
}

// chain returns the instances rendering into the same node as c, outermost
// first, stopping before keep.
func (c *Component) chain(keep *Component) []*Component {
	var out []*Component
	for x := c; x != nil && x != keep; x = x.owner {
		out = append(out, x)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// atLevel returns the instance in c's chain whose owner is owner.
func (c *Component) atLevel(owner *Component) *Component {
	for x := c; x != nil; x = x.owner {
		if x.owner == owner {
			return x
		}
		if x == owner {
			return nil
		}
	}
	return nil
}

// sameMap compares map identity, not contents.
func sameMap(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() {
		return va.IsValid() == vb.IsValid()
	}
	if va.Kind() != reflect.Map || vb.Kind() != reflect.Map {
		return false
	}
	return va.Pointer() == vb.Pointer()
}
