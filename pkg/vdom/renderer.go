package vdom

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vdomkit/internal/errors"
	"github.com/vango-dev/vdomkit/pkg/dom"
)

// Default tracer name for reconciliation spans.
const defaultTracerName = "vdomkit"

// Renderer reconciles virtual trees against live documents.
//
// It holds the side-table linking every live node it created to the VNode
// that node was last reconciled against. A Renderer is not safe for
// concurrent use; drive it and the documents it renders into from a single
// goroutine.
type Renderer struct {
	nodes   map[dom.Node]*VNode
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer

	ctx    context.Context // Parent of pass spans; nil means Background
	failed error           // First failed pass since TakeError
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithLogger sets the logger. Decisions are logged at debug level and failed
// passes at error level.
func WithLogger(logger *slog.Logger) RendererOption {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics records pass and lifecycle metrics.
func WithMetrics(m *Metrics) RendererOption {
	return func(r *Renderer) {
		r.metrics = m
	}
}

// WithTracer sets the tracer used for pass spans.
// Default: otel.Tracer("vdomkit").
func WithTracer(tracer trace.Tracer) RendererOption {
	return func(r *Renderer) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// NewRenderer creates a Renderer.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		nodes:  make(map[dom.Node]*VNode),
		logger: slog.Default().With("component", "vdom"),
		tracer: otel.Tracer(defaultTracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render reconciles v into container against the container's first child.
func (r *Renderer) Render(v *VNode, container dom.Node) error {
	if container == nil {
		return errors.New("E104").WithDetail("nil container")
	}
	return r.Reconcile(r.context(), v, container, container.FirstChild())
}

// Reconcile runs one pass: v is diffed against existing, which must be a
// child of container or nil to append a fresh mount.
func (r *Renderer) Reconcile(ctx context.Context, v *VNode, container, existing dom.Node) (err error) {
	if container == nil {
		return errors.New("E104").WithDetail("nil container")
	}
	ctx, span := r.tracer.Start(ctx, "vdom.render",
		trace.WithAttributes(attribute.String("vdom.type", v.TypeName())),
	)
	start := time.Now()
	defer func() { r.finishPass(span, "render", start, err) }()
	defer r.bind(ctx)()

	return r.diff(v, slot{container: container, existing: existing})
}

// VNodeOf returns the VNode the live node was last reconciled against, or
// nil if this Renderer does not track n.
func (r *Renderer) VNodeOf(n dom.Node) *VNode {
	return r.nodes[n]
}

// InstanceOf returns the outermost stateful instance rendering into n.
func (r *Renderer) InstanceOf(n dom.Node) Instance {
	v := r.nodes[n]
	if v == nil || v.instance == nil {
		return nil
	}
	c := v.instance
	for c.owner != nil {
		c = c.owner
	}
	return c.self
}

// Tracked returns the number of live nodes in the side-table.
func (r *Renderer) Tracked() int {
	return len(r.nodes)
}

// SetContext sets the parent context for the spans of passes that SetState
// starts outside Render, typically from an event listener. nil resets it.
func (r *Renderer) SetContext(ctx context.Context) {
	r.ctx = ctx
}

// TakeError returns the first pass that failed since the last call and
// clears it. Listeners usually cannot return SetState's error; whoever
// dispatches events checks here afterwards.
func (r *Renderer) TakeError() error {
	err := r.failed
	r.failed = nil
	return err
}

func (r *Renderer) context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// bind makes ctx the parent of nested pass spans until the returned func runs.
func (r *Renderer) bind(ctx context.Context) func() {
	prev := r.ctx
	r.ctx = ctx
	return func() { r.ctx = prev }
}

// rerender reconciles a stateful instance after a state change.
func (r *Renderer) rerender(c *Component, prevState State) (err error) {
	ctx, span := r.tracer.Start(r.context(), "vdom.setState",
		trace.WithAttributes(attribute.String("vdom.component", c.name())),
	)
	start := time.Now()
	defer func() { r.finishPass(span, "setState", start, err) }()
	defer r.bind(ctx)()

	if c.node == nil || c.node.ParentNode() == nil {
		return errors.New("E107").WithDetailf("component %s has no attached node", c.name())
	}

	prevProps := c.props
	c.busy = true
	defer func() { c.busy = false }()
	c.self.WillUpdate(c.props, c.state)
	out, err := r.renderInstance(c)
	if err != nil {
		return err
	}
	if err := r.diff(out, slot{container: c.node.ParentNode(), existing: c.node, keep: c}); err != nil {
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

// settle re-renders c for as long as state or props changed while its
// subtree was being diffed.
func (r *Renderer) settle(c *Component) error {
	for c.dirty {
		c.dirty = false
		if c.phase == phaseUnmounted {
			return nil
		}
		if c.node == nil || c.node.ParentNode() == nil {
			return errors.New("E107").WithDetailf("component %s has no attached node", c.name())
		}
		out, err := r.renderInstance(c)
		if err != nil {
			return err
		}
		if err := r.diff(out, slot{container: c.node.ParentNode(), existing: c.node, keep: c}); err != nil {
			return err
		}
		r.metrics.componentUpdate(resultRendered)
	}
	return nil
}

func (r *Renderer) finishPass(span trace.Span, trigger string, start time.Time, err error) {
	r.metrics.pass(trigger, time.Since(start), err)
	if err != nil {
		if r.failed == nil {
			r.failed = err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("reconciliation failed",
			"trigger", trigger,
			"code", errors.Code(err),
			"error", err,
		)
	}
	span.End()
}

// defaultRenderer backs the package-level Render.
var defaultRenderer = NewRenderer()

// Render reconciles v into container using the package's default Renderer.
func Render(v *VNode, container dom.Node) error {
	return defaultRenderer.Render(v, container)
}
