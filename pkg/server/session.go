package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	vderrors "github.com/vango-dev/vdomkit/internal/errors"
	"github.com/vango-dev/vdomkit/pkg/dom"
	"github.com/vango-dev/vdomkit/pkg/memdom"
	"github.com/vango-dev/vdomkit/pkg/protocol"
	"github.com/vango-dev/vdomkit/pkg/vdom"
)

// ErrSessionClosed is returned when writing to a closed session.
var ErrSessionClosed = errors.New("server: session closed")

// Session is one live connection. Its document and renderer are owned by the
// goroutine running run; everything else is safe for concurrent use.
type Session struct {
	ID string

	conn *websocket.Conn
	mu   sync.Mutex // Protects conn writes

	doc      *memdom.Document
	root     dom.Element
	renderer *vdom.Renderer

	events    chan *protocol.Event
	done      chan struct{}
	closeOnce sync.Once

	config  *Config
	metrics *metrics
	logger  *slog.Logger
}

func newSession(id string, conn *websocket.Conn, cfg *Config, m *metrics, r *vdom.Renderer, logger *slog.Logger) *Session {
	doc := memdom.New()
	return &Session{
		ID:       id,
		conn:     conn,
		doc:      doc,
		root:     doc.CreateElement("div"),
		renderer: r,
		events:   make(chan *protocol.Event, cfg.EventBuffer),
		done:     make(chan struct{}),
		config:   cfg,
		metrics:  m,
		logger:   logger.With("session_id", id),
	}
}

// start sends the handshake and the initial render.
func (s *Session) start(app *vdom.VNode) error {
	// The root container is created before the app renders; the client
	// already has its own and only needs to learn the ID.
	s.doc.Drain()

	hs := &protocol.Handshake{
		Version:   protocol.Version,
		SessionID: s.ID,
		Root:      memdom.ID(s.root),
	}
	if err := s.write(protocol.NewFrame(protocol.FrameHandshake, protocol.EncodeHandshake(hs))); err != nil {
		return err
	}

	if err := s.renderer.Render(app, s.root); err != nil {
		return err
	}
	s.logger.Info("session started", "app_nodes", s.renderer.Tracked())
	return s.flush()
}

// readLoop decodes client frames and queues events for run. It returns when
// the connection fails or the session closes.
func (s *Session) readLoop() {
	defer s.Close()

	s.conn.SetReadLimit(s.config.MaxMessageSize)
	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			switch {
			case errors.Is(err, websocket.ErrReadLimit):
				// The connection has already sent CloseMessageTooBig.
				s.metrics.events.WithLabelValues(eventRejected).Inc()
				err := vderrors.New("E203").WithDetailf("limit is %d bytes", s.config.MaxMessageSize)
				s.logger.Warn("frame rejected", "code", err.Code, "error", err)
			case websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure):
				s.logger.Error("read error", "error", err)
			}
			return
		}
		s.metrics.bytesReceived.Add(float64(len(msg)))

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.reject(vderrors.New("E201").Wrap(err))
			continue
		}
		if frame.Type != protocol.FrameEvent {
			s.reject(vderrors.New("E201").WithDetailf("unexpected %s frame", frame.Type))
			continue
		}
		ev, err := protocol.DecodeEvent(frame.Payload)
		if err != nil {
			s.reject(vderrors.New("E201").Wrap(err))
			continue
		}

		select {
		case s.events <- ev:
		case <-s.done:
			return
		default:
			s.metrics.events.WithLabelValues(eventDropped).Inc()
			s.logger.Warn("event queue full, dropping event", "node", ev.Node, "type", ev.Type)
		}
	}
}

// run dispatches queued events until the session closes or ctx is done.
func (s *Session) run(ctx context.Context) {
	defer s.Close()
	for {
		select {
		case ev := <-s.events:
			if err := s.handle(ctx, ev); err != nil {
				s.logger.Error("event failed", "node", ev.Node, "type", ev.Type, "error", err)
				return
			}
		case <-s.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// handle dispatches one event and streams the resulting mutations. A
// non-nil error ends the session.
func (s *Session) handle(ctx context.Context, ev *protocol.Event) (err error) {
	ctx, span := s.config.Tracer.Start(ctx, "session.event",
		trace.WithAttributes(
			attribute.String("session.id", s.ID),
			attribute.String("event.type", ev.Type),
			attribute.Int64("event.node", int64(ev.Node)),
		),
	)
	defer span.End()

	node, ok := s.doc.NodeByID(ev.Node)
	if !ok {
		s.reject(vderrors.New("E202").WithDetailf("node #%d", ev.Node))
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			s.metrics.events.WithLabelValues(eventPanicked).Inc()
			s.logger.Error("listener panic", "panic", r, "stack", string(debug.Stack()))
			span.SetStatus(codes.Error, fmt.Sprint(r))
			s.sendError(vderrors.New("E204").WithDetailf("%v", r), true)
			err = fmt.Errorf("listener panic: %v", r)
		}
	}()

	s.renderer.SetContext(ctx)
	defer s.renderer.SetContext(nil)
	s.renderer.TakeError()

	if err := s.doc.Dispatch(node, dom.Event{Type: ev.Type, Value: ev.Value}); err != nil {
		s.reject(vderrors.New("E202").Wrap(err))
		return nil
	}
	// Listeners drop SetState's error; a failed pass leaves a partial batch.
	if perr := s.renderer.TakeError(); perr != nil {
		s.metrics.events.WithLabelValues(eventFailed).Inc()
		span.RecordError(perr)
		span.SetStatus(codes.Error, perr.Error())
		s.sendError(vderrors.FromError(perr, "E205"), true)
		return fmt.Errorf("update failed: %w", perr)
	}
	s.metrics.events.WithLabelValues(eventDispatched).Inc()
	return s.flush()
}

// flush sends the mutations recorded since the last flush.
func (s *Session) flush() error {
	ms := s.doc.Drain()
	if len(ms) == 0 {
		return nil
	}
	frames, err := protocol.MutationFrames(ms)
	if err != nil {
		return err
	}
	for _, f := range frames {
		if err := s.write(f); err != nil {
			return err
		}
	}
	s.logger.Debug("mutations sent", "count", len(ms), "frames", len(frames))
	return nil
}

// reject reports a bad client frame without closing the session.
func (s *Session) reject(err *vderrors.Error) {
	s.metrics.events.WithLabelValues(eventRejected).Inc()
	s.logger.Warn("frame rejected", "code", err.Code, "error", err)
	s.sendError(err, false)
}

func (s *Session) sendError(err *vderrors.Error, fatal bool) {
	em := &protocol.ErrorMessage{Code: err.Code, Message: err.Error(), Fatal: fatal}
	if werr := s.write(protocol.NewFrame(protocol.FrameError, protocol.EncodeErrorMessage(em))); werr != nil {
		s.logger.Debug("error frame not sent", "error", werr)
	}
}

func (s *Session) write(f *protocol.Frame) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	data := f.Encode()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return err
	}
	s.metrics.framesSent.WithLabelValues(f.Type.String()).Inc()
	s.metrics.bytesSent.Add(float64(len(data)))
	return nil
}

// Close ends the session. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)

		s.mu.Lock()
		s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		s.conn.Close()
		s.mu.Unlock()

		s.logger.Info("session closed")
	})
}
