package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vango-dev/vdomkit/pkg/dom"
	"github.com/vango-dev/vdomkit/pkg/memdom"
	"github.com/vango-dev/vdomkit/pkg/protocol"
	"github.com/vango-dev/vdomkit/pkg/vdom"
)

func newTestServer(t *testing.T, app string) (*Server, *httptest.Server) {
	t.Helper()
	s, err := New(&Config{
		App:      app,
		Registry: prometheus.NewRegistry(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

type client struct {
	t    *testing.T
	conn *websocket.Conn
	hs   *protocol.Handshake
}

func dial(t *testing.T, ts *httptest.Server) *client {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	c := &client{t: t, conn: conn}
	f := c.read()
	if f.Type != protocol.FrameHandshake {
		t.Fatalf("first frame = %s, want Handshake", f.Type)
	}
	if c.hs, err = protocol.DecodeHandshake(f.Payload); err != nil {
		t.Fatalf("DecodeHandshake() error = %v", err)
	}
	return c
}

func (c *client) read() *protocol.Frame {
	c.t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := c.conn.ReadMessage()
	if err != nil {
		c.t.Fatalf("ReadMessage() error = %v", err)
	}
	f, err := protocol.DecodeFrame(msg)
	if err != nil {
		c.t.Fatalf("DecodeFrame() error = %v", err)
	}
	return f
}

// batch reads mutation frames until one carries FlagFinal.
func (c *client) batch() []memdom.Mutation {
	c.t.Helper()
	var br protocol.BatchReader
	for {
		f := c.read()
		ms, done, err := br.Add(f)
		if err != nil {
			c.t.Fatalf("BatchReader.Add(%s) error = %v", f.Type, err)
		}
		if done {
			return ms
		}
	}
}

func (c *client) errorFrame() *protocol.ErrorMessage {
	c.t.Helper()
	f := c.read()
	if f.Type != protocol.FrameError {
		c.t.Fatalf("frame = %s, want Error", f.Type)
	}
	em, err := protocol.DecodeErrorMessage(f.Payload)
	if err != nil {
		c.t.Fatalf("DecodeErrorMessage() error = %v", err)
	}
	return em
}

func (c *client) send(data []byte) {
	c.t.Helper()
	if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		c.t.Fatalf("WriteMessage() error = %v", err)
	}
}

func (c *client) event(node uint32, typ, value string) {
	c.t.Helper()
	payload := protocol.EncodeEvent(&protocol.Event{Node: node, Type: typ, Value: value})
	c.send(protocol.NewFrame(protocol.FrameEvent, payload).Encode())
}

// elementWithClass returns the ID of the element whose class is set to cls.
func elementWithClass(t *testing.T, ms []memdom.Mutation, cls string) uint32 {
	t.Helper()
	for _, m := range ms {
		if m.Op == memdom.OpSetAttr && m.Name == "class" && m.Value == cls {
			return m.Target
		}
	}
	t.Fatalf("no element with class %q in %d mutations", cls, len(ms))
	return 0
}

func TestNewRejectsUnknownApp(t *testing.T) {
	_, err := New(&Config{App: "nope", Registry: prometheus.NewRegistry()})
	if err == nil {
		t.Fatal("New() error = nil, want error")
	}
}

func TestSessionInitialRender(t *testing.T) {
	_, ts := newTestServer(t, "counter")
	c := dial(t, ts)

	if c.hs.Version != protocol.Version {
		t.Errorf("Version = %d, want %d", c.hs.Version, protocol.Version)
	}
	if c.hs.SessionID == "" {
		t.Error("SessionID is empty")
	}

	ms := c.batch()
	if len(ms) == 0 {
		t.Fatal("initial batch is empty")
	}
	for _, m := range ms {
		if m.Target == c.hs.Root && m.Op == memdom.OpCreateElement {
			t.Errorf("root was created in the batch: %v", m)
		}
	}

	appended := false
	for _, m := range ms {
		if m.Op == memdom.OpAppend && m.Target == c.hs.Root {
			appended = true
		}
	}
	if !appended {
		t.Error("nothing appended to the announced root")
	}
}

func TestSessionClickUpdatesCount(t *testing.T) {
	_, ts := newTestServer(t, "counter")
	c := dial(t, ts)
	inc := elementWithClass(t, c.batch(), "inc")

	c.event(inc, "click", "")
	ms := c.batch()
	if len(ms) != 1 || ms[0].Op != memdom.OpSetText || ms[0].Value != "1" {
		t.Fatalf("click batch = %v, want one SetText \"1\"", ms)
	}

	c.event(inc, "click", "")
	ms = c.batch()
	if len(ms) != 1 || ms[0].Value != "2" {
		t.Fatalf("second click batch = %v, want one SetText \"2\"", ms)
	}
}

func TestSessionTodoInput(t *testing.T) {
	_, ts := newTestServer(t, "todo")
	c := dial(t, ts)
	ms := c.batch()

	var input uint32
	for _, m := range ms {
		if m.Op == memdom.OpAddListener && m.Name == "input" {
			input = m.Target
		}
	}
	if input == 0 {
		t.Fatal("no input listener in initial batch")
	}
	add := elementWithClass(t, ms, "add")

	c.event(input, "input", "milk")
	ms = c.batch()
	if memdom.Count(ms, memdom.OpSetProperty) != 1 {
		t.Errorf("input batch = %v, want one SetProperty", ms)
	}

	c.event(add, "click", "")
	ms = c.batch()
	found := false
	for _, m := range ms {
		if m.Op == memdom.OpCreateText && m.Value == "milk" {
			found = true
		}
	}
	if !found {
		t.Errorf("add batch = %v, want a text node for the new item", ms)
	}
}

func TestSessionUnknownNode(t *testing.T) {
	_, ts := newTestServer(t, "counter")
	c := dial(t, ts)
	inc := elementWithClass(t, c.batch(), "inc")

	c.event(99999, "click", "")
	em := c.errorFrame()
	if em.Code != "E202" {
		t.Errorf("Code = %q, want E202", em.Code)
	}
	if em.Fatal {
		t.Error("unknown node should not be fatal")
	}

	// The session keeps working.
	c.event(inc, "click", "")
	if ms := c.batch(); len(ms) != 1 {
		t.Errorf("batch after rejection = %v, want one mutation", ms)
	}
}

func TestSessionMalformedFrames(t *testing.T) {
	_, ts := newTestServer(t, "counter")
	c := dial(t, ts)
	c.batch()

	tests := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{0x01}},
		{"unknown type", protocol.NewFrame(protocol.FrameType(9), nil).Encode()},
		{"mutations from client", protocol.NewFrame(protocol.FrameMutations, []byte{0}).Encode()},
		{"truncated event", protocol.NewFrame(protocol.FrameEvent, []byte{0x01, 0x05}).Encode()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.send(tt.data)
			if em := c.errorFrame(); em.Code != "E201" {
				t.Errorf("Code = %q, want E201", em.Code)
			}
		})
	}
}

func TestSessionMessageTooLarge(t *testing.T) {
	s, err := New(&Config{
		MaxMessageSize: 16,
		Registry:       prometheus.NewRegistry(),
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	c := dial(t, ts)
	c.batch()
	c.event(1, "click", strings.Repeat("x", 64))

	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = c.conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseMessageTooBig) {
		t.Errorf("ReadMessage() error = %v, want close %d", err, websocket.CloseMessageTooBig)
	}
}

// fragile renders nil after its button is clicked.
type fragile struct {
	vdom.Component
	click *dom.Listener
}

func (f *fragile) Render() *vdom.VNode {
	if f.State().Bool("broken") {
		return nil
	}
	return vdom.Button(vdom.Class("break"), vdom.On("click", f.click), "break")
}

var fragileType = vdom.Define("Fragile", func(vdom.Props) vdom.Instance {
	f := &fragile{}
	f.click = dom.NewListener(func(dom.Event) {
		_ = f.SetState(vdom.State{"broken": true})
	})
	return f
})

func TestSessionFailedUpdateIsFatal(t *testing.T) {
	s, err := New(&Config{
		Root:     func() (*vdom.VNode, error) { return vdom.Div(fragileType.Create()), nil },
		Registry: prometheus.NewRegistry(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	c := dial(t, ts)
	btn := elementWithClass(t, c.batch(), "break")

	c.event(btn, "click", "")
	em := c.errorFrame()
	if em.Code != "E106" || !em.Fatal {
		t.Errorf("error = %+v, want fatal E106", em)
	}
	if got := testutil.ToFloat64(s.metrics.events.WithLabelValues(eventFailed)); got != 1 {
		t.Errorf("failed events = %v, want 1", got)
	}
	if got := testutil.ToFloat64(s.metrics.events.WithLabelValues(eventDispatched)); got != 0 {
		t.Errorf("dispatched events = %v, want 0", got)
	}

	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := c.conn.ReadMessage(); err == nil {
		t.Error("session should close after a failed update")
	}
}

func TestSessionCountTracksConnections(t *testing.T) {
	s, ts := newTestServer(t, "counter")
	c := dial(t, ts)
	c.batch()

	if got := s.SessionCount(); got != 1 {
		t.Fatalf("SessionCount() = %d, want 1", got)
	}

	c.conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for s.SessionCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("session not removed after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func get(t *testing.T, url string) (int, string, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s error = %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, resp.Header.Get("Content-Type"), string(body)
}

func TestIndexServesSnapshot(t *testing.T) {
	_, ts := newTestServer(t, "counter")
	code, ctype, body := get(t, ts.URL+"/")

	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !strings.HasPrefix(ctype, "text/html") {
		t.Errorf("Content-Type = %q", ctype)
	}
	for _, want := range []string{
		`<div id="root"><main id="app">`,
		`<h1 class="greeting">Hello, vdomkit!</h1>`,
		`<span class="count">0</span>`,
		`<script src="/client.js"></script>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q\n%s", want, body)
		}
	}
}

func TestClientJS(t *testing.T) {
	_, ts := newTestServer(t, "counter")
	code, ctype, body := get(t, ts.URL+"/client.js")

	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !strings.HasPrefix(ctype, "text/javascript") {
		t.Errorf("Content-Type = %q", ctype)
	}
	if !strings.Contains(body, "new WebSocket(") {
		t.Error("client.js does not open a WebSocket")
	}
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t, "counter")
	code, _, body := get(t, ts.URL+"/healthz")
	if code != http.StatusOK || body != "ok" {
		t.Errorf("GET /healthz = %d %q", code, body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t, "counter")
	c := dial(t, ts)
	inc := elementWithClass(t, c.batch(), "inc")
	c.event(inc, "click", "")
	c.batch()

	code, _, body := get(t, ts.URL+"/metrics")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	for _, want := range []string{
		"vdomkit_server_sessions_total 1",
		"vdomkit_server_sessions_active 1",
		`vdomkit_server_events_total{result="dispatched"} 1`,
		`vdomkit_server_frames_sent_total{type="Handshake"} 1`,
		"vdomkit_server_bytes_received_total",
		"vdomkit_reconciler_passes_total",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}
