package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cwbudde/algo-spectral2d/dsp/grid"
	"github.com/cwbudde/algo-spectral2d/internal/config"
	"github.com/cwbudde/algo-spectral2d/internal/imageio"
	"github.com/cwbudde/algo-spectral2d/internal/webdemo"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	cfg := config.Default()
	cfg.Filter.Radius = 4
	s := New(cfg, nil, imageio.Reference(24))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func encodePNG(t *testing.T, g grid.Grid) []byte {
	t.Helper()
	b, err := imageio.PNGBytes(g, imageio.ScaleClamp)
	if err != nil {
		t.Fatalf("PNGBytes: %v", err)
	}
	return b
}

func decodePanels(t *testing.T, r io.Reader) panelsMessage {
	t.Helper()
	var msg panelsMessage
	if err := json.NewDecoder(r).Decode(&msg); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return msg
}

func requirePanels(t *testing.T, msg panelsMessage, rows, cols int) {
	t.Helper()
	if msg.Error != "" {
		t.Fatalf("unexpected error: %s", msg.Error)
	}
	if msg.Rows != rows || msg.Cols != cols {
		t.Fatalf("dims = %dx%d, want %dx%d", msg.Rows, msg.Cols, rows, cols)
	}
	if len(msg.Panels) != len(webdemo.PanelNames) {
		t.Fatalf("got %d panels, want %d", len(msg.Panels), len(webdemo.PanelNames))
	}
	raw, err := base64.StdEncoding.DecodeString(msg.Panels[webdemo.PanelLowPass])
	if err != nil {
		t.Fatalf("base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != cols || b.Dy() != rows {
		t.Fatalf("panel size = %v", b)
	}
	if msg.LowEnergy <= 0 || msg.LowEnergy > 1+1e-12 {
		t.Fatalf("low energy fraction = %v", msg.LowEnergy)
	}
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok\n" {
		t.Fatalf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestIndexPage(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	page := string(body)

	for _, want := range []string{`type="range"`, `max="100"`, `value="4"`, "panel-high_pass", "High-pass filter"} {
		if !strings.Contains(page, want) {
			t.Fatalf("page missing %q", want)
		}
	}

	resp, err = http.Get(ts.URL + "/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown path status = %d", resp.StatusCode)
	}
}

func TestFilterAPIRawBody(t *testing.T) {
	_, ts := newTestServer(t)
	body := encodePNG(t, imageio.Reference(16))

	resp, err := http.Post(ts.URL+"/api/filter?radius=3", "image/png", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	msg := decodePanels(t, resp.Body)
	requirePanels(t, msg, 16, 16)
	if msg.Radius != 3 {
		t.Fatalf("radius = %d, want 3", msg.Radius)
	}
}

func TestFilterAPIMultipart(t *testing.T) {
	_, ts := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "chart.png")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write(encodePNG(t, imageio.Reference(10)))
	_ = mw.Close()

	resp, err := http.Post(ts.URL+"/api/filter?radius=500", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	msg := decodePanels(t, resp.Body)
	requirePanels(t, msg, 10, 10)
	if msg.Radius != config.MaxRadius {
		t.Fatalf("radius = %d, want clamp to %d", msg.Radius, config.MaxRadius)
	}
}

func TestFilterAPIDefaultImage(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/api/filter", "application/octet-stream", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	msg := decodePanels(t, resp.Body)
	requirePanels(t, msg, 24, 24)
	if msg.Radius != 4 {
		t.Fatalf("radius = %d, want configured 4", msg.Radius)
	}
}

func TestFilterAPIErrors(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name string
		url  string
		body string
		code int
	}{
		{"bad radius", "/api/filter?radius=abc", "", http.StatusBadRequest},
		{"garbage image", "/api/filter", "definitely not an image", http.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+tt.url, "application/octet-stream", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.code {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.code)
			}
			var e errorMessage
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
				t.Fatalf("error body = %+v, %v", e, err)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/filter?radius=2", "image/png", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{
		"fourierfilter_filter_duration_seconds",
		`fourierfilter_http_requests_total{code="200",route="filter"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics missing %q", want)
		}
	}
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	return conn
}

func readPanels(t *testing.T, conn *websocket.Conn) panelsMessage {
	t.Helper()
	var msg panelsMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return msg
}

func TestWebSocketSession(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dialWS(t, ts)

	first := readPanels(t, conn)
	requirePanels(t, first, 24, 24)
	if first.Session == "" || first.Radius != 4 {
		t.Fatalf("initial message = session %q radius %d", first.Session, first.Radius)
	}

	if err := conn.WriteJSON(map[string]int{"radius": 9}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	second := readPanels(t, conn)
	requirePanels(t, second, 24, 24)
	if second.Radius != 9 || second.Session != first.Session {
		t.Fatalf("after radius change: radius %d session %q", second.Radius, second.Session)
	}
	if second.LowEnergy < first.LowEnergy {
		t.Fatalf("larger radius passed less energy: %v < %v", second.LowEnergy, first.LowEnergy)
	}

	upload := base64.StdEncoding.EncodeToString(encodePNG(t, imageio.Reference(12)))
	if err := conn.WriteJSON(map[string]string{"image": upload}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	third := readPanels(t, conn)
	requirePanels(t, third, 12, 12)
	if third.Radius != 9 {
		t.Fatalf("upload reset radius to %d", third.Radius)
	}
}

func TestWebSocketBadMessage(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dialWS(t, ts)
	readPanels(t, conn)

	if err := conn.WriteJSON(map[string]string{"image": "!!!"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if msg := readPanels(t, conn); msg.Error == "" {
		t.Fatal("expected error for invalid base64")
	}

	if err := conn.WriteJSON(map[string]any{}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if msg := readPanels(t, conn); msg.Error == "" {
		t.Fatal("expected error for empty message")
	}

	// The session survives errors.
	if err := conn.WriteJSON(map[string]int{"radius": 2}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if msg := readPanels(t, conn); msg.Error != "" || msg.Radius != 2 {
		t.Fatalf("session did not recover: %+v", msg.Error)
	}
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	_, ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	header := http.Header{"Origin": []string{"https://evil.example"}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		conn.Close()
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("resp = %v", resp)
	}
	resp.Body.Close()
}

func TestRunShutsDown(t *testing.T) {
	s := New(config.Default(), nil, imageio.Reference(8))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx, addr) }()

	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
