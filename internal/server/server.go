// Package server serves the live frequency-filter explorer over HTTP and
// websockets.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cwbudde/algo-spectral2d/dsp/filter/spectral"
	"github.com/cwbudde/algo-spectral2d/dsp/grid"
	"github.com/cwbudde/algo-spectral2d/dsp/spectrum"
	"github.com/cwbudde/algo-spectral2d/internal/config"
	"github.com/cwbudde/algo-spectral2d/internal/imageio"
	"github.com/cwbudde/algo-spectral2d/internal/logger"
	"github.com/cwbudde/algo-spectral2d/internal/webdemo"
	frequencystats "github.com/cwbudde/algo-spectral2d/stats/frequency"
)

const component = "server"

const shutdownTimeout = 5 * time.Second

// Server hosts the explorer page, the websocket session endpoint, a one-shot
// filter API and Prometheus metrics.
type Server struct {
	cfg      *config.Config
	log      logger.Logger
	image    grid.Grid
	reg      *prometheus.Registry
	metrics  *metrics
	upgrader websocket.Upgrader
	page     *template.Template
	mux      *http.ServeMux
	done     chan struct{}
	stop     sync.Once
}

// New creates a server whose sessions start from image.
func New(cfg *config.Config, log logger.Logger, image grid.Grid) *Server {
	if log == nil {
		log = logger.Nop()
	}
	reg := prometheus.NewRegistry()
	s := &Server{
		cfg:     cfg,
		log:     log,
		image:   image,
		reg:     reg,
		metrics: newMetrics(reg),
		page:    template.Must(template.New("index").Parse(indexHTML)),
		mux:     http.NewServeMux(),
		done:    make(chan struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 65536,
		CheckOrigin:     s.checkOrigin,
	}

	s.mux.HandleFunc("GET /{$}", s.instrument("index", s.handleIndex))
	s.mux.HandleFunc("GET /healthz", s.instrument("healthz", s.handleHealthz))
	s.mux.HandleFunc("POST /api/filter", s.instrument("filter", s.handleFilter))
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully
// and closes open websocket sessions.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(func() { s.stop.Do(func() { close(s.done) }) })

	errc := make(chan error, 1)
	go func() {
		s.log.Info(component, "listening", logger.Fields{"addr": addr})
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server: listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.log.Info(component, "stopped", nil)
	return nil
}

// statusRecorder captures the status code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		s.metrics.requests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range s.cfg.Server.AllowedOrigins {
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}
	s.log.Warning(component, "rejected websocket origin", logger.Fields{"origin": origin})
	return false
}

type indexData struct {
	Explanation string
	Panels      []panelInfo
	Radius      int
	MinRadius   int
	MaxRadius   int
}

type panelInfo struct {
	Name  string
	Title string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		Explanation: webdemo.Explanation,
		Radius:      webdemo.ClampRadius(s.cfg.Filter.Radius),
		MinRadius:   config.MinRadius,
		MaxRadius:   config.MaxRadius,
	}
	for _, name := range webdemo.PanelNames {
		data.Panels = append(data.Panels, panelInfo{Name: name, Title: webdemo.PanelTitles[name]})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.log.Error(component, err, logger.Fields{"route": "index"})
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

// panelsMessage is sent for every recomputation.
type panelsMessage struct {
	Session   string            `json:"session,omitempty"`
	Radius    int               `json:"radius"`
	Rows      int               `json:"rows"`
	Cols      int               `json:"cols"`
	LowEnergy float64           `json:"low_energy"`
	Panels    map[string]string `json:"panels,omitempty"`
	Error     string            `json:"error,omitempty"`
}

type errorMessage struct {
	Error string `json:"error"`
}

func buildPanelsMessage(img grid.Grid, res spectral.Result) (panelsMessage, error) {
	pngs, err := webdemo.RenderPanels(img, res)
	if err != nil {
		return panelsMessage{}, err
	}
	msg := panelsMessage{
		Radius: res.Radius,
		Rows:   img.Rows,
		Cols:   img.Cols,
		Panels: make(map[string]string, len(pngs)),
	}
	for name, b := range pngs {
		msg.Panels[name] = base64.StdEncoding.EncodeToString(b)
	}
	msg.LowEnergy, err = frequencystats.EnergyFraction(spectrum.PowerGrid(res.Spectrum), res.LowMask)
	if err != nil {
		return panelsMessage{}, err
	}
	return msg, nil
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	radius := s.cfg.Filter.Radius
	if v := r.URL.Query().Get("radius"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.metrics.errors.WithLabelValues("bad_radius").Inc()
			writeJSON(w, http.StatusBadRequest, errorMessage{Error: fmt.Sprintf("invalid radius %q", v)})
			return
		}
		radius = n
	}
	radius = webdemo.ClampRadius(radius)

	data, err := readUpload(w, r, s.cfg.Server.MaxUploadBytes)
	if err != nil {
		s.metrics.errors.WithLabelValues("upload").Inc()
		writeJSON(w, http.StatusBadRequest, errorMessage{Error: err.Error()})
		return
	}

	img := s.image
	if len(data) > 0 {
		s.metrics.uploadBytes.Observe(float64(len(data)))
		img, _, err = imageio.DecodeBytes(data, imageio.WithMaxSize(s.cfg.Image.MaxSize))
		if err != nil {
			s.metrics.errors.WithLabelValues("decode").Inc()
			writeJSON(w, http.StatusUnsupportedMediaType, errorMessage{Error: err.Error()})
			return
		}
	}

	res, err := spectral.Filter(img, radius, s.filterOptions()...)
	if err != nil {
		s.metrics.errors.WithLabelValues("filter").Inc()
		writeJSON(w, http.StatusUnprocessableEntity, errorMessage{Error: err.Error()})
		return
	}
	msg, err := buildPanelsMessage(img, res)
	if err != nil {
		s.metrics.errors.WithLabelValues("render").Inc()
		writeJSON(w, http.StatusInternalServerError, errorMessage{Error: err.Error()})
		return
	}
	s.metrics.filterDuration.WithLabelValues("api").Observe(time.Since(start).Seconds())

	s.log.Debug(component, "filtered upload", logger.Fields{
		"radius": radius, "rows": img.Rows, "cols": img.Cols, "bytes": len(data),
	})
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) filterOptions() []spectral.Option {
	return s.cfg.FilterOptions()
}

// readUpload returns the image bytes from a multipart "image" field or the
// raw request body.
func readUpload(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(limit); err != nil {
			return nil, fmt.Errorf("parse upload: %w", err)
		}
		f, _, err := r.FormFile("image")
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				return nil, nil
			}
			return nil, fmt.Errorf("read upload: %w", err)
		}
		defer f.Close()
		return io.ReadAll(f)
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
