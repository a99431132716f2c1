package server

import (
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/cwbudde/algo-spectral2d/dsp/filter/spectral"
	"github.com/cwbudde/algo-spectral2d/internal/logger"
	"github.com/cwbudde/algo-spectral2d/internal/webdemo"
)

const writeTimeout = 10 * time.Second

// clientMessage is one request from the page: a new radius, a new image
// (base64 of the encoded file), or both.
type clientMessage struct {
	Radius *int   `json:"radius,omitempty"`
	Image  string `json:"image,omitempty"`
}

// handleWebSocket runs one explorer session. Each connection owns its own
// engine, and every message triggers at most one recomputation.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.metrics.requests.WithLabelValues("ws", "400").Inc()
		s.log.Warning(component, "websocket upgrade failed", logger.Fields{"error": err.Error()})
		return
	}
	s.metrics.requests.WithLabelValues("ws", "101").Inc()

	id := uuid.New().String()
	s.metrics.activeConns.Inc()
	s.log.Info(component, "session opened", logger.Fields{"session": id, "remote": r.RemoteAddr})

	closed := make(chan struct{})
	defer func() {
		close(closed)
		conn.Close()
		s.metrics.activeConns.Dec()
		s.log.Info(component, "session closed", logger.Fields{"session": id})
	}()
	go func() {
		select {
		case <-s.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
			conn.Close()
		case <-closed:
		}
	}()

	// base64 inflates uploads by 4/3; leave room for the JSON envelope.
	conn.SetReadLimit(s.cfg.Server.MaxUploadBytes/3*4 + 4096)

	engine := webdemo.NewEngine(s.filterOptions()...)
	engine.OnUpdate(func(spectral.Result) { s.metrics.recomputes.Inc() })
	if _, err := engine.SetRadius(s.cfg.Filter.Radius); err != nil {
		s.log.Error(component, err, logger.Fields{"session": id})
		return
	}

	start := time.Now()
	if err := engine.SetImage(s.image); err != nil {
		s.sendError(conn, id, err)
		return
	}
	if !s.sendPanels(conn, id, engine, start) {
		return
	}

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug(component, "session read ended", logger.Fields{"session": id, "error": err.Error()})
			}
			return
		}

		start := time.Now()
		if err := s.apply(engine, msg); err != nil {
			s.metrics.errors.WithLabelValues("session").Inc()
			if !s.sendError(conn, id, err) {
				return
			}
			continue
		}
		if !s.sendPanels(conn, id, engine, start) {
			return
		}
	}
}

func (s *Server) apply(engine *webdemo.Engine, msg clientMessage) error {
	if msg.Radius == nil && msg.Image == "" {
		return errors.New("message carries neither radius nor image")
	}
	if msg.Radius != nil {
		if _, err := engine.SetRadius(*msg.Radius); err != nil {
			return err
		}
	}
	if msg.Image != "" {
		data, err := base64.StdEncoding.DecodeString(msg.Image)
		if err != nil {
			return err
		}
		s.metrics.uploadBytes.Observe(float64(len(data)))
		if err := engine.LoadImage(data, s.cfg.Image.MaxSize); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) sendPanels(conn *websocket.Conn, id string, engine *webdemo.Engine, start time.Time) bool {
	img, err := engine.Image()
	if err != nil {
		return s.sendError(conn, id, err)
	}
	res, err := engine.Result()
	if err != nil {
		return s.sendError(conn, id, err)
	}
	msg, err := buildPanelsMessage(img, res)
	if err != nil {
		return s.sendError(conn, id, err)
	}
	msg.Session = id
	s.metrics.filterDuration.WithLabelValues("ws").Observe(time.Since(start).Seconds())

	return s.write(conn, id, msg)
}

func (s *Server) sendError(conn *websocket.Conn, id string, err error) bool {
	s.log.Warning(component, "session request failed", logger.Fields{"session": id, "error": err.Error()})
	return s.write(conn, id, panelsMessage{Session: id, Error: err.Error()})
}

func (s *Server) write(conn *websocket.Conn, id string, msg panelsMessage) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		s.log.Debug(component, "session write failed", logger.Fields{"session": id, "error": err.Error()})
		return false
	}
	return true
}
