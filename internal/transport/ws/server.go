// Package ws serves the viewer websocket endpoint: it broadcasts engine
// output to connected viewers and forwards their filter/focus commands to the
// daemon loop. The engine itself is never touched from connection goroutines.
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"seamscan.dev/internal/geom"
	"seamscan.dev/internal/protocol"
)

// Command is a viewer request applied by the daemon between ticks.
type Command interface {
	isCommand()
}

type SetFilterCmd struct {
	Filter geom.PointFilter
}

type FocusCmd struct {
	Seam          geom.Seam
	WRange        geom.Range
	SegmentLength float32
}

type UnfocusCmd struct{}

func (SetFilterCmd) isCommand() {}
func (FocusCmd) isCommand()     {}
func (UnfocusCmd) isCommand()   {}

// WelcomeInfo is echoed to each viewer on HELLO.
type WelcomeInfo struct {
	TickRateHz           int
	DefaultSegmentLength float32
}

type client struct {
	out chan []byte
}

type Server struct {
	log      *log.Logger
	info     WelcomeInfo
	filter   func() geom.PointFilter
	known    func(geom.Seam) bool
	upgrader websocket.Upgrader
	commands chan Command

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewServer builds the hub. filter supplies the engine's current filter for
// WELCOME messages and known answers whether a seam is in the active set;
// both are called from connection goroutines and must be safe for that (the
// daemon passes atomic snapshot accessors).
func NewServer(logger *log.Logger, info WelcomeInfo, filter func() geom.PointFilter, known func(geom.Seam) bool) *Server {
	return &Server{
		log:    logger,
		info:   info,
		filter: filter,
		known:  known,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		commands: make(chan Command, 64),
		clients:  make(map[*client]struct{}),
	}
}

// Commands is drained by the daemon loop.
func (s *Server) Commands() <-chan Command {
	return s.commands
}

// Broadcast sends one encoded message to every connected viewer. Slow viewers
// drop old frames rather than stalling the daemon.
func (s *Server) Broadcast(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		sendLatest(c.out, b)
	}
}

// BroadcastJSON encodes v and broadcasts it.
func (s *Server) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Printf("broadcast encode: %v", err)
		return
	}
	s.Broadcast(b)
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		c := &client{out: make(chan []byte, 64)}
		s.mu.Lock()
		s.clients[c] = struct{}{}
		s.mu.Unlock()
		defer func() {
			s.mu.Lock()
			delete(s.clients, c)
			s.mu.Unlock()
		}()

		done := make(chan struct{})
		defer close(done)

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-done:
					return
				case b := <-c.out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			s.handleMessage(c, msg)
		}
	}
}

func (s *Server) handleMessage(c *client, msg []byte) {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		s.sendError(c, protocol.ErrProtoBadRequest, err.Error())
		return
	}

	switch base.Type {
	case protocol.TypeHello:
		s.send(c, protocol.WelcomeMsg{
			Type:                 protocol.TypeWelcome,
			ProtocolVersion:      protocol.Version,
			TickRateHz:           s.info.TickRateHz,
			DefaultSegmentLength: s.info.DefaultSegmentLength,
			Filter:               protocol.FilterName(s.filter()),
		})

	case protocol.TypeSetFilter:
		var m protocol.SetFilterMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			s.sendError(c, protocol.ErrProtoBadRequest, err.Error())
			return
		}
		f, err := protocol.ParseFilter(m.Filter)
		if err != nil {
			s.sendError(c, protocol.ErrBadFilter, err.Error())
			return
		}
		s.pushCommand(SetFilterCmd{Filter: f})

	case protocol.TypeFocus:
		var m protocol.FocusMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			s.sendError(c, protocol.ErrProtoBadRequest, err.Error())
			return
		}
		seam, err := m.Seam.ToSeam()
		if err != nil {
			s.sendError(c, protocol.ErrProtoBadRequest, err.Error())
			return
		}
		if m.SegmentLength <= 0 {
			s.sendError(c, protocol.ErrProtoBadRequest, "segment_length must be positive")
			return
		}
		if !s.known(seam) {
			s.sendError(c, protocol.ErrUnknownSeam, "seam is not in the active set")
			return
		}
		s.pushCommand(FocusCmd{
			Seam:          seam,
			WRange:        geom.Inclusive(m.WRange[0], m.WRange[1]),
			SegmentLength: m.SegmentLength,
		})

	case protocol.TypeUnfocus:
		s.pushCommand(UnfocusCmd{})

	default:
		s.sendError(c, protocol.ErrProtoBadRequest, "unknown message type "+base.Type)
	}
}

func (s *Server) pushCommand(cmd Command) {
	select {
	case s.commands <- cmd:
	default:
		s.log.Printf("command dropped: daemon not draining")
	}
}

func (s *Server) send(c *client, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Printf("send encode: %v", err)
		return
	}
	sendLatest(c.out, b)
}

func (s *Server) sendError(c *client, code, message string) {
	s.send(c, protocol.ErrorMsg{Type: protocol.TypeError, Code: code, Message: message})
}

// sendLatest delivers b without ever blocking: if the client's buffer is
// full, the oldest frame is dropped to make room.
func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
