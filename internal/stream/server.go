// Package stream serves live terrain frames to websocket clients. The
// simulation advances on a fixed-rate loop owned by the server; control
// messages from clients are queued and applied between macro-steps, matching
// the rule that modes and wind never change while events are in flight.
package stream

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"dunesim/internal/core"
	"dunesim/internal/sims/dunes"

	"github.com/gorilla/websocket"
)

// Frame is one terrain snapshot sent to every connected client.
type Frame struct {
	Type    string    `json:"type"`
	Step    int64     `json:"step"`
	Width   int       `json:"width"`
	Height  int       `json:"height"`
	Heights []float32 `json:"heights"`
}

// control carries a client request applied between macro-steps.
type control struct {
	TPS        *int     `json:"tps,omitempty"`
	WindX      *float64 `json:"windX,omitempty"`
	WindY      *float64 `json:"windY,omitempty"`
	Abrasion   *bool    `json:"abrasion,omitempty"`
	Vegetation *bool    `json:"vegetation,omitempty"`
}

// Server owns the simulation loop and the websocket client set.
type Server struct {
	world *dunes.World
	addr  string

	upgrader websocket.Upgrader

	mu       sync.RWMutex
	clients  map[*websocket.Conn]*sync.Mutex
	controls chan control

	pacer *core.FixedStep
}

// New constructs a streaming server for the given world.
func New(world *dunes.World, addr string, tps int) *Server {
	return &Server{
		world: world,
		addr:  addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:  make(map[*websocket.Conn]*sync.Mutex),
		controls: make(chan control, 16),
		pacer:    core.NewFixedStep(tps),
	}
}

// ListenAndServe runs the simulation loop and blocks serving HTTP.
func (s *Server) ListenAndServe() error {
	go s.simulationLoop()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	return http.ListenAndServe(s.addr, mux)
}

func (s *Server) simulationLoop() {
	for {
		s.drainControls()
		if !s.pacer.ShouldStep() {
			time.Sleep(time.Millisecond)
			continue
		}
		s.world.Step()
		s.broadcast(s.snapshot())
	}
}

// drainControls applies queued client requests while no step is running.
func (s *Server) drainControls() {
	for {
		select {
		case c := <-s.controls:
			if c.TPS != nil {
				s.pacer.SetTPS(*c.TPS)
			}
			wind := s.world.Wind()
			if c.WindX != nil {
				wind[0] = float32(*c.WindX)
			}
			if c.WindY != nil {
				wind[1] = float32(*c.WindY)
			}
			s.world.SetWind(wind)
			if c.Abrasion != nil {
				s.world.SetAbrasionMode(*c.Abrasion)
			}
			if c.Vegetation != nil {
				s.world.SetVegetationMode(*c.Vegetation)
			}
		default:
			return
		}
	}
}

// snapshot copies the current heightfield into a frame.
func (s *Server) snapshot() Frame {
	size := s.world.Size()
	heights := make([]float32, size.W*size.H)
	for j := 0; j < size.H; j++ {
		for i := 0; i < size.W; i++ {
			heights[j*size.W+i] = s.world.Height(i, j)
		}
	}
	return Frame{
		Type:    "frame",
		Step:    s.world.Steps(),
		Width:   size.W,
		Height:  size.H,
		Heights: heights,
	}
}

func (s *Server) broadcast(f Frame) {
	payload, err := json.Marshal(f)
	if err != nil {
		log.Println("stream: marshal frame:", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for conn, connMu := range s.clients {
		connMu.Lock()
		err := conn.WriteMessage(websocket.TextMessage, payload)
		connMu.Unlock()
		if err != nil {
			// The reader goroutine notices the broken pipe and cleans up.
			log.Println("stream: write:", err)
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("stream: upgrade:", err)
		return
	}
	defer conn.Close()

	connMu := &sync.Mutex{}
	s.mu.Lock()
	s.clients[conn] = connMu
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	// Send the current state so clients render before the next step lands.
	first := s.snapshot()
	if payload, err := json.Marshal(first); err == nil {
		connMu.Lock()
		conn.WriteMessage(websocket.TextMessage, payload)
		connMu.Unlock()
	}

	for {
		var c control
		if err := conn.ReadJSON(&c); err != nil {
			return
		}
		select {
		case s.controls <- c:
		default:
			// Drop the request rather than block the reader.
		}
	}
}
