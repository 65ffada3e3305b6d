package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"trafficdots-go/bus"
	"trafficdots-go/types"
)

// Presser injects button gestures; *input.Dispatcher satisfies it.
type Presser interface {
	Emit(ev types.InputEvent)
}

type ServerConfig struct {
	Logger zerolog.Logger
	Conn   *bus.Connection
	Addr   string
	MaxLED int
	// Snapshot, when set, supplies the frame sent to new clients and
	// /api/state instead of the one rebuilt from bus updates.
	Snapshot func() []types.LEDColor
}

// Message is one websocket update.
type Message struct {
	Type    string           `json:"type"` // frame, led, clear or status
	LEDs    []types.LEDColor `json:"leds,omitempty"`
	LED     *types.LEDColor  `json:"led,omitempty"`
	Topic   string           `json:"topic,omitempty"`
	Payload any              `json:"payload,omitempty"`
}

type client struct {
	mu sync.Mutex
	c  *websocket.Conn
}

func (c *client) send(m Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.c.SetWriteDeadline(time.Now().Add(2 * time.Second))
	return c.c.WriteJSON(m)
}

// Server mirrors LED writes and status topics to browsers.
type Server struct {
	cfg   ServerConfig
	log   zerolog.Logger
	press Presser

	ledSub    *bus.Subscription
	statusSub *bus.Subscription

	mu      sync.RWMutex
	frame   []types.LEDColor
	status  map[string]any
	clients map[*client]bool
}

// NewServer subscribes immediately so no update published after it returns
// is missed. press may be nil.
func NewServer(cfg ServerConfig, press Presser) *Server {
	s := &Server{
		cfg:     cfg,
		log:     cfg.Logger.With().Str("svc", "preview").Logger(),
		press:   press,
		frame:   make([]types.LEDColor, cfg.MaxLED),
		status:  map[string]any{},
		clients: map[*client]bool{},
	}
	for i := range s.frame {
		s.frame[i].LED = uint16(i + 1)
	}
	s.ledSub = cfg.Conn.Subscribe(bus.T("leds", bus.MultiLevel))
	s.statusSub = cfg.Conn.Subscribe(bus.T("status", bus.MultiLevel))
	return s
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws/frames", s.handleFrames)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.handleState).Methods("GET")
	api.HandleFunc("/press/{button}", s.handlePress).Methods("POST")
	return r
}

// Run applies bus updates and, when Addr is set, serves HTTP until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	defer s.cfg.Conn.Unsubscribe(s.ledSub)
	defer s.cfg.Conn.Unsubscribe(s.statusSub)

	errc := make(chan error, 1)
	var hs *http.Server
	if s.cfg.Addr != "" {
		hs = &http.Server{Addr: s.cfg.Addr, Handler: s.Router(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			s.log.Info().Str("addr", s.cfg.Addr).Msg("preview listening")
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
		}()
	}
	defer func() {
		if hs != nil {
			sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = hs.Shutdown(sctx)
		}
		s.closeClients()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errc:
			return err
		case m := <-s.ledSub.Channel():
			s.applyLED(m)
		case m := <-s.statusSub.Channel():
			topic := strings.Join(m.Topic, "/")
			s.mu.Lock()
			s.status[topic] = m.Payload
			s.mu.Unlock()
			s.broadcast(Message{Type: "status", Topic: topic, Payload: m.Payload})
		}
	}
}

func (s *Server) applyLED(m *bus.Message) {
	switch p := m.Payload.(type) {
	case types.LEDColor:
		i := int(p.LED) - 1
		if i < 0 || i >= len(s.frame) {
			return
		}
		s.mu.Lock()
		s.frame[i] = p
		s.mu.Unlock()
		s.broadcast(Message{Type: "led", LED: &p})
	case nil:
		s.mu.Lock()
		for i := range s.frame {
			s.frame[i] = types.LEDColor{LED: uint16(i + 1)}
		}
		s.mu.Unlock()
		s.broadcast(Message{Type: "clear"})
	}
}

// Frame returns the current frame.
func (s *Server) Frame() []types.LEDColor {
	if s.cfg.Snapshot != nil {
		return s.cfg.Snapshot()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.LEDColor(nil), s.frame...)
}

func (s *Server) broadcast(m Message) {
	s.mu.RLock()
	cs := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		cs = append(cs, c)
	}
	s.mu.RUnlock()
	for _, c := range cs {
		if err := c.send(m); err != nil {
			s.log.Debug().Err(err).Msg("dropping client")
			s.drop(c)
		}
	}
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	c.c.Close()
}

func (s *Server) closeClients() {
	s.mu.Lock()
	cs := s.clients
	s.clients = map[*client]bool{}
	s.mu.Unlock()
	for c := range cs {
		c.c.Close()
	}
}

func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{c: conn}
	// Broadcasts queue behind the snapshot on c.mu, so the frame always
	// arrives first and no update is lost between them.
	c.mu.Lock()
	s.mu.Lock()
	s.clients[c] = true
	s.mu.Unlock()
	err = conn.WriteJSON(Message{Type: "frame", LEDs: s.Frame()})
	c.mu.Unlock()
	if err != nil {
		s.drop(c)
		return
	}
	go func() {
		defer s.drop(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

type stateResponse struct {
	LEDs   []types.LEDColor `json:"leds"`
	Status map[string]any   `json:"status"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	resp := stateResponse{LEDs: s.Frame(), Status: map[string]any{}}
	s.mu.RLock()
	for k, v := range s.status {
		resp.Status[k] = v
	}
	s.mu.RUnlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

var buttons = map[string]types.InputEvent{
	"quick": types.QuickDirPress,
	"hold":  types.HoldDirPress,
	"ota":   types.OTAPress,
}

func (s *Server) handlePress(w http.ResponseWriter, r *http.Request) {
	ev, ok := buttons[mux.Vars(r)["button"]]
	if !ok {
		http.Error(w, "unknown button", http.StatusNotFound)
		return
	}
	if s.press == nil {
		http.Error(w, "buttons not wired", http.StatusServiceUnavailable)
		return
	}
	s.log.Info().Str("event", ev.String()).Msg("preview press")
	s.press.Emit(ev)
	w.WriteHeader(http.StatusNoContent)
}
