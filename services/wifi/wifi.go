// Package wifi supervises the network link the data and upgrade servers are
// reached over. The host OS owns the radio; the supervisor joins the stored
// network when it can and reports whether the servers are reachable.
package wifi

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"trafficdots-go/bus"
	"trafficdots-go/errcode"
	"trafficdots-go/services/nvs"
	"trafficdots-go/types"
)

var TopicWifi = bus.T("status", "wifi")

// Prober checks that the servers are reachable.
type Prober interface {
	Probe(ctx context.Context) error
}

// Joiner asks the host to associate with a network.
type Joiner interface {
	Join(ctx context.Context, ssid, pass string) error
}

// Credentials reads stored strings; *nvs.Namespace satisfies it.
type Credentials interface {
	GetString(key string) (string, error)
}

// DialProbe opens and closes a TCP connection to Addr.
type DialProbe struct {
	Addr    string
	Timeout time.Duration
}

func (p DialProbe) Probe(ctx context.Context) error {
	d := net.Dialer{Timeout: p.Timeout}
	if d.Timeout <= 0 {
		d.Timeout = 3 * time.Second
	}
	c, err := d.DialContext(ctx, "tcp", p.Addr)
	if err != nil {
		return errcode.Wrap(errcode.NoConn, "wifi.probe", err)
	}
	return c.Close()
}

type Config struct {
	Logger zerolog.Logger
	Conn   *bus.Connection
	Probe  Prober
	// Joiner is optional; without one the host is assumed to manage
	// association itself.
	Joiner Joiner
	Creds  Credentials
	// Period between probes while connected. Default 5 s.
	Period time.Duration
	// MaxBackoff caps the doubling retry interval while down. Default 1 min.
	MaxBackoff time.Duration
}

type Supervisor struct {
	cfg Config
	log zerolog.Logger

	mu   sync.Mutex
	link types.Link
	ssid string
	up   chan struct{} // closed while the link is up
}

func New(cfg Config) *Supervisor {
	if cfg.Period <= 0 {
		cfg.Period = 5 * time.Second
	}
	if cfg.MaxBackoff < cfg.Period {
		cfg.MaxBackoff = time.Minute
		if cfg.MaxBackoff < cfg.Period {
			cfg.MaxBackoff = cfg.Period
		}
	}
	return &Supervisor{
		cfg:  cfg,
		log:  cfg.Logger.With().Str("svc", "wifi").Logger(),
		link: types.LinkDown,
		up:   make(chan struct{}),
	}
}

// Connected reports whether the last probe succeeded.
func (s *Supervisor) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.link == types.LinkUp
}

// Link reports the current link state.
func (s *Supervisor) Link() types.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.link
}

// WaitConnected blocks until the link is up, timeout passes or ctx ends.
// A non-positive timeout waits without limit.
func (s *Supervisor) WaitConnected(ctx context.Context, timeout time.Duration) bool {
	s.mu.Lock()
	up := s.up
	s.mu.Unlock()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	select {
	case <-up:
		return true
	case <-ctx.Done():
		return false
	}
}

// Run probes the link until ctx is cancelled, rejoining the stored network
// with a doubling backoff while it is down.
func (s *Supervisor) Run(ctx context.Context) error {
	s.publish()
	wait := s.cfg.Period
	for {
		s.step(ctx)
		if s.Connected() {
			wait = s.cfg.Period
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		if !s.Connected() {
			wait *= 2
			if wait > s.cfg.MaxBackoff {
				wait = s.cfg.MaxBackoff
			}
		}
	}
}

func (s *Supervisor) step(ctx context.Context) {
	ssid, pass, ok := s.credentials()
	if !ok {
		s.setLink(types.LinkBadConfig, "")
		return
	}
	if !s.Connected() && s.cfg.Joiner != nil {
		if err := s.cfg.Joiner.Join(ctx, ssid, pass); err != nil {
			s.log.Warn().Err(err).Str("ssid", ssid).Msg("join failed")
			s.setLink(types.LinkDown, ssid)
			return
		}
	}
	if err := s.cfg.Probe.Probe(ctx); err != nil {
		if s.Connected() {
			s.log.Warn().Err(err).Msg("server unreachable")
		}
		s.setLink(types.LinkDown, ssid)
		return
	}
	s.setLink(types.LinkUp, ssid)
}

func (s *Supervisor) credentials() (ssid, pass string, ok bool) {
	if s.cfg.Creds == nil {
		return "", "", true
	}
	ssid, err := s.cfg.Creds.GetString(nvs.KeySSID)
	if err != nil || ssid == "" {
		return "", "", false
	}
	pass, err = s.cfg.Creds.GetString(nvs.KeyPass)
	if err != nil {
		return "", "", false
	}
	return ssid, pass, true
}

func (s *Supervisor) setLink(l types.Link, ssid string) {
	s.mu.Lock()
	if s.link == l && s.ssid == ssid {
		s.mu.Unlock()
		return
	}
	prev := s.link
	s.link, s.ssid = l, ssid
	switch {
	case l == types.LinkUp:
		close(s.up)
	case prev == types.LinkUp:
		s.up = make(chan struct{})
	}
	s.mu.Unlock()

	s.log.Info().Str("link", string(l)).Str("ssid", ssid).Msg("link changed")
	s.publish()
}

func (s *Supervisor) publish() {
	if s.cfg.Conn == nil {
		return
	}
	s.mu.Lock()
	st := types.WifiStatus{Link: s.link, SSID: s.ssid, TS: time.Now().UnixMilli()}
	s.mu.Unlock()
	s.cfg.Conn.Publish(s.cfg.Conn.NewMessage(TopicWifi, st, true))
}
