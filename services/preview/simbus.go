package preview

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"

	"trafficdots-go/drivers/is31fl3741"
	"trafficdots-go/drivers/is31fl3741/ledmap"
	"trafficdots-go/types"
)

var (
	ErrNoDevice = errors.New("simbus: no device at address")
	ErrBadTx    = errors.New("simbus: malformed transaction")
)

const pages = int(is31fl3741.PageFunction) + 1

type simChip struct {
	unlocked bool
	page     uint8
	regs     [pages][256]byte
}

func (c *simChip) reset() {
	c.unlocked = false
	c.page = 0
	c.regs = [pages][256]byte{}
}

// SimBus is an in-memory bank of IS31FL3741 chips. It implements both
// drivers.I2C and periph's i2c.Bus so it can sit under i2ctest.Record.
type SimBus struct {
	mu     sync.Mutex
	chips  map[uint16]*simChip
	fault  func(addr uint16, w []byte) error
	speed  physic.Frequency
	writes int
}

// NewSimBus creates chips at each address.
func NewSimBus(addrs ...uint16) *SimBus {
	s := &SimBus{chips: make(map[uint16]*simChip, len(addrs))}
	for _, a := range addrs {
		s.chips[a] = &simChip{}
	}
	return s
}

func (s *SimBus) String() string { return "simbus" }

func (s *SimBus) SetSpeed(f physic.Frequency) error {
	s.mu.Lock()
	s.speed = f
	s.mu.Unlock()
	return nil
}

// Speed returns the last speed set.
func (s *SimBus) Speed() physic.Frequency {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

// SetFault installs a hook consulted before every transaction; a non-nil
// return fails the transaction without touching chip state. nil removes it.
func (s *SimBus) SetFault(f func(addr uint16, w []byte) error) {
	s.mu.Lock()
	s.fault = f
	s.mu.Unlock()
}

func (s *SimBus) Tx(addr uint16, w, r []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fault != nil {
		if err := s.fault(addr, w); err != nil {
			return err
		}
	}
	c := s.chips[addr]
	if c == nil {
		return fmt.Errorf("%w 0x%02x", ErrNoDevice, addr)
	}
	switch {
	case len(w) == 1 && len(r) > 0:
		for i := range r {
			r[i] = c.read(addr, w[0]+uint8(i))
		}
		return nil
	case len(w) >= 2 && len(r) == 0:
		for i, v := range w[1:] {
			c.write(w[0]+uint8(i), v)
		}
		s.writes++
		return nil
	}
	return ErrBadTx
}

func (c *simChip) read(addr uint16, reg uint8) uint8 {
	switch reg {
	case is31fl3741.RegID:
		return uint8(addr << 1)
	case is31fl3741.RegCommand:
		return c.page
	case is31fl3741.RegWriteLock:
		return 0
	}
	return c.regs[c.page][reg]
}

func (c *simChip) write(reg, v uint8) {
	switch reg {
	case is31fl3741.RegWriteLock:
		c.unlocked = v == is31fl3741.UnlockKey
		return
	case is31fl3741.RegCommand:
		if c.unlocked && int(v) < pages {
			c.page = v
		}
		c.unlocked = false
		return
	}
	if c.page == uint8(is31fl3741.PageFunction) && reg == is31fl3741.RegReset {
		if v == is31fl3741.ResetKey {
			c.reset()
		}
		return
	}
	c.regs[c.page][reg] = v
}

// Writes is the number of successful write transactions so far.
func (s *SimBus) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Register returns a register value of one chip.
func (s *SimBus) Register(addr uint16, page is31fl3741.Page, reg uint8) uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.chips[addr]
	if c == nil || int(page) >= pages {
		return 0
	}
	return c.regs[page][reg]
}

// Page returns the page a chip has selected.
func (s *SimBus) Page(addr uint16) is31fl3741.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.chips[addr]; c != nil {
		return is31fl3741.Page(c.page)
	}
	return 0
}

// Color returns the PWM bytes of one LED.
func (s *SimBus) Color(m *ledmap.Map, ledNum int) (types.LEDColor, bool) {
	loc, ok := m.Lookup(ledNum)
	if !ok {
		return types.LEDColor{}, false
	}
	addr := m.Chips[loc.Chip]
	return types.LEDColor{
		LED: uint16(ledNum),
		R:   s.Register(addr, loc.Page, loc.R),
		G:   s.Register(addr, loc.Page, loc.G),
		B:   s.Register(addr, loc.Page, loc.B),
	}, true
}

// Frame returns the PWM bytes of every LED in m.
func (s *SimBus) Frame(m *ledmap.Map) []types.LEDColor {
	out := make([]types.LEDColor, 0, m.MaxLED())
	for n := 1; n <= m.MaxLED(); n++ {
		c, _ := s.Color(m, n)
		out = append(out, c)
	}
	return out
}
