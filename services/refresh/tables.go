package refresh

import (
	"sync"

	"trafficdots-go/services/nvs"
	"trafficdots-go/types"
)

// Tables holds the live and typical speeds of both directions. Each
// category has its own lock; callers work on copies.
type Tables struct {
	n  int
	mu [2]sync.Mutex
	t  [2][2]types.SpeedTable // [category][direction]
}

func NewTables(n int) *Tables {
	t := &Tables{n: n}
	for c := range t.t {
		for d := range t.t[c] {
			t.t[c][d] = types.NewSpeedTable(n)
		}
	}
	return t
}

// Len is the number of LEDs per table.
func (t *Tables) Len() int { return t.n }

func (t *Tables) Copy(dir types.Direction, cat types.SpeedCategory) types.SpeedTable {
	t.mu[cat].Lock()
	defer t.mu[cat].Unlock()
	out := make(types.SpeedTable, t.n)
	copy(out, t.t[cat][dir])
	return out
}

// Update replaces a table with src. src is truncated or padded to Len.
func (t *Tables) Update(dir types.Direction, cat types.SpeedCategory, src types.SpeedTable) {
	t.mu[cat].Lock()
	defer t.mu[cat].Unlock()
	dst := t.t[cat][dir]
	dst.Reset()
	copy(dst, src)
}

// Store persists speed tables in the worker namespace.
type Store struct {
	s *nvs.Store
}

func NewStore(s *nvs.Store) *Store { return &Store{s: s} }

// Key names the blob of one table, e.g. current_north.
func Key(dir types.Direction, cat types.SpeedCategory) string {
	return cat.String() + "_" + dir.String()
}

// WorkerKeys are the only keys kept in the worker namespace.
var WorkerKeys = []string{
	Key(types.North, types.Live), Key(types.South, types.Live),
	Key(types.North, types.Typical), Key(types.South, types.Typical),
}

func (s *Store) ns() (*nvs.Namespace, error) { return s.s.Namespace(nvs.NamespaceWorker) }

func (s *Store) Load(dir types.Direction, cat types.SpeedCategory, n int) (types.SpeedTable, error) {
	ns, err := s.ns()
	if err != nil {
		return nil, err
	}
	b, err := ns.GetBlob(Key(dir, cat))
	if err != nil {
		return nil, err
	}
	t := types.NewSpeedTable(n)
	if err := t.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) Save(dir types.Direction, cat types.SpeedCategory, t types.SpeedTable) error {
	ns, err := s.ns()
	if err != nil {
		return err
	}
	b, err := t.MarshalBinary()
	if err != nil {
		return err
	}
	return ns.SetBlob(Key(dir, cat), b)
}
