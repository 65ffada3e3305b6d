// Package nvs is a small namespaced key/value store kept as one YAML file
// per namespace under a directory. Each write replaces the file atomically,
// so a power cut leaves either the old or the new contents.
package nvs

import (
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"trafficdots-go/errcode"
)

// MaxKeyLen is the longest accepted key or namespace name.
const MaxKeyLen = 15

// Well-known namespaces and keys.
const (
	NamespaceMain   = "main"
	NamespaceWorker = "worker"

	KeySSID = "wifi_ssid"
	KeyPass = "wifi_pass"
)

type kind string

const (
	kindString kind = "str"
	kindBlob   kind = "blob"
)

type entry struct {
	Kind  kind   `yaml:"kind"`
	Value string `yaml:"value"`
}

// Store owns the directory. Namespaces share its lock.
type Store struct {
	dir string
	mu  sync.Mutex
}

// Open creates dir if needed and returns a store rooted there.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errcode.New(errcode.InvalidParams, "nvs.open", "empty dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errcode.Wrap(errcode.Fail, "nvs.open", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *Store) Dir() string { return s.dir }

// Namespace is a handle on one namespace. It is cheap; open one per operation.
type Namespace struct {
	s    *Store
	name string
}

func (s *Store) Namespace(name string) (*Namespace, error) {
	if err := validName(name); err != nil {
		return nil, errcode.Wrap(errcode.InvalidParams, "nvs.namespace", err)
	}
	return &Namespace{s: s, name: name}, nil
}

func validName(n string) error {
	if n == "" || len(n) > MaxKeyLen {
		return errors.New("name length")
	}
	if strings.ContainsAny(n, `/\.`) {
		return errors.New("name has path characters")
	}
	return nil
}

func (n *Namespace) path() string { return filepath.Join(n.s.dir, n.name+".yaml") }

func (n *Namespace) load() (map[string]entry, error) {
	b, err := os.ReadFile(n.path())
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]entry{}, nil
	}
	if err != nil {
		return nil, err
	}
	m := map[string]entry{}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (n *Namespace) store(m map[string]entry) error {
	b, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(n.s.dir, n.name+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err = f.Write(b); err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, n.path())
	}
	if err != nil {
		_ = os.Remove(tmp)
	}
	return err
}

func (n *Namespace) get(op, key string, want kind) (string, error) {
	if err := validName(key); err != nil {
		return "", errcode.Wrap(errcode.InvalidParams, op, err)
	}
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	m, err := n.load()
	if err != nil {
		return "", errcode.Wrap(errcode.Fail, op, err)
	}
	e, ok := m[key]
	if !ok {
		return "", errcode.New(errcode.NotFound, op, n.name+"/"+key)
	}
	if e.Kind != want {
		return "", errcode.New(errcode.InvalidResponse, op, n.name+"/"+key+" holds "+string(e.Kind))
	}
	return e.Value, nil
}

func (n *Namespace) set(op, key string, e entry) error {
	if err := validName(key); err != nil {
		return errcode.Wrap(errcode.InvalidParams, op, err)
	}
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	m, err := n.load()
	if err != nil {
		return errcode.Wrap(errcode.Fail, op, err)
	}
	m[key] = e
	if err := n.store(m); err != nil {
		return errcode.Wrap(errcode.Fail, op, err)
	}
	return nil
}

// GetString returns a string value or errcode.NotFound.
func (n *Namespace) GetString(key string) (string, error) {
	return n.get("nvs.get_string", key, kindString)
}

func (n *Namespace) SetString(key, v string) error {
	return n.set("nvs.set_string", key, entry{Kind: kindString, Value: v})
}

// GetBlob returns a blob value or errcode.NotFound.
func (n *Namespace) GetBlob(key string) ([]byte, error) {
	v, err := n.get("nvs.get_blob", key, kindBlob)
	if err != nil {
		return nil, err
	}
	b, err := base64.StdEncoding.DecodeString(v)
	if err != nil {
		return nil, errcode.Wrap(errcode.InvalidResponse, "nvs.get_blob", err)
	}
	return b, nil
}

func (n *Namespace) SetBlob(key string, b []byte) error {
	return n.set("nvs.set_blob", key, entry{Kind: kindBlob, Value: base64.StdEncoding.EncodeToString(b)})
}

// Erase removes key. Erasing a missing key is not an error.
func (n *Namespace) Erase(key string) error {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	m, err := n.load()
	if err != nil {
		return errcode.Wrap(errcode.Fail, "nvs.erase", err)
	}
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	if err := n.store(m); err != nil {
		return errcode.Wrap(errcode.Fail, "nvs.erase", err)
	}
	return nil
}

// Keys returns the stored keys in sorted order.
func (n *Namespace) Keys() ([]string, error) {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	m, err := n.load()
	if err != nil {
		return nil, errcode.Wrap(errcode.Fail, "nvs.keys", err)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// EraseExcept removes every key not listed and returns the removed keys.
func (n *Namespace) EraseExcept(keep ...string) ([]string, error) {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	m, err := n.load()
	if err != nil {
		return nil, errcode.Wrap(errcode.Fail, "nvs.erase", err)
	}
	allowed := make(map[string]bool, len(keep))
	for _, k := range keep {
		allowed[k] = true
	}
	var removed []string
	for k := range m {
		if !allowed[k] {
			delete(m, k)
			removed = append(removed, k)
		}
	}
	if len(removed) == 0 {
		return nil, nil
	}
	sort.Strings(removed)
	if err := n.store(m); err != nil {
		return nil, errcode.Wrap(errcode.Fail, "nvs.erase", err)
	}
	return removed, nil
}
