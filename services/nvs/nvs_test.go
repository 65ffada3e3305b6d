package nvs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficdots-go/errcode"
)

func openNS(t *testing.T, name string) (*Store, *Namespace) {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	ns, err := s.Namespace(name)
	require.NoError(t, err)
	return s, ns
}

func TestStringRoundTrip(t *testing.T) {
	s, ns := openNS(t, NamespaceMain)

	_, err := ns.GetString(KeySSID)
	assert.True(t, errcode.Is(err, errcode.NotFound))

	require.NoError(t, ns.SetString(KeySSID, "roadside"))
	require.NoError(t, ns.SetString(KeyPass, "hunter2"))

	// A fresh handle sees the persisted values.
	again, err := s.Namespace(NamespaceMain)
	require.NoError(t, err)
	v, err := again.GetString(KeySSID)
	require.NoError(t, err)
	assert.Equal(t, "roadside", v)

	keys, err := again.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{KeyPass, KeySSID}, keys)
}

func TestBlobRoundTrip(t *testing.T) {
	_, ns := openNS(t, NamespaceWorker)
	blob := []byte{0x00, 0xff, 0x10, 0x00, 0x7f}

	require.NoError(t, ns.SetBlob("current_north", blob))
	got, err := ns.GetBlob("current_north")
	require.NoError(t, err)
	assert.Equal(t, blob, got)

	_, err = ns.GetString("current_north")
	assert.True(t, errcode.Is(err, errcode.InvalidResponse))
}

func TestEraseAndEraseExcept(t *testing.T) {
	_, ns := openNS(t, NamespaceWorker)
	for _, k := range []string{"current_north", "current_south", "stale", "old_key"} {
		require.NoError(t, ns.SetString(k, "x"))
	}

	require.NoError(t, ns.Erase("missing"))
	require.NoError(t, ns.Erase("stale"))

	removed, err := ns.EraseExcept("current_north", "current_south", "typical_north")
	require.NoError(t, err)
	assert.Equal(t, []string{"old_key"}, removed)

	keys, err := ns.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"current_north", "current_south"}, keys)

	removed, err = ns.EraseExcept("current_north", "current_south")
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestNoTempFilesLeft(t *testing.T) {
	s, ns := openNS(t, NamespaceMain)
	require.NoError(t, ns.SetString(KeySSID, "a"))
	require.NoError(t, ns.SetString(KeySSID, "b"))

	ents, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	require.Len(t, ents, 1)
	assert.Equal(t, NamespaceMain+".yaml", ents[0].Name())
}

func TestInvalidNames(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	for _, n := range []string{"", "../etc", "a.b", "namespace_too_long"} {
		_, err := s.Namespace(n)
		assert.True(t, errcode.Is(err, errcode.InvalidParams), n)
	}

	ns, err := s.Namespace(NamespaceMain)
	require.NoError(t, err)
	assert.True(t, errcode.Is(ns.SetString("a_key_that_is_too_long", "v"), errcode.InvalidParams))

	_, err = Open("")
	assert.True(t, errcode.Is(err, errcode.InvalidParams))
}

func TestCorruptFile(t *testing.T) {
	s, ns := openNS(t, NamespaceMain)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), NamespaceMain+".yaml"), []byte("- just\n- a list\n"), 0o644))

	_, err := ns.GetString(KeySSID)
	assert.True(t, errcode.Is(err, errcode.Fail))
}
