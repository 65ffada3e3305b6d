package wifi

import (
	"context"
	"errors"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficdots-go/bus"
	"trafficdots-go/errcode"
	"trafficdots-go/services/nvs"
	"trafficdots-go/types"
)

type fakeProbe struct {
	mu    sync.Mutex
	fails int // remaining failures
	calls int
}

func (p *fakeProbe) Probe(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.fails > 0 {
		p.fails--
		return errcode.New(errcode.NoConn, "probe", "down")
	}
	return nil
}

func (p *fakeProbe) fail(n int) {
	p.mu.Lock()
	p.fails = n
	p.mu.Unlock()
}

type fakeJoiner struct {
	mu    sync.Mutex
	joins []string
}

func (j *fakeJoiner) Join(_ context.Context, ssid, pass string) error {
	j.mu.Lock()
	j.joins = append(j.joins, ssid+"/"+pass)
	j.mu.Unlock()
	return nil
}

func (j *fakeJoiner) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.joins)
}

type creds map[string]string

func (c creds) GetString(k string) (string, error) {
	v, ok := c[k]
	if !ok {
		return "", errcode.New(errcode.NotFound, "get", k)
	}
	return v, nil
}

func run(t *testing.T, s *Supervisor) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestConnects(t *testing.T) {
	conn := bus.NewBus(8).NewConnection("test")
	sub := conn.Subscribe(TopicWifi)
	j := &fakeJoiner{}
	s := New(Config{
		Conn:   conn,
		Probe:  &fakeProbe{},
		Joiner: j,
		Creds:  creds{nvs.KeySSID: "home", nvs.KeyPass: "secret"},
		Period: time.Millisecond,
	})
	assert.False(t, s.Connected())
	run(t, s)

	require.True(t, s.WaitConnected(context.Background(), time.Second))
	assert.Equal(t, types.LinkUp, s.Link())
	assert.Equal(t, 1, j.count(), "joined once, then only probed")

	deadline := time.After(time.Second)
	for {
		select {
		case m := <-sub.Channel():
			st := m.Payload.(types.WifiStatus)
			if st.Link == types.LinkUp {
				assert.Equal(t, "home", st.SSID)
				return
			}
		case <-deadline:
			t.Fatal("no up status published")
		}
	}
}

func TestMissingCredentialsIsBadConfig(t *testing.T) {
	p := &fakeProbe{}
	j := &fakeJoiner{}
	s := New(Config{Probe: p, Joiner: j, Creds: creds{nvs.KeyPass: "x"}, Period: time.Millisecond})
	run(t, s)

	require.Eventually(t, func() bool { return s.Link() == types.LinkBadConfig }, time.Second, time.Millisecond)
	assert.False(t, s.WaitConnected(context.Background(), 20*time.Millisecond))
	assert.Zero(t, j.count())
}

func TestRejoinsWhileDown(t *testing.T) {
	p := &fakeProbe{}
	p.fail(3)
	j := &fakeJoiner{}
	s := New(Config{
		Probe: p, Joiner: j,
		Creds:      creds{nvs.KeySSID: "home", nvs.KeyPass: ""},
		Period:     time.Millisecond,
		MaxBackoff: 2 * time.Millisecond,
	})
	run(t, s)

	require.True(t, s.WaitConnected(context.Background(), time.Second))
	assert.Equal(t, 4, j.count())

	// Losing the server drops the link and waiting blocks again.
	p.fail(1000)
	require.Eventually(t, func() bool { return !s.Connected() }, time.Second, time.Millisecond)
	assert.False(t, s.WaitConnected(context.Background(), 10*time.Millisecond))
}

func TestWaitConnectedHonoursContext(t *testing.T) {
	s := New(Config{Probe: &fakeProbe{}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, s.WaitConnected(ctx, 0))
}

func TestDialProbe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			c.Close()
		}
	}()
	addr := ln.Addr().String()
	assert.NoError(t, DialProbe{Addr: addr}.Probe(context.Background()))

	ln.Close()
	err = DialProbe{Addr: addr, Timeout: 100 * time.Millisecond}.Probe(context.Background())
	assert.True(t, errcode.Is(err, errcode.NoConn), "got %v", err)
}

func script(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nmcli")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestNMCLIJoin(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "args")
	n := NMCLI{Path: script(t, `echo "$@" > `+out+"\n"), Device: "wlan0"}

	require.NoError(t, n.Join(context.Background(), "home", "secret"))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "--wait 15 device wifi connect home password secret ifname wlan0", strings.TrimSpace(string(got)))

	assert.Equal(t, []string{"--wait", "15", "device", "wifi", "connect", "open"}, NMCLI{}.args("open", ""))
}

func TestNMCLIJoinFails(t *testing.T) {
	n := NMCLI{Path: script(t, "echo 'Error: No network with SSID found.'\nexit 10\n")}
	err := n.Join(context.Background(), "home", "x")
	require.Error(t, err)
	assert.True(t, errcode.Is(err, errcode.NoConn))
	assert.Contains(t, err.Error(), "No network with SSID")
	var exit *exec.ExitError
	assert.True(t, errors.As(err, &exit))
}
