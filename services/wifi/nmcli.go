package wifi

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"trafficdots-go/errcode"
)

// NMCLI joins networks through NetworkManager's command line client.
type NMCLI struct {
	// Path defaults to "nmcli".
	Path string
	// Device optionally pins the interface, e.g. wlan0.
	Device string
}

func (n NMCLI) args(ssid, pass string) []string {
	a := []string{"--wait", "15", "device", "wifi", "connect", ssid}
	if pass != "" {
		a = append(a, "password", pass)
	}
	if n.Device != "" {
		a = append(a, "ifname", n.Device)
	}
	return a
}

func (n NMCLI) Join(ctx context.Context, ssid, pass string) error {
	path := n.Path
	if path == "" {
		path = "nmcli"
	}
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, path, n.args(ssid, pass)...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(out.String())
		if msg == "" {
			return errcode.Wrap(errcode.NoConn, "wifi.join", err)
		}
		return &errcode.E{C: errcode.NoConn, Op: "wifi.join", Msg: msg, Err: err}
	}
	return nil
}
