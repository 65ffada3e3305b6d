// Package ota checks the upgrade server for newer firmware and replaces the
// running executable with it.
package ota

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"trafficdots-go/bus"
	"trafficdots-go/errcode"
	"trafficdots-go/services/apiconn"
	"trafficdots-go/types"
)

var TopicOTA = bus.T("status", "ota")

// Opener fetches one validated server file.
type Opener interface {
	OpenServerFile(ctx context.Context, url string) (*apiconn.File, error)
}

type ErrorState interface {
	ThrowHandleable()
	ResolveHandleable(resolveNone bool)
}

type Config struct {
	Logger zerolog.Logger
	Self   types.VersionInfo
	// UpgradeServer hosts firmware/version_<hw>.json and firmware/firmware_<hw>.bin.
	UpgradeServer string
	// Retries bounds manifest fetch+parse attempts. Default 5.
	Retries int
	// LeftOn is how long success and failure stay on the indicator. Default 5 s.
	LeftOn time.Duration
	// Executable is replaced by the download. Default os.Executable().
	Executable string
	// Restart runs after a successful apply. Default re-execs the process.
	Restart func() error
	Conn    *bus.Connection
}

// ManifestURL is the version manifest of hardware v.
func ManifestURL(server string, v types.VersionInfo) string {
	return server + "/firmware/version_" + v.HardwareTag() + ".json"
}

// FirmwareURL is the firmware image of hardware v.
func FirmwareURL(server string, v types.VersionInfo) string {
	return server + "/firmware/firmware_" + v.HardwareTag() + ".bin"
}

type Controller struct {
	cfg   Config
	log   zerolog.Logger
	open  Opener
	errs  ErrorState
	apply chan struct{}
	check chan struct{}
}

func New(cfg Config, open Opener, errs ErrorState) *Controller {
	if cfg.Retries <= 0 {
		cfg.Retries = 5
	}
	if cfg.LeftOn <= 0 {
		cfg.LeftOn = 5 * time.Second
	}
	c := &Controller{
		cfg:   cfg,
		log:   cfg.Logger.With().Str("svc", "ota").Logger(),
		open:  open,
		errs:  errs,
		apply: make(chan struct{}, 1),
		check: make(chan struct{}, 1),
	}
	if c.cfg.Restart == nil {
		c.cfg.Restart = c.reexec
	}
	return c
}

func notify(c chan struct{}) {
	select {
	case c <- struct{}{}:
	default:
	}
}

// Trigger requests an apply. Repeated triggers before it runs collapse.
func (c *Controller) Trigger() { notify(c.apply) }

// RequestCheck asks Run to query the server again.
func (c *Controller) RequestCheck() { notify(c.check) }

// Run checks for an update once and then serves triggers until ctx ends.
func (c *Controller) Run(ctx context.Context) error {
	if c.cfg.Self.Hardware == 1 {
		c.log.Info().Msg("ota disabled for hardware version 1")
	} else {
		c.CheckAvailable(ctx)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.check:
			if c.cfg.Self.Hardware != 1 {
				c.CheckAvailable(ctx)
			}
		case <-c.apply:
			if err := c.Apply(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.log.Error().Err(err).Msg("did not complete ota update")
				c.failed(ctx)
			}
		}
	}
}

// Query fetches and parses the manifest, retrying both.
func (c *Controller) Query(ctx context.Context) (types.UpdateType, types.VersionInfo, error) {
	url := ManifestURL(c.cfg.UpgradeServer, c.cfg.Self)
	var last error
	for i := 0; i < c.cfg.Retries; i++ {
		c.log.Info().Str("url", url).Msg("checking server firmware version")
		v, err := c.fetchManifest(ctx, url)
		if err == nil {
			t := Compare(c.cfg.Self, v)
			c.log.Info().Stringer("server", v).Stringer("device", c.cfg.Self).Stringer("update", t).Msg("compared versions")
			return t, v, nil
		}
		last = err
		if ctx.Err() != nil || errcode.Is(err, errcode.NoConn) {
			// The opener already retried the connection.
			break
		}
		c.log.Warn().Err(err).Int("attempt", i+1).Msg("process manifest")
	}
	return types.UpdateNone, types.VersionInfo{}, last
}

func (c *Controller) fetchManifest(ctx context.Context, url string) (types.VersionInfo, error) {
	f, err := c.open.OpenServerFile(ctx, url)
	if err != nil {
		return types.VersionInfo{}, err
	}
	defer f.Close()
	return ParseManifest(f)
}

// CheckAvailable queries the server and acts on the answer: a patch is
// applied without asking, a major or minor version is only indicated.
func (c *Controller) CheckAvailable(ctx context.Context) types.UpdateType {
	t, v, err := c.Query(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return types.UpdateNone
		}
		c.log.Warn().Err(err).Msg("ota query failed")
		if errcode.Is(err, errcode.MalformedJSON) {
			c.handleable(ctx)
		}
		return types.UpdateNone
	}
	switch t {
	case types.UpdatePatch:
		c.publish(types.OTAAvailable, v)
		c.Trigger()
	case types.UpdateMajor, types.UpdateMinor:
		c.publish(types.OTAAvailable, v)
	default:
		c.publish(types.OTAIdle, v)
	}
	return t
}

// Apply downloads the firmware over the executable and restarts. It only
// returns on failure.
func (c *Controller) Apply(ctx context.Context) error {
	c.log.Info().Msg("ota update in progress")
	c.publish(types.OTAUpdating, types.VersionInfo{})
	if err := c.download(ctx); err != nil {
		return err
	}
	c.log.Info().Msg("completed ota update")
	c.publish(types.OTASuccess, types.VersionInfo{})
	if err := wait(ctx, c.cfg.LeftOn); err != nil {
		return err
	}
	return c.cfg.Restart()
}

func (c *Controller) executable() (string, error) {
	if c.cfg.Executable != "" {
		return c.cfg.Executable, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", errcode.Wrap(errcode.Fail, "ota.executable", err)
	}
	return filepath.EvalSymlinks(exe)
}

// download writes the image next to the executable and renames it into
// place, so a failed transfer leaves the old binary intact.
func (c *Controller) download(ctx context.Context) error {
	exe, err := c.executable()
	if err != nil {
		return err
	}
	f, err := c.open.OpenServerFile(ctx, FirmwareURL(c.cfg.UpgradeServer, c.cfg.Self))
	if err != nil {
		return err
	}
	defer f.Close()

	tmp, err := os.CreateTemp(filepath.Dir(exe), filepath.Base(exe)+".ota-*")
	if err != nil {
		return errcode.Wrap(errcode.Fail, "ota.download", err)
	}
	ok := false
	defer func() {
		if !ok {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	n, err := io.Copy(tmp, f)
	if err != nil {
		return errcode.Wrap(errcode.NoConn, "ota.download", err)
	}
	if err := tmp.Chmod(0o755); err != nil {
		return errcode.Wrap(errcode.Fail, "ota.download", err)
	}
	if err := tmp.Close(); err != nil {
		return errcode.Wrap(errcode.Fail, "ota.download", err)
	}
	if err := os.Rename(tmp.Name(), exe); err != nil {
		return errcode.Wrap(errcode.Fail, "ota.download", err)
	}
	ok = true
	c.log.Info().Int64("bytes", n).Str("path", exe).Msg("firmware written")
	return nil
}

func (c *Controller) failed(ctx context.Context) {
	c.publish(types.OTAFailure, types.VersionInfo{})
	c.handleable(ctx)
	c.publish(types.OTAIdle, types.VersionInfo{})
}

// handleable shows a recoverable error for LeftOn.
func (c *Controller) handleable(ctx context.Context) {
	c.errs.ThrowHandleable()
	_ = wait(ctx, c.cfg.LeftOn)
	c.errs.ResolveHandleable(true)
}

func (c *Controller) publish(s types.OTAState, server types.VersionInfo) {
	if c.cfg.Conn == nil {
		return
	}
	c.cfg.Conn.Publish(c.cfg.Conn.NewMessage(TopicOTA,
		types.OTAStatus{State: s, Server: server, TS: time.Now().UnixMilli()}, true))
}

func (c *Controller) reexec() error {
	exe, err := c.executable()
	if err != nil {
		return err
	}
	return syscall.Exec(exe, os.Args, os.Environ())
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
