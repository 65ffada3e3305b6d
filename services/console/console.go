// Package console collects Wi-Fi credentials over the serial console.
package console

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/jacobsa/go-serial/serial"
	"github.com/rs/zerolog"

	"trafficdots-go/errcode"
	"trafficdots-go/services/nvs"
)

const (
	PromptSSID = "\nWifi SSID: "
	PromptPass = "\nWifi Password: "
)

// OpenPort opens a serial port at 8N1 with blocking single-byte reads.
func OpenPort(name string, baud uint) (io.ReadWriteCloser, error) {
	p, err := serial.Open(serial.OpenOptions{
		PortName:        name,
		BaudRate:        baud,
		DataBits:        8,
		StopBits:        1,
		ParityMode:      serial.PARITY_NONE,
		MinimumReadSize: 1,
	})
	if err != nil {
		return nil, errcode.Wrap(errcode.Fail, "console.open", err)
	}
	return p, nil
}

// PromptCredentials asks for an SSID and a password. Input is echoed; a
// line ends on '\n' or '\r' and anything past maxLen bytes is dropped.
func PromptCredentials(rw io.ReadWriter, maxLen int) (ssid, pass string, err error) {
	r := &lineReader{r: bufio.NewReader(rw), w: rw}
	if ssid, err = r.prompt(PromptSSID, maxLen); err != nil {
		return "", "", err
	}
	if pass, err = r.prompt(PromptPass, maxLen); err != nil {
		return "", "", err
	}
	return ssid, pass, nil
}

type lineReader struct {
	r      *bufio.Reader
	w      io.Writer
	lastCR bool
}

func (l *lineReader) prompt(p string, maxLen int) (string, error) {
	if _, err := io.WriteString(l.w, p); err != nil {
		return "", errcode.Wrap(errcode.Fail, "console.prompt", err)
	}
	buf := make([]byte, 0, maxLen)
	for {
		c, err := l.r.ReadByte()
		if err != nil {
			return "", errcode.Wrap(errcode.Fail, "console.prompt", err)
		}
		// The '\n' of a "\r\n" pair ends the previous line, not this one.
		if c == '\n' && l.lastCR && len(buf) == 0 {
			l.lastCR = false
			continue
		}
		l.lastCR = c == '\r'
		if c == '\n' || c == '\r' {
			_, _ = io.WriteString(l.w, "\r")
			return string(buf), nil
		}
		if len(buf) < maxLen {
			buf = append(buf, c)
			_, _ = l.w.Write([]byte{c})
		}
	}
}

// LED is a direction indicator flashed while waiting for input.
type LED interface {
	Set(on bool)
}

// Store receives the credentials; *nvs.Namespace satisfies it.
type Store interface {
	SetString(key, v string) error
}

type Config struct {
	Logger zerolog.Logger
	// MaxLen bounds each answer. Default 32.
	MaxLen int
	// FlashPeriod is the half-period of the waiting flash. Default 500 ms.
	FlashPeriod time.Duration
	// Flash are toggled together until the credentials are stored.
	Flash []LED
}

// RequestCredentials prompts on rw and stores the answers under the main
// namespace keys. The flash LEDs are left off on return. Cancelling ctx
// stops the flash but cannot interrupt a blocked read.
func RequestCredentials(ctx context.Context, rw io.ReadWriter, store Store, cfg Config) (string, error) {
	if cfg.MaxLen <= 0 {
		cfg.MaxLen = 32
	}
	if cfg.FlashPeriod <= 0 {
		cfg.FlashPeriod = 500 * time.Millisecond
	}
	log := cfg.Logger.With().Str("svc", "console").Logger()

	fctx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		flash(fctx, cfg.Flash, cfg.FlashPeriod)
	}()
	defer func() {
		stop()
		<-done
	}()

	log.Info().Msg("waiting for wifi credentials")
	ssid, pass, err := PromptCredentials(rw, cfg.MaxLen)
	if err != nil {
		return "", err
	}
	if err := store.SetString(nvs.KeySSID, ssid); err != nil {
		return "", err
	}
	if err := store.SetString(nvs.KeyPass, pass); err != nil {
		return "", err
	}
	log.Info().Str("ssid", ssid).Msg("wifi credentials stored")
	return ssid, nil
}

func flash(ctx context.Context, all []LED, period time.Duration) {
	// Boards without indicator pins leave some entries nil.
	var leds []LED
	for _, l := range all {
		if l != nil {
			leds = append(leds, l)
		}
	}
	t := time.NewTicker(period)
	defer t.Stop()
	on := false
	for {
		select {
		case <-ctx.Done():
			for _, l := range leds {
				l.Set(false)
			}
			return
		case <-t.C:
			on = !on
			for _, l := range leds {
				l.Set(on)
			}
		}
	}
}
