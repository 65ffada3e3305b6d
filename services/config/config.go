// Package config loads the firmware configuration: an embedded YAML default
// per hardware version with an optional file overlaid on top.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"trafficdots-go/bus"
	"trafficdots-go/errcode"
	"trafficdots-go/types"
	"trafficdots-go/x/mathx"
)

const configPrefix = "config"

// EmbeddedConfigLookup allows overriding how defaults are resolved.
var EmbeddedConfigLookup = func(hardware string) ([]byte, bool) {
	b, ok := embeddedConfigs[hardware]
	return b, ok
}

type Config struct {
	Server   Server   `yaml:"server"`
	Hardware Hardware `yaml:"hardware"`
	Firmware Firmware `yaml:"firmware"`
	Refresh  Refresh  `yaml:"refresh"`
	Input    Input    `yaml:"input"`
	OTA      OTA      `yaml:"ota"`
	Night    Night    `yaml:"night"`
	Wifi     Wifi     `yaml:"wifi"`
	NVS      NVS      `yaml:"nvs"`
	Serial   Serial   `yaml:"serial"`
	Preview  Preview  `yaml:"preview"`
}

type Server struct {
	Data    string `yaml:"data"`
	Upgrade string `yaml:"upgrade"`
	// DeviceID is sent with every data request.
	DeviceID string `yaml:"device_id,omitempty"`
	// The data set requested, e.g. V1_0_5 for hardware 1 version 5.
	DataHardware  uint8         `yaml:"data_hardware"`
	DataVersion   int           `yaml:"data_version"`
	UseAddenda    bool          `yaml:"use_addenda"`
	FirstAddendum string        `yaml:"first_addendum"`
	Retries       int           `yaml:"retries"`
	RetryBackoff  time.Duration `yaml:"retry_backoff"`
}

// DataTag names the server data set, e.g. V2_0_0.
func (s Server) DataTag() string {
	return types.VersionInfo{Hardware: s.DataHardware}.DataTag(s.DataVersion)
}

type Hardware struct {
	Version  uint8   `yaml:"version"`
	Revision uint8   `yaml:"revision"`
	I2CBus   string  `yaml:"i2c_bus"`
	Buttons  Buttons `yaml:"buttons"`
	// LEDs are GPIO indicators. V2 boards drive them from the LED drivers.
	LEDs *LEDPins `yaml:"leds,omitempty"`
}

type Buttons struct {
	OTA  string `yaml:"ota"`
	Dir  string `yaml:"dir"`
	Pull string `yaml:"pull"`
}

type LEDPins struct {
	ActiveLow bool   `yaml:"active_low"`
	North     string `yaml:"north"`
	South     string `yaml:"south"`
	East      string `yaml:"east"`
	West      string `yaml:"west"`
	WiFi      string `yaml:"wifi"`
	OTA       string `yaml:"ota"`
	Error     string `yaml:"error"`
}

type Firmware struct {
	Major uint8 `yaml:"major"`
	Minor uint8 `yaml:"minor"`
	Patch uint8 `yaml:"patch"`
}

type Refresh struct {
	Period        time.Duration `yaml:"period"`
	LEDUpdate     time.Duration `yaml:"led_update"`
	LEDClear      time.Duration `yaml:"led_clear"`
	SlowCutoff    int64         `yaml:"slow_cutoff"`
	MediumCutoff  int64         `yaml:"medium_cutoff"`
	Slow          types.RGB     `yaml:"slow"`
	Medium        types.RGB     `yaml:"medium"`
	Fast          types.RGB     `yaml:"fast"`
	MatrixRetries int           `yaml:"matrix_retries"`
	GlobalCurrent uint8         `yaml:"global_current"`
}

type Input struct {
	Debounce  time.Duration `yaml:"debounce"`
	LongPress time.Duration `yaml:"long_press"`
}

type OTA struct {
	Retries  int           `yaml:"retries"`
	LeftOn   time.Duration `yaml:"left_on"`
	Schedule []Clock       `yaml:"schedule"`
}

type Night struct {
	Enabled bool  `yaml:"enabled"`
	Start   Clock `yaml:"start"`
	End     Clock `yaml:"end"`
}

type Wifi struct {
	// Probe is a host:port dialled to test connectivity. Empty uses the
	// data server.
	Probe   string        `yaml:"probe"`
	Period  time.Duration `yaml:"period"`
	MaxSSID int           `yaml:"max_ssid"`
	MaxPass int           `yaml:"max_pass"`
}

type NVS struct {
	Dir string `yaml:"dir"`
}

type Serial struct {
	Port string `yaml:"port"`
	Baud uint   `yaml:"baud"`
}

type Preview struct {
	Addr string `yaml:"addr"`
}

// Version is the build described by the config.
func (c *Config) Version() types.VersionInfo {
	return types.VersionInfo{
		Hardware: c.Hardware.Version,
		Revision: c.Hardware.Revision,
		Major:    c.Firmware.Major,
		Minor:    c.Firmware.Minor,
		Patch:    c.Firmware.Patch,
	}
}

// Clock is a wall-clock time of day, written HH:MM.
type Clock struct {
	Hour, Minute int
}

func ParseClock(s string) (Clock, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Clock{}, fmt.Errorf("clock %q: want HH:MM", s)
	}
	hh, err1 := strconv.Atoi(h)
	mm, err2 := strconv.Atoi(m)
	if err1 != nil || err2 != nil || !mathx.Between(hh, 0, 23) || !mathx.Between(mm, 0, 59) {
		return Clock{}, fmt.Errorf("clock %q: want HH:MM", s)
	}
	return Clock{Hour: hh, Minute: mm}, nil
}

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// Offset is the time since midnight.
func (c Clock) Offset() time.Duration {
	return time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute
}

// Next returns the first occurrence of c strictly after now, in now's zone.
func (c Clock) Next(now time.Time) time.Time {
	y, mo, d := now.Date()
	t := time.Date(y, mo, d, c.Hour, c.Minute, 0, 0, now.Location())
	if !t.After(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

func (c *Clock) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	v, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (c Clock) MarshalYAML() (any, error) { return c.String(), nil }

// Default returns the embedded config of hardware, e.g. "V2_0".
func Default(hardware string) (*Config, error) {
	raw, ok := EmbeddedConfigLookup(hardware)
	if !ok || len(raw) == 0 {
		return nil, errcode.New(errcode.NotFound, "config.default", "no embedded config for hardware "+hardware)
	}
	var c Config
	if err := decode(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func decode(raw []byte, c *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return errcode.Wrap(errcode.InvalidParams, "config.decode", err)
	}
	return nil
}

// Load overlays the file at path, if any, on the default of hardware and
// validates the result. A missing file yields the default.
func Load(path, hardware string) (*Config, error) {
	c, err := Default(hardware)
	if err != nil {
		return nil, err
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, errcode.Wrap(errcode.Fail, "config.load", err)
		default:
			if err := decode(raw, c); err != nil {
				return nil, err
			}
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Save writes c to path through a temporary file.
func Save(path string, c *Config) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return errcode.Wrap(errcode.Fail, "config.save", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return errcode.Wrap(errcode.Fail, "config.save", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return errcode.Wrap(errcode.Fail, "config.save", err)
	}
	if err := tmp.Close(); err != nil {
		return errcode.Wrap(errcode.Fail, "config.save", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errcode.Wrap(errcode.Fail, "config.save", err)
	}
	return nil
}

func invalid(msg string) error {
	return errcode.New(errcode.InvalidParams, "config.validate", msg)
}

// Validate rejects values the services cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Hardware.Version != 1 && c.Hardware.Version != 2:
		return invalid(fmt.Sprintf("hardware version %d", c.Hardware.Version))
	case c.Server.Data == "":
		return invalid("server.data is empty")
	case c.Refresh.SlowCutoff < 0 || c.Refresh.MediumCutoff < c.Refresh.SlowCutoff:
		return invalid("refresh cutoffs must satisfy 0 <= slow <= medium")
	case c.Refresh.Period <= 0 || c.Refresh.LEDUpdate <= 0 || c.Refresh.LEDClear <= 0:
		return invalid("refresh periods must be positive")
	case c.Input.LongPress <= c.Input.Debounce:
		return invalid("input.long_press must exceed input.debounce")
	case c.Hardware.Version == 1 && c.Hardware.LEDs == nil:
		return invalid("hardware 1 needs hardware.leds")
	}
	return nil
}

// Publish posts each group as a retained message under config/<group>.
func Publish(conn *bus.Connection, c *Config) {
	groups := map[string]any{
		"server":   c.Server,
		"hardware": c.Hardware,
		"firmware": c.Firmware,
		"refresh":  c.Refresh,
		"input":    c.Input,
		"ota":      c.OTA,
		"night":    c.Night,
		"wifi":     c.Wifi,
		"nvs":      c.NVS,
		"serial":   c.Serial,
		"preview":  c.Preview,
	}
	for k, v := range groups {
		conn.Publish(conn.NewMessage(bus.T(configPrefix, k), v, true))
	}
}
