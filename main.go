// Command trafficdots runs the traffic map firmware: it fetches segment
// speeds, paints them onto the LED matrix and handles the buttons, status
// indicators and over-the-air updates.
package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"tinygo.org/x/drivers"

	"trafficdots-go/bus"
	"trafficdots-go/drivers/is31fl3741"
	"trafficdots-go/drivers/is31fl3741/ledmap"
	"trafficdots-go/services/apiconn"
	"trafficdots-go/services/config"
	"trafficdots-go/services/console"
	"trafficdots-go/services/coordinator"
	"trafficdots-go/services/dots"
	"trafficdots-go/services/errstate"
	"trafficdots-go/services/hal"
	"trafficdots-go/services/hal/gpioirq"
	"trafficdots-go/services/indicator"
	"trafficdots-go/services/input"
	"trafficdots-go/services/nvs"
	"trafficdots-go/services/ota"
	"trafficdots-go/services/preview"
	"trafficdots-go/services/refresh"
	"trafficdots-go/services/wifi"
	"trafficdots-go/types"
)

var (
	configPath  = "/etc/trafficdots/config.yaml"
	hardware    = "V2_0"
	logLevel    = "info"
	sim         = false
	previewAddr = ""
	nvsDir      = ""
	serialPort  = ""
	credentials = false
	join        = false
)

func init() {
	pflag.StringVarP(&configPath, "config", "c", configPath, "YAML config overlaid on the board defaults")
	pflag.StringVar(&hardware, "hardware", hardware, "board defaults to start from (V1_0 or V2_0)")
	pflag.StringVar(&logLevel, "log-level", logLevel, "trace, debug, info, warn or error")
	pflag.BoolVar(&sim, "sim", sim, "drive a simulated LED bank instead of the I2C bus")
	pflag.StringVar(&previewAddr, "preview-addr", previewAddr, "serve the LED preview on this address")
	pflag.StringVar(&nvsDir, "nvs-dir", nvsDir, "override the storage directory")
	pflag.StringVar(&serialPort, "serial", serialPort, "console port for credential entry, - for stdio")
	pflag.BoolVar(&credentials, "credentials", credentials, "ask for wifi credentials before starting")
	pflag.BoolVar(&join, "join", join, "join the stored network with nmcli")
}

func main() {
	pflag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	var out io.Writer = os.Stderr
	if isatty.IsTerminal(os.Stderr.Fd()) {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	log := zerolog.New(out).With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(logLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", logLevel).Msg("unknown log level; using info")
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, log); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("firmware stopped")
	}
}

func run(ctx context.Context, log zerolog.Logger) error {
	cfg, err := config.Load(configPath, hardware)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if previewAddr != "" {
		cfg.Preview.Addr = previewAddr
	}
	if nvsDir != "" {
		cfg.NVS.Dir = nvsDir
	}
	if serialPort != "" {
		cfg.Serial.Port = serialPort
	}
	self := cfg.Version()
	log.Info().Str("version", self.String()).Bool("sim", sim).Msg("boot")

	store, err := nvs.Open(cfg.NVS.Dir)
	if err != nil {
		return fmt.Errorf("nvs: %w", err)
	}
	mainNS, err := bootNamespace(store, nvs.NamespaceMain, nvs.KeySSID, nvs.KeyPass)
	if err != nil {
		return err
	}
	if _, err := bootNamespace(store, nvs.NamespaceWorker, refresh.WorkerKeys...); err != nil {
		return err
	}

	b := bus.NewBus(32)
	config.Publish(b.NewConnection("config"), cfg)

	m := ledmap.V2()
	if cfg.Hardware.Version == 1 {
		m = ledmap.V1()
	}

	var i2cBus drivers.I2C
	var simBus *preview.SimBus
	if sim {
		simBus = preview.NewSimBus(m.Chips...)
		i2cBus = simBus
	} else {
		if err := hal.Init(); err != nil {
			return err
		}
		bc, err := hal.OpenI2C(cfg.Hardware.I2CBus)
		if err != nil {
			return err
		}
		defer bc.Close()
		i2cBus = bc
	}

	gk := dots.New(i2cBus, m, dots.Config{
		Logger:        log,
		GlobalCurrent: cfg.Refresh.GlobalCurrent,
		SWx:           is31fl3741.SW1toSW9,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return gk.Run(ctx) })
	select {
	case <-gk.Ready():
	case <-ctx.Done():
		return g.Wait()
	}

	board, errLED, err := indicators(ctx, cfg, gk, m, log)
	if err != nil {
		return err
	}

	errs := errstate.New(errstate.Config{Logger: log, LED: errLED, Conn: b.NewConnection("errstate")})

	if needCredentials(mainNS) {
		if err := askCredentials(ctx, cfg, mainNS, board, log); err != nil {
			return err
		}
	}

	var creds wifi.Credentials
	var joiner wifi.Joiner
	if !sim {
		creds = mainNS
	}
	if join {
		joiner = wifi.NMCLI{}
	}
	sup := wifi.New(wifi.Config{
		Logger: log,
		Conn:   b.NewConnection("wifi"),
		Probe:  wifi.DialProbe{Addr: probeAddr(cfg)},
		Joiner: joiner,
		Creds:  creds,
		Period: cfg.Wifi.Period,
	})

	fetch := apiconn.New(apiconn.Config{
		Logger:        log,
		Retries:       cfg.Server.Retries,
		RetryBackoff:  cfg.Server.RetryBackoff,
		DeviceID:      cfg.Server.DeviceID,
		UseAddenda:    cfg.Server.UseAddenda,
		FirstAddendum: cfg.Server.FirstAddendum,
	})

	otaCtl := ota.New(ota.Config{
		Logger:        log,
		Self:          self,
		UpgradeServer: cfg.Server.Upgrade,
		Retries:       cfg.OTA.Retries,
		LeftOn:        cfg.OTA.LeftOn,
		Conn:          b.NewConnection("ota"),
	}, fetch, errs)

	disp := input.New(input.Config{
		Logger:    log,
		Debounce:  cfg.Input.Debounce,
		LongPress: cfg.Input.LongPress,
	}, otaCtl)

	pipe := refresh.New(refresh.Config{
		Logger:          log,
		Map:             m,
		DataServer:      cfg.Server.Data,
		DataTag:         cfg.Server.DataTag(),
		SlowCutoff:      cfg.Refresh.SlowCutoff,
		MediumCutoff:    cfg.Refresh.MediumCutoff,
		Slow:            cfg.Refresh.Slow,
		Medium:          cfg.Refresh.Medium,
		Fast:            cfg.Refresh.Fast,
		GlobalCurrent:   cfg.Refresh.GlobalCurrent,
		MatrixRetries:   cfg.Refresh.MatrixRetries,
		LEDUpdatePeriod: cfg.Refresh.LEDUpdate,
		LEDClearPeriod:  cfg.Refresh.LEDClear,
		Busy:            disp.Pending,
		Conn:            b.NewConnection("refresh"),
	}, gk.NewClient(), fetch, errs, refresh.NewStore(store))

	coord := coordinator.New(coordinator.Config{
		Logger:      log,
		Conn:        b.NewConnection("coordinator"),
		Period:      cfg.Refresh.Period,
		Night:       cfg.Night,
		OTASchedule: cfg.OTA.Schedule,
	}, pipe.Commands(), pipe, otaCtl, disp)

	ind := indicator.New(indicator.Config{
		Logger: log,
		Conn:   b.NewConnection("indicator"),
		Board:  board,
	})

	g.Go(func() error { return sup.Run(ctx) })
	g.Go(func() error { return ind.Run(ctx) })
	g.Go(func() error { return otaCtl.Run(ctx) })

	if sim {
		// No buttons; presses arrive through the preview.
		g.Go(func() error { return disp.Run(ctx, nil) })
	} else {
		w := gpioirq.New(16, 16)
		stop, err := buttons(cfg, w, disp)
		if err != nil {
			return err
		}
		defer stop()
		g.Go(func() error { return w.Run(ctx) })
		g.Go(func() error { return disp.Run(ctx, w.Events()) })
	}

	if cfg.Preview.Addr != "" {
		pcfg := preview.ServerConfig{
			Logger: log,
			Conn:   b.NewConnection("preview"),
			Addr:   cfg.Preview.Addr,
			MaxLED: m.MaxLED(),
		}
		if simBus != nil {
			pcfg.Snapshot = func() []types.LEDColor { return simBus.Frame(m) }
		}
		srv := preview.NewServer(pcfg, disp)
		g.Go(func() error { return srv.Run(ctx) })
	}

	g.Go(func() error {
		if !sup.WaitConnected(ctx, 30*time.Second) {
			log.Warn().Msg("no connection at startup; using stored speeds")
		}
		if err := pipe.Init(ctx); err != nil {
			return err
		}
		g.Go(func() error { return pipe.Run(ctx) })
		return coord.Run(ctx, disp.Events())
	})

	return g.Wait()
}

// bootNamespace opens a namespace and erases any key not in keep.
func bootNamespace(s *nvs.Store, name string, keep ...string) (*nvs.Namespace, error) {
	ns, err := s.Namespace(name)
	if err != nil {
		return nil, fmt.Errorf("nvs %s: %w", name, err)
	}
	if _, err := ns.EraseExcept(keep...); err != nil {
		return nil, fmt.Errorf("nvs %s: %w", name, err)
	}
	return ns, nil
}

func needCredentials(ns *nvs.Namespace) bool {
	if credentials {
		return true
	}
	if sim {
		return false
	}
	ssid, err := ns.GetString(nvs.KeySSID)
	return err != nil || ssid == ""
}

type stdio struct {
	io.Reader
	io.Writer
}

func askCredentials(ctx context.Context, cfg *config.Config, ns *nvs.Namespace, board indicator.Board, log zerolog.Logger) error {
	var rw io.ReadWriter = stdio{os.Stdin, os.Stdout}
	if cfg.Serial.Port != "-" {
		p, err := console.OpenPort(cfg.Serial.Port, cfg.Serial.Baud)
		if err != nil {
			return err
		}
		defer p.Close()
		rw = p
	}
	_, err := console.RequestCredentials(ctx, rw, ns, console.Config{
		Logger: log,
		MaxLen: cfg.Wifi.MaxSSID,
		Flash:  []console.LED{board.North, board.South, board.East, board.West},
	})
	return err
}

// probeAddr is the configured probe or the data server's host.
func probeAddr(cfg *config.Config) string {
	if cfg.Wifi.Probe != "" {
		return cfg.Wifi.Probe
	}
	u, err := url.Parse(cfg.Server.Data)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Port() != "" {
		return u.Host
	}
	port := "443"
	if u.Scheme == "http" {
		port = "80"
	}
	return net.JoinHostPort(u.Hostname(), port)
}

type nopLED struct{}

func (nopLED) Set(bool) {}

// indicators builds the status LEDs: driver-chip channels on boards that
// have them, GPIO pins otherwise, and nothing in simulation.
func indicators(ctx context.Context, cfg *config.Config, gk *dots.Gatekeeper, m *ledmap.Map, log zerolog.Logger) (indicator.Board, errstate.LED, error) {
	board, errLED, ok, err := indicator.ChipBoard(ctx, gk.NewClient(), m, indicator.DefaultChipColors, log)
	if err != nil || ok {
		return board, errLED, err
	}
	pins := cfg.Hardware.LEDs
	if sim || pins == nil {
		return indicator.Board{}, nopLED{}, nil
	}
	open := func(name string) (indicator.LED, error) {
		if name == "" {
			return nopLED{}, nil
		}
		return hal.OpenLED(name, pins.ActiveLow)
	}
	var b indicator.Board
	for _, p := range []struct {
		dst  *indicator.LED
		name string
	}{
		{&b.North, pins.North}, {&b.South, pins.South}, {&b.East, pins.East},
		{&b.West, pins.West}, {&b.WiFi, pins.WiFi},
	} {
		l, err := open(p.name)
		if err != nil {
			return indicator.Board{}, nil, err
		}
		*p.dst = l
	}
	e, err := open(pins.Error)
	if err != nil {
		return indicator.Board{}, nil, err
	}
	return b, e, nil
}

func buttons(cfg *config.Config, w *gpioirq.Worker, disp *input.Dispatcher) (func(), error) {
	pull, err := hal.ParsePull(cfg.Hardware.Buttons.Pull)
	if err != nil {
		return nil, err
	}
	otaPin, err := hal.ButtonPin(cfg.Hardware.Buttons.OTA, pull)
	if err != nil {
		return nil, err
	}
	dirPin, err := hal.ButtonPin(cfg.Hardware.Buttons.Dir, pull)
	if err != nil {
		return nil, err
	}
	return disp.Register(w, otaPin, dirPin)
}
