// Command flashtx transmits text as light flashes.
//
// Usage:
//
//	flashtx [-config file] [-actuator kind] [-slot d] send -m "text"
//	flashtx encode -m "text"
//	flashtx [-config file] serve
//	flashtx leds
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/Zereker/flashtx"
	"github.com/Zereker/flashtx/actuator"
	"github.com/Zereker/flashtx/control"
	"github.com/Zereker/flashtx/internal/config"
	"github.com/Zereker/flashtx/internal/logging"
	"github.com/Zereker/flashtx/internal/metrics"
	"github.com/Zereker/flashtx/translate"
)

var f = translate.From

type globalFlags struct {
	config   string
	actuator string
	slot     time.Duration
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, f("usage: %s [flags] send|encode|serve|leds [args]", os.Args[0]))
	flag.PrintDefaults()
}

func main() {
	var g globalFlags
	flag.StringVar(&g.config, "config", "", f("TOML configuration file"))
	flag.StringVar(&g.actuator, "actuator", "", f("actuator kind: console, serial, gpio or led"))
	flag.DurationVar(&g.slot, "slot", 0, f("bit slot duration (default from config, 100ms)"))
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, g, flag.Arg(0), flag.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, f("flashtx: %v", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, g globalFlags, cmd string, args []string) error {
	switch cmd {
	case "encode":
		return runEncode(args)
	case "leds":
		return runLEDs()
	case "send", "serve":
	default:
		usage()
		return errors.Errorf("unknown command %q", cmd)
	}

	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	if cmd == "send" {
		return runSend(ctx, cfg, log, args)
	}
	return runServe(ctx, cfg, log)
}

func loadConfig(g globalFlags) (config.Config, error) {
	cfg, err := config.Load(g.config)
	if err != nil {
		return cfg, err
	}
	if g.actuator != "" {
		cfg.Actuator.Kind = g.actuator
	}
	if g.slot != 0 {
		cfg.SlotDuration = g.slot
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) *logging.Adapter {
	lc := logging.DefaultConfig()
	if level, ok := logging.ParseLevel(cfg.Log.Level); ok {
		lc.Level = level
	}
	lc.NoColor = cfg.Log.NoColor
	return logging.Adapt(logging.New(os.Stderr, "flashtx", lc))
}

func newTransmitter(cfg config.Config, act flashtx.Actuator, log flashtx.Logger, extra ...flashtx.Option) (*flashtx.Transmitter, error) {
	opts := []flashtx.Option{
		flashtx.SlotDurationOption(cfg.SlotDuration),
		flashtx.BufferSizeOption(cfg.BufferSize),
		flashtx.LoggerOption(log),
	}
	return flashtx.NewTransmitter(act, append(opts, extra...)...)
}

func messageFlag(name string, args []string) (string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	msg := fs.String("m", "", f("message to transmit"))
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if *msg == "" && fs.NArg() > 0 {
		*msg = fs.Arg(0)
	}
	return *msg, nil
}

func runEncode(args []string) error {
	msg, err := messageFlag("encode", args)
	if err != nil {
		return err
	}
	bits, err := flashtx.Encode(msg)
	if err != nil {
		return err
	}
	fmt.Println(bits)
	return nil
}

func runSend(ctx context.Context, cfg config.Config, log *logging.Adapter, args []string) error {
	msg, err := messageFlag("send", args)
	if err != nil {
		return err
	}
	bits, err := flashtx.Encode(msg)
	if err != nil {
		return err
	}

	lamp, err := openActuator(cfg.Actuator)
	if err != nil {
		return err
	}
	defer closeActuator(lamp, log)

	tx, err := newTransmitter(cfg, lamp, log)
	if err != nil {
		return err
	}

	// Ctrl-C cancels at the next slot boundary; the light is left off.
	cancel := flashtx.NewCancelToken()
	go func() {
		<-ctx.Done()
		cancel.Signal()
	}()

	outcome, err := tx.Transmit(context.Background(), bits, cancel)
	if err != nil {
		return err
	}
	if outcome != flashtx.Completed {
		log.Warn(f("transmission did not complete"), "outcome", outcome.String())
	}
	return nil
}

func runServe(ctx context.Context, cfg config.Config, log *logging.Adapter) error {
	lamp, err := openActuator(cfg.Actuator)
	if err != nil {
		return err
	}
	defer closeActuator(lamp, log)

	collector := metrics.New()
	tx, err := newTransmitter(cfg, lamp, log, collector.Options()...)
	if err != nil {
		return err
	}

	if cfg.Metrics.Addr != "" {
		stopMetrics := serveMetrics(cfg.Metrics.Addr, collector, log)
		defer stopMetrics()
	}

	server, err := control.Listen(cfg.Control.Addr,
		control.ServerLoggerOption(log),
		control.ServerShutdownTimeoutOption(cfg.Control.ShutdownTimeout))
	if err != nil {
		return err
	}
	defer server.Close()

	ctrl := control.NewController(tx, log, control.MaxLineOption(cfg.Control.MaxLine))
	err = server.Serve(ctx, ctrl)

	if s := tx.Active(); s != nil {
		s.Cancel()
		s.Wait()
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// serveMetrics exposes /metrics until the returned func is called.
func serveMetrics(addr string, collector *metrics.Collector, log flashtx.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info("metrics server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func runLEDs() error {
	names, err := actuator.Discover(actuator.SysfsLEDRoot)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return actuator.ErrNoLED
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
