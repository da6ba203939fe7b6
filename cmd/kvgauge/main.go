package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/kvgauge/plugin/internal/clock"
	"github.com/kvgauge/plugin/internal/config"
	"github.com/kvgauge/plugin/internal/display"
	"github.com/kvgauge/plugin/internal/metrics"
	"github.com/kvgauge/plugin/internal/plugin"
	"github.com/kvgauge/plugin/internal/scheduler"
	"github.com/kvgauge/plugin/internal/session"
	"github.com/kvgauge/plugin/internal/streamdeck"
)

func main() {
	args, err := config.ParseArgs(os.Args[1:])
	if err != nil {
		if errors.Is(err, config.ErrMissingArgs) {
			fmt.Fprintf(os.Stderr, "%v\nThis plugin must be launched by Stream Deck software\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}

	baseDir := pluginDir()
	configPath := args.ConfigPath
	if configPath == "" {
		configPath = filepath.Join(baseDir, "kvgauge.yaml")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.SetPrefix("[kvgauge] ")
	logFile := cfg.Log.Writer(baseDir)
	if logFile != nil {
		log.SetOutput(io.MultiWriter(os.Stderr, logFile))
	}

	if info, err := config.ParseHostInfo(args.Info); err != nil {
		log.Printf("Ignoring launch info: %v", err)
	} else {
		log.Printf("Launched by %s", info)
	}

	code := 0
	if err := run(args, cfg); err != nil {
		log.Printf("Exiting: %v", err)
		code = 1
	}
	if logFile != nil {
		logFile.Close()
	}
	os.Exit(code)
}

func run(args config.Args, cfg *config.Config) error {
	actions, err := cfg.ActionKinds()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	conn, err := streamdeck.Dial(ctx, cfg.Transport.Host, args.Port, streamdeck.Options{
		SendBuffer:   cfg.Transport.SendBuffer,
		WriteTimeout: cfg.Transport.WriteTimeout,
	})
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Println("Connected to Stream Deck")

	if err := conn.Register(args.RegisterEvent, args.PluginUUID); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	var provider metrics.Provider = metrics.NewSystem()
	if args.Mock {
		log.Println("Using simulated metrics")
		provider = metrics.NewSimulated(time.Now().UnixNano())
	}

	interval := cfg.Refresh.DefaultInterval
	registry := session.NewRegistry()
	updater := display.NewUpdater(registry, provider, conn)
	sched := scheduler.New(clock.Real(), registry, updater, interval)
	dispatcher := plugin.New(registry, sched, actions, interval)

	err = dispatcher.Run(ctx, conn)
	log.Println("Disconnected from Stream Deck")
	return err
}

// pluginDir is the directory holding the executable, which the host
// launches from inside the plugin bundle.
func pluginDir() string {
	exe, err := os.Executable()
	if err != nil {
		cwd, _ := os.Getwd()
		return cwd
	}
	return filepath.Dir(exe)
}
