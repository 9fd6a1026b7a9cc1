// cmd_daemon.go analogue: cdpd's foreground run command, wiring every
// collaborator package into one agent.Engine and blocking until
// interrupted.
//
// Grounded on cmd/niac/cmd_daemon.go's runDaemon: the same
// construct-collaborators / Start / wait-on-signal / graceful-Shutdown
// shape, generalized from the teacher's single daemon.Daemon facade
// (API server + simulation controller) to this agent's own set of
// independently optional collaborators (notify, history, api, tui).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/krisarmstrong/cdp-go/pkg/agent"
	"github.com/krisarmstrong/cdp-go/pkg/api"
	"github.com/krisarmstrong/cdp-go/pkg/capture"
	"github.com/krisarmstrong/cdp-go/pkg/cdp"
	"github.com/krisarmstrong/cdp-go/pkg/config"
	"github.com/krisarmstrong/cdp-go/pkg/history"
	"github.com/krisarmstrong/cdp-go/pkg/iface"
	"github.com/krisarmstrong/cdp-go/pkg/identity"
	"github.com/krisarmstrong/cdp-go/pkg/logging"
	"github.com/krisarmstrong/cdp-go/pkg/notify"
	"github.com/krisarmstrong/cdp-go/pkg/tui"
)

var runOpts struct {
	configPath string
	noColor    bool
	view       bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the CDP discovery agent",
	Long: `run advertises this host's CDP identity on every configured link,
listens for neighbors on the same links, and keeps an in-memory
neighbor table for the lifetime of the process.

Optional collaborators (SNMP trap notification, a persisted discovery
history, a read-only JSON API) activate only when configured.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runOpts.configPath, "config", "c", "", "path to the agent's YAML configuration file")
	runCmd.Flags().BoolVar(&runOpts.noColor, "no-color", false, "disable colored log output")
	runCmd.Flags().BoolVar(&runOpts.view, "view", false, "open the live neighbor viewer instead of blocking silently")
}

func runRun(cmd *cobra.Command, args []string) error {
	logging.InitColors(!runOpts.noColor)

	cfg, err := resolveConfig(runOpts.configPath)
	if err != nil {
		return err
	}

	log := logging.NewLogger(cfg.DebugLevel)

	idProvider := identity.New(cfg.Identity.DeviceID, cfg.Identity.SoftwareVersion, cfg.Identity.Platform)

	engineCfg := agent.Config{
		TickPeriod:       cfg.TickPeriod(),
		TransmitInterval: cfg.TransmitInterval(),
		HoldTime:         cfg.HoldTime(),
		Version:          uint8(cfg.Discovery.Version),
		ParseOptions:     cdp.ParseOptions{StrictV2: cfg.Discovery.StrictV2, Logger: log},
		Platform:         idProvider.Platform(),
		PortID:           cfg.Discovery.PortID,
		Capabilities:     capabilitiesFromNames(cfg.Discovery.Capabilities),
		Duplex:           duplexFromName(cfg.Discovery.Duplex),
	}

	lister := iface.Lister{Only: cfg.Interfaces}
	captureMgr := capture.NewManager(log)

	opts := []agent.Option{agent.WithLogger(log)}

	var historyLog *history.Log
	if cfg.History.Enabled {
		h, err := history.Open(cfg.History.Path, cfg.History.MaxEvents, log)
		if err != nil {
			return fmt.Errorf("failed to open history log: %w", err)
		}
		defer h.Close()
		historyLog = h
		opts = append(opts, agent.WithHistoryRecorder(h))
	}

	if cfg.Notify.Enabled {
		sender, err := notify.New(cfg.Notify.Community, cfg.Notify.Receivers, log)
		if err != nil {
			return fmt.Errorf("failed to configure SNMP notifier: %w", err)
		}
		opts = append(opts, agent.WithNotifier(sender))
	}

	engine := agent.New(engineCfg, lister, captureMgr, idProvider, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	links, err := lister.Interfaces()
	if err != nil {
		return fmt.Errorf("failed to enumerate interfaces: %w", err)
	}
	for _, l := range links {
		link := l.Name
		go func() {
			if err := captureMgr.Listen(ctx, link, func(linkName string, srcMAC, payload []byte, now time.Time) {
				_ = engine.Receive(linkName, srcMAC, payload, now)
			}); err != nil {
				log.Errorf("capture: listen on %s stopped: %v", link, err)
			}
		}()
	}

	engine.Run(ctx)
	defer engine.Stop()
	log.Infof("cdpd: discovery engine running on %d interface(s)", len(links))

	var apiServer *api.Server
	if cfg.API.Enabled {
		apiServer = api.NewServer(api.Config{
			Addr:      cfg.API.ListenAddr,
			RateLimit: rate.Limit(cfg.API.RateLimit),
			RateBurst: cfg.API.RateBurst,
			Table:     engine.Table(),
			History:   historyLog,
			Log:       log,
		})
		if err := apiServer.Start(); err != nil {
			return fmt.Errorf("failed to start api server: %w", err)
		}
	}

	if runOpts.view {
		return tui.Run(engine.Table())
	}

	log.Infof("cdpd: press Ctrl+C to stop")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Infof("cdpd: shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if apiServer != nil {
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("api: shutdown error: %v", err)
		}
	}
	captureMgr.Close()
	return nil
}

// resolveConfig loads the named file, or falls back to the minimal
// full-duplex default configuration when no file is given.
func resolveConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Parse([]byte("discovery:\n  duplex: full\n"), "defaults")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func capabilitiesFromNames(names []string) cdp.Capabilities {
	var caps cdp.Capabilities
	for _, name := range names {
		switch strings.ToLower(name) {
		case "routing":
			caps |= cdp.CapRouter
		case "bridge":
			caps |= cdp.CapTransparentBridge
		case "srbridge":
			caps |= cdp.CapSourceRouteBridge
		case "switch":
			caps |= cdp.CapSwitch
		case "host":
			caps |= cdp.CapHost
		case "igmp":
			caps |= cdp.CapIGMP
		case "repeater":
			caps |= cdp.CapRepeater
		}
	}
	return caps
}

func duplexFromName(name string) cdp.DuplexMode {
	switch strings.ToLower(name) {
	case "half":
		return cdp.DuplexHalf
	case "full":
		return cdp.DuplexFull
	default:
		return cdp.DuplexUnset
	}
}

