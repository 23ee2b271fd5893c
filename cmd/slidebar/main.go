package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"golang.org/x/term"

	"github.com/dockwell/slidebar/internal/browser"
	"github.com/dockwell/slidebar/internal/config"
	"github.com/dockwell/slidebar/internal/enforcer"
	"github.com/dockwell/slidebar/internal/hotkeys"
	"github.com/dockwell/slidebar/internal/ipc"
	"github.com/dockwell/slidebar/internal/monitors"
	"github.com/dockwell/slidebar/internal/platform"
	"github.com/dockwell/slidebar/internal/sidebar"
	"github.com/dockwell/slidebar/internal/store"
	"github.com/dockwell/slidebar/internal/tui"
	"github.com/dockwell/slidebar/internal/windows"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "set":
		os.Exit(runSet(os.Args[2:]))
	case "pin":
		os.Exit(runPin(os.Args[2:]))
	case "expand":
		os.Exit(runExpand(os.Args[2:]))
	case "slot":
		os.Exit(runSlot(os.Args[2:]))
	case "services":
		os.Exit(runServices(os.Args[2:]))
	case "prompt":
		os.Exit(runPrompt(os.Args[2:]))
	case "inject":
		os.Exit(runInject(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: slidebar <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the slidebar daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  reload              Reload daemon configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  monitors list       List connected monitors")
	fmt.Fprintln(w, "  monitors refresh    Re-enumerate monitors")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  set monitor <n>     Dock to monitor n")
	fmt.Fprintln(w, "  set side <l|r>      Dock to the left or right edge")
	fmt.Fprintln(w, "  set zoom <pct>      Set page zoom (50-200)")
	fmt.Fprintln(w, "  set retention <m>   Set conversation retention (0, 10, 30)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  pin                 Toggle the pin")
	fmt.Fprintln(w, "  expand <on|off>     Open or close the settings panel")
	fmt.Fprintln(w, "  slot <n>            Activate service slot n (0-2)")
	fmt.Fprintln(w, "  slot <n> <service>  Assign a service to slot n")
	fmt.Fprintln(w, "  services            List supported chat services")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  prompt list         List saved prompts")
	fmt.Fprintln(w, "  prompt add          Save a new prompt")
	fmt.Fprintln(w, "  prompt update       Edit a prompt")
	fmt.Fprintln(w, "  prompt delete       Delete a prompt")
	fmt.Fprintln(w, "  prompt fast         Toggle a prompt's fast-access flag")
	fmt.Fprintln(w, "  inject              Type a prompt into the active chat")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open the interactive settings form")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'slidebar <command> --help' for command-specific options.")
}

func newDaemonLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}
	// JSON for service managers, text for a terminal.
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "path to config file (default ~/.config/slidebar/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: slidebar daemon [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the slidebar daemon in the foreground.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	cfgPath := *configPath
	if cfgPath == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			log.Fatalf("Failed to resolve config path: %v", err)
		}
		cfgPath = p
	}
	cfg, err := config.LoadFromPath(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newDaemonLogger(cfg)
	slog.SetDefault(logger)

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	mons := monitors.NewMap(backend)
	if mons.Count() == 0 {
		logger.Warn("no monitors enumerated, using virtual screen fallback")
	} else {
		logger.Info("monitors enumerated", "count", mons.Count())
	}

	enf := enforcer.New(enforcer.Config{
		ActiveInterval: cfg.Enforcement.ActiveInterval.D(),
		IdleInterval:   cfg.Enforcement.IdleInterval.D(),
		TolerancePx:    cfg.Enforcement.TolerancePx,
		Logger:         logger,
	}, backend)
	winctl := windows.NewController(backend, enf, logger)

	stateDir, err := cfg.ResolveStateDir()
	if err != nil {
		log.Fatalf("Failed to prepare state directory: %v", err)
	}
	settings := store.NewSettingsStore(filepath.Join(stateDir, "settings"), cfg.SettingsDebounce.D(), logger)
	prompts := store.NewPromptStore(filepath.Join(stateDir, "prompts"), logger)

	controller := sidebar.NewController(cfg, backend, mons, winctl, settings, prompts, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	host, err := browser.StartHost(ctx, cfg.Windows.HostCommand, logger)
	if err != nil {
		log.Fatalf("Failed to start webview host: %v", err)
	}
	defer host.Close()

	nav, err := host.CreateView("nav", cfg.Windows.NavTitle, "about:blank")
	if err != nil {
		log.Fatalf("Failed to create nav view: %v", err)
	}
	body, err := host.CreateView("body", cfg.Windows.BodyTitle, "about:blank")
	if err != nil {
		log.Fatalf("Failed to create body view: %v", err)
	}
	if err := controller.AttachViews(nav, body); err != nil {
		logger.Warn("initial slot load failed", "error", err)
	}

	reloadChan := make(chan struct{}, 1)
	ipcServer, err := ipc.NewServer(controller, reloadChan)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	hotkeyHandler := hotkeys.NewHandler(backend, controller)
	if cfg.PinHotkey != "" {
		if err := hotkeyHandler.RegisterPinToggle(cfg.PinHotkey); err != nil {
			logger.Warn("failed to register pin hotkey", "hotkey", cfg.PinHotkey, "error", err)
		} else {
			logger.Info("pin hotkey registered", "hotkey", cfg.PinHotkey)
		}
	}

	cfgUpdates, err := config.Watch(ctx, cfgPath, logger)
	if err != nil {
		logger.Warn("config watch unavailable", "error", err)
	}

	go enf.Run(ctx)
	go controller.Run(ctx)

	reload := func() {
		newCfg, err := config.LoadFromPath(cfgPath)
		if err != nil {
			logger.Warn("config reload failed", "error", err)
			return
		}
		controller.Reload(newCfg)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					logger.Info("received SIGHUP, reloading config")
					reload()
				case os.Interrupt, syscall.SIGTERM:
					logger.Info("shutting down slidebar daemon")
					cancel()
					ipcServer.Stop()
					host.Close()
					if err := controller.Close(); err != nil {
						logger.Warn("failed to flush settings", "error", err)
					}
					backend.Quit()
					return
				}
			case <-reloadChan:
				reload()
			case newCfg, ok := <-cfgUpdates:
				if !ok {
					cfgUpdates = nil
					continue
				}
				controller.Reload(newCfg)
			case <-ctx.Done():
				return
			}
		}
	}()

	logger.Info("slidebar daemon started")
	backend.EventLoop()
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: slidebar status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Print(tui.RenderStatus(status))
	return 0
}

func runMonitors(args []string) int {
	usage := func(w io.Writer) {
		fmt.Fprintln(w, "Usage:")
		fmt.Fprintln(w, "  slidebar monitors list")
		fmt.Fprintln(w, "  slidebar monitors refresh")
	}
	if len(args) == 0 {
		usage(os.Stderr)
		return 2
	}

	client := ipc.NewClient()
	switch args[0] {
	case "list":
		data, err := client.GetMonitors()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		for i, m := range data.Monitors {
			marker := " "
			if i == data.Selected {
				marker = "*"
			}
			name := m.Name
			if name == "" {
				name = fmt.Sprintf("monitor-%d", i)
			}
			fmt.Printf("%s %d  %-12s %dx%d at %d,%d\n", marker, i, name, m.Width, m.Height, m.X, m.Y)
		}
		return 0
	case "refresh":
		count, err := client.RefreshMonitors()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("monitors: %d\n", count)
		return 0
	case "help", "-h", "--help":
		usage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown monitors command: %s\n\n", args[0])
		usage(os.Stderr)
		return 2
	}
}

func runSet(args []string) int {
	usage := func(w io.Writer) {
		fmt.Fprintln(w, "Usage:")
		fmt.Fprintln(w, "  slidebar set monitor <n>")
		fmt.Fprintln(w, "  slidebar set side <left|right>")
		fmt.Fprintln(w, "  slidebar set zoom <percent>")
		fmt.Fprintln(w, "  slidebar set retention <minutes>")
	}
	if len(args) != 2 {
		if len(args) == 1 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
			usage(os.Stdout)
			return 0
		}
		usage(os.Stderr)
		return 2
	}

	client := ipc.NewClient()
	var err error
	switch args[0] {
	case "monitor":
		var n int
		if n, err = strconv.Atoi(args[1]); err == nil {
			err = client.SetMonitor(n)
		}
	case "side":
		err = client.SetSide(args[1])
	case "zoom":
		var n int
		if n, err = strconv.Atoi(args[1]); err == nil {
			err = client.SetZoom(n)
		}
	case "retention":
		var n int
		if n, err = strconv.Atoi(args[1]); err == nil {
			err = client.SetRetention(n)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown setting: %s\n\n", args[0])
		usage(os.Stderr)
		return 2
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runPin(args []string) int {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "Usage: slidebar pin")
		return 2
	}
	pinned, err := ipc.NewClient().TogglePin()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if pinned {
		fmt.Println("pinned")
	} else {
		fmt.Println("unpinned")
	}
	return 0
}

func runExpand(args []string) int {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		fmt.Fprintln(os.Stderr, "Usage: slidebar expand <on|off>")
		return 2
	}
	if err := ipc.NewClient().SetExpanded(args[0] == "on"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runSlot(args []string) int {
	usage := func(w io.Writer) {
		fmt.Fprintln(w, "Usage:")
		fmt.Fprintln(w, "  slidebar slot <n>             Activate slot n (0-2)")
		fmt.Fprintln(w, "  slidebar slot <n> <service>   Assign a service to slot n")
	}
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		w := os.Stderr
		code := 2
		if len(args) > 0 {
			w = os.Stdout
			code = 0
		}
		usage(w)
		return code
	}

	slot, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "slot must be a number: %v\n", err)
		return 2
	}

	client := ipc.NewClient()
	if len(args) >= 2 {
		err = client.SetSlotService(slot, args[1])
	} else {
		err = client.SwitchSlot(slot)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runServices(args []string) int {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "Usage: slidebar services")
		return 2
	}
	data, err := ipc.NewClient().ListServices()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, svc := range data.Services {
		fmt.Printf("%-14s %-22s %s\n", svc.Key, svc.Name, svc.URL)
	}
	return 0
}

func runReload(args []string) int {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "Usage: slidebar reload")
		return 2
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runTUI(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: slidebar tui")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Open the interactive settings form. Requires a running daemon.")
		return 0
	}
	if err := tui.New().Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
