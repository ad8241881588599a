package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/tastepass/tastepass/internal/config"
	"github.com/tastepass/tastepass/internal/device"
	"github.com/tastepass/tastepass/internal/logging"
	"github.com/tastepass/tastepass/internal/tui"
	"github.com/tastepass/tastepass/pkg/client"
	"github.com/tastepass/tastepass/pkg/session"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("tastepass " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "logout":
			return runLogout(cfg)
		}
	}

	log, err := logging.New(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck // file sync at exit is best-effort

	api := client.New(cfg.APIURL, "")
	deviceID, err := device.ID(cfg.DeviceIDPath())
	if err != nil {
		log.Warn("device id unavailable", zap.Error(err))
	} else {
		api.SetDeviceID(deviceID)
	}

	store := session.NewFileStore(cfg.SessionPath())
	mgr := session.New(api, store, log)

	log.Info("starting", zap.String("version", version), zap.String("api_url", cfg.APIURL))

	app := tui.NewApp(mgr, api, version)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// runLogout discards the persisted session without starting the TUI.
func runLogout(cfg *config.Config) error {
	store := session.NewFileStore(cfg.SessionPath())
	snap, err := store.Load()
	if err == nil && snap == nil {
		fmt.Println("Already logged out.")
		return nil
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}

func printHelp() {
	fmt.Print(`tastepass — restaurant discounts in your terminal

Usage:
  tastepass            launch the app
  tastepass logout     discard the saved session
  tastepass version    print the version
  tastepass help       show this help

Environment:
  TASTEPASS_API_URL    override the API endpoint
  TASTEPASS_DATA_DIR   override the data directory (default ~/.tastepass)
  TASTEPASS_LOG_LEVEL  log verbosity (debug, info, warn, error)
`)
}
