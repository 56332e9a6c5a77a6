package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-kontrol/config"
	"go-kontrol/debug"
	"go-kontrol/midi"
	"go-kontrol/rig"
	"go-kontrol/scene"
	"go-kontrol/theme"
	"go-kontrol/tui"
)

func main() {
	configPath := flag.String("config", "", "config file (default ~/.config/go-kontrol/config.yaml)")
	debugLog := flag.Bool("debug", false, "write debug log to ~/.config/go-kontrol/debug.log")
	port := flag.String("port", "", "match MIDI input ports containing this name")
	flag.Parse()

	// Load config
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Port = *port
	}

	if *debugLog || cfg.Debug {
		if err := debug.Enable(""); err != nil {
			fmt.Printf("Warning: debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	// Load theme
	palette, err := theme.LoadPalette(cfg.Palette)
	if err != nil {
		fmt.Printf("Warning: %v, using built-in palette\n", err)
		palette = theme.Plasma()
	}
	th := theme.New(palette)

	// Scene and bindings
	sc := scene.Demo()
	r := rig.New(sc, rig.OptionsFromConfig(cfg))
	if err := r.LoadConfig(cfg); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}

	// Create MIDI device manager (handles hot-plug)
	deviceMgr := midi.NewDeviceManager(cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go deviceMgr.Run(ctx)
	go r.Run(ctx)

	fmt.Println("go-kontrol")
	fmt.Println("Connect a control surface any time - it will be detected automatically")
	fmt.Println("")

	// Create and run TUI
	m := tui.NewModel(r, deviceMgr, th, cfg)
	m.ConfigPath = *configPath
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
