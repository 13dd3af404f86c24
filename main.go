package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"griddle/internal/compare"
	"griddle/internal/config"
	"griddle/internal/datasource"
	"griddle/internal/domain"
	"griddle/internal/eventbus"
	"griddle/internal/grid"
	"griddle/internal/grid/sorting"
	"griddle/internal/ui"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to the config file")
	flag.StringVar(&configPath, "c", "", "Path to the config file (shorthand)")
	flag.Parse()

	// Default to a config file next to the data
	if configPath == "" && flag.NArg() > 0 {
		configPath = flag.Arg(0)
	}
	if configPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Printf("Error getting current directory: %v\n", err)
			os.Exit(1)
		}
		configPath = filepath.Join(cwd, config.FileName)
	}

	// Set up logging
	logFile, err := os.OpenFile("griddle.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Warnf("Could not open log file: %v", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// Create event bus
	bus := eventbus.New()

	// Load configuration
	configSvc := config.NewService(bus)
	cfg, err := configSvc.LoadFromPath(configPath)
	if err != nil {
		log.Warnf("Error loading config: %v, using defaults", err)
		cfg = config.DefaultConfig()
	}

	source, err := buildSource(cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Build the grid and its sort controller
	registry := compare.NewRegistry()
	g := grid.New(bus, source, columnDefs(cfg), registry, cfg.Sorting.Enabled)
	sorter := sorting.NewService(g, bus, cfg.Sorting.Enabled)
	sorter.ResolveInitial(startColumn(cfg), cfg.Sorting.Direction)

	// Create UI model
	uiModel := ui.NewModel(bus, cfg, g, sorter)

	// Create Bubble Tea program with mouse support for header clicks
	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithMouseCellMotion())
	uiModel.SetProgram(p)

	// Forward bus events into the UI loop
	eventChan := make(chan eventbus.DomainEvent, 100)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			log.Warnf("Event channel full, dropping event %s", e.Type())
		}
	}
	for _, et := range []eventbus.EventType{
		eventbus.EventRowsLoaded,
		eventbus.EventRedrawRequested,
		eventbus.EventAfterSort,
		eventbus.EventError,
	} {
		bus.Subscribe(et, eventbus.Notify(forward))
	}
	go func() {
		for event := range eventChan {
			p.Send(ui.EventMsg{Event: event})
		}
	}()

	// Run the UI
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	close(eventChan)

	// Persist the last applied sort
	if cfg.UI.AutosaveOnExit {
		if col, dir := g.SortParams(); col != "" {
			cfg.Sorting.Column = col
			cfg.Sorting.Direction = dir
		}
		if err := configSvc.SaveToPath(cfg, configPath); err != nil {
			log.Errorf("Failed to save config: %v", err)
		}
	}
}

// buildSource creates the data source the config selects
func buildSource(cfg *config.Config) (datasource.Source, error) {
	switch cfg.Source.Mode {
	case "remote":
		if cfg.Source.URL == "" {
			return nil, fmt.Errorf("remote mode requires source.url")
		}
		names := make([]string, 0, len(cfg.Columns))
		for _, c := range cfg.Columns {
			names = append(names, c.Name)
		}
		return datasource.NewHTTPSource(cfg.Source.URL, names), nil
	default:
		if cfg.Source.Path == "" {
			return nil, fmt.Errorf("local mode requires source.path")
		}
		comma := ','
		if cfg.Source.Comma != "" {
			comma = []rune(cfg.Source.Comma)[0]
		}
		types := make([]string, 0, len(cfg.Columns))
		for _, c := range cfg.Columns {
			types = append(types, c.Type)
		}
		return datasource.NewCSVSource(cfg.Source.Path, comma, types), nil
	}
}

// columnDefs maps config columns to grid column definitions
func columnDefs(cfg *config.Config) []domain.ColumnDef {
	defs := make([]domain.ColumnDef, 0, len(cfg.Columns))
	for _, c := range cfg.Columns {
		defs = append(defs, domain.ColumnDef{
			Name:      c.Name,
			Title:     c.Title,
			Type:      c.Type,
			Width:     c.Width,
			Sortable:  c.Sortable,
			Sorted:    c.Sorted,
			Direction: c.Direction,
		})
	}
	return defs
}

// startColumn returns the configured starting sort column reference
func startColumn(cfg *config.Config) interface{} {
	if cfg.Sorting.Column == "" {
		return nil
	}
	return cfg.Sorting.Column
}
