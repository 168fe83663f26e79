package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/riggingtools/vertex-blender/internal/backend"
	"github.com/riggingtools/vertex-blender/internal/logging"
	"github.com/riggingtools/vertex-blender/internal/settings"
	"github.com/riggingtools/vertex-blender/internal/skin"
	"github.com/riggingtools/vertex-blender/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	WeightsPath string
	Width       int
	Height      int
	ShowFooter  bool
	Verbose     bool
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	source := skin.NewMemory(nil, nil)
	if cfg.WeightsPath != "" {
		if err := source.LoadWeights(cfg.WeightsPath); err != nil {
			return fmt.Errorf("load weights: %w", err)
		}
	}

	prefs, err := settings.Open("")
	if err != nil {
		logging.Error(err)
		prefs = nil
	}
	width, height := cfg.Width, cfg.Height
	if prefs != nil && width == 0 && height == 0 {
		width, height = prefs.WindowSize()
	}

	watcher := backend.NewWatcher(source, 50*time.Millisecond)
	defer watcher.Stop()

	model := ui.NewModel(source, cfg.WeightsPath, width, height, cfg.ShowFooter, cfg.Verbose, watcher, prefs)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
