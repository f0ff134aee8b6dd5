package cmd

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"arc-setup/internal/config"
	"arc-setup/internal/download"
	"arc-setup/internal/installer"
	"arc-setup/internal/runner"
	"arc-setup/internal/state"
)

// workspace bundles what every command needs: config, state and an installer.
type workspace struct {
	cfg  config.Config
	st   *state.State
	inst *installer.Installer
}

func loadWorkspace() (*workspace, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	st := state.LoadState(cfg.StateFile)

	// The \r progress line only makes sense on a terminal.
	var progress io.Writer
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		progress = os.Stdout
	}
	fetcher := download.New(cfg.HTTP.Timeout, progress)

	return &workspace{
		cfg:  cfg,
		st:   st,
		inst: installer.New(cfg, runner.New(), fetcher, st),
	}, nil
}

func (w *workspace) save() error {
	return state.SaveState(w.cfg.StateFile, w.st)
}
