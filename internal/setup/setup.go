// Package setup runs the workspace setup steps in order: generate the solution
// for the selected compiler, then for LLVM install the toolchain and patch the
// generated project files to use the LLVM toolset.
package setup

import (
	"context"
	"fmt"
	"time"

	"arc-setup/internal/config"
	"arc-setup/internal/installer"
	"arc-setup/internal/logger"
	"arc-setup/internal/patcher"
	"arc-setup/internal/runner"
	"arc-setup/internal/state"
	"arc-setup/internal/toolchain"
)

// Setup holds the collaborators for one run.
type Setup struct {
	Config    config.Config
	Runner    runner.Runner
	Installer *installer.Installer
	State     *state.State

	// KeepGoing logs generator and installer failures instead of stopping.
	// Patch failures always stop the run.
	KeepGoing bool

	now func() time.Time
}

// New builds a Setup sharing the installer's runner and state.
func New(cfg config.Config, inst *installer.Installer) *Setup {
	return &Setup{
		Config:    cfg,
		Runner:    inst.Runner,
		Installer: inst,
		State:     inst.State,
		now:       time.Now,
	}
}

// Run performs every step for compiler c.
func (s *Setup) Run(ctx context.Context, c toolchain.Compiler) error {
	logger.Info("[INFO] Setting up workspace for %s\n", c)

	if err := s.step("generate solution", func() error { return s.Generate(ctx, c) }); err != nil {
		return err
	}

	if c.NeedsLLVM() {
		if err := s.step("install LLVM", func() error { return s.Installer.EnsureLLVM(ctx) }); err != nil {
			return err
		}
		if err := s.step("install LLVM utils", func() error { return s.Installer.InstallUtils(ctx) }); err != nil {
			return err
		}
		if _, err := s.Patch(); err != nil {
			return err
		}
	} else {
		// The regenerated projects no longer carry the LLVM toolset.
		s.State.Patched = nil
	}

	s.State.LastCompiler = c.String()
	s.State.LastRun = s.clock()
	logger.Info("[INFO] Generated project files for %s\n", c)
	return nil
}

// Generate runs the generator batch file matching c.
func (s *Setup) Generate(ctx context.Context, c toolchain.Compiler) error {
	script := s.Config.Generators.MSVC
	if c.Generator() == toolchain.GeneratorClang {
		script = s.Config.Generators.Clang
	}
	logger.Info("[INFO] Running %s...\n", script)
	return s.Runner.Run(ctx, s.Config.ScriptsDir, script)
}

// Patch rewrites the toolset marker in every project file under the project root.
func (s *Setup) Patch() (patcher.Result, error) {
	p := s.Config.Patch
	res, err := patcher.Patch(s.Config.ProjectRoot, patcher.Options{
		Extension: p.Extension,
		From:      p.From,
		To:        p.To,
		Skip:      p.Skip,
	})
	if err != nil {
		return res, err
	}
	s.State.Patched = res.Patched
	logger.Info("[INFO] Patched %d of %d %s file(s) (%d replacement(s))\n",
		len(res.Patched), res.Scanned, p.Extension, res.Replacements)
	return res, nil
}

func (s *Setup) step(name string, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}
	if s.KeepGoing {
		logger.Warn("[WARN] %s failed, continuing: %v\n", name, err)
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

func (s *Setup) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
