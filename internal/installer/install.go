package installer

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"arc-setup/internal/config"
	"arc-setup/internal/download"
	"arc-setup/internal/logger"
	"arc-setup/internal/runner"
	"arc-setup/internal/state"
)

// Keys under which downloads are recorded in the state file.
const (
	KeyLLVMInstaller = "llvm-installer"
	KeyLLVMUtils     = "llvm-utils"
)

// Installer installs the LLVM toolchain and its MSBuild integration.
type Installer struct {
	Config  config.Config
	Runner  runner.Runner
	Fetcher *download.Fetcher
	State   *state.State

	GitHubAPI string // Defaults to DefaultGitHubAPI
}

// New wires an Installer from the loaded config.
func New(cfg config.Config, r runner.Runner, f *download.Fetcher, st *state.State) *Installer {
	return &Installer{Config: cfg, Runner: r, Fetcher: f, State: st, GitHubAPI: DefaultGitHubAPI}
}

// EnsureLLVM installs LLVM unless clang is already present at the configured path.
// The install script in the scripts directory wins when it exists; otherwise the
// Windows installer is fetched from the mirror list and run unattended.
func (i *Installer) EnsureLLVM(ctx context.Context) error {
	llvm := i.Config.LLVM
	if exists(llvm.ClangPath) {
		logger.Info("[INFO] LLVM found at %s\n", llvm.ClangPath)
		return nil
	}
	logger.Warn("[WARN] LLVM installation not found!\n")

	if ok, err := i.runScript(ctx, llvm.InstallScript); ok || err != nil {
		return err
	}

	dest := filepath.Join(i.Config.CacheDir, "llvm", llvm.InstallerName())
	res, err := i.Fetcher.FetchFirst(ctx, llvm.URLs(), dest, llvm.InstallerSHA256)
	if err != nil {
		return fmt.Errorf("failed to download LLVM %s: %w", llvm.Version, err)
	}
	i.record(KeyLLVMInstaller, res, "")

	logger.Info("[INFO] Installing LLVM %s...\n", llvm.Version)
	if err := i.runInstaller(ctx, res.Path, llvm.SilentArgs); err != nil {
		return err
	}
	i.State.LLVMVersion = llvm.Version
	logger.Info("[INFO] Installed LLVM %s\n", llvm.Version)
	return nil
}

// InstallUtils installs the MSBuild LLVM toolset integration (llvm-utils).
// It runs the utils script when present, otherwise downloads the release archive,
// extracts it into the cache and runs its install command from the extracted folder.
func (i *Installer) InstallUtils(ctx context.Context) error {
	utils := i.Config.LLVMUtils
	if ok, err := i.runScript(ctx, utils.Script); ok || err != nil {
		return err
	}
	if len(utils.InstallCommand) == 0 {
		return errors.New("llvm_utils.install_command is empty")
	}

	urls := utils.URLs
	if len(urls) == 0 {
		release, err := fetchRelease(ctx, i.Fetcher.Client, i.api(), utils.Repo, utils.Tag)
		if err != nil {
			return err
		}
		asset, err := matchAsset(release, utils.AssetSuffixes)
		if err != nil {
			return err
		}
		urls = []string{asset.BrowserDownloadURL}
	}

	name := path.Base(urls[0])
	if !IsArchive(name) {
		return fmt.Errorf("llvm-utils download %s is not a supported archive", name)
	}
	cacheDir := filepath.Join(i.Config.CacheDir, "llvm-utils")
	res, err := i.Fetcher.FetchFirst(ctx, urls, filepath.Join(cacheDir, name), "")
	if err != nil {
		return fmt.Errorf("failed to download llvm-utils: %w", err)
	}

	extracted, err := ExtractArchive(res.Path, filepath.Join(cacheDir, trimArchiveSuffix(name)))
	if err != nil {
		return err
	}
	i.record(KeyLLVMUtils, res, extracted)
	logger.Debug("[DEBUG] Extracted llvm-utils to %s\n", extracted)

	cmd := utils.InstallCommand
	if err := i.Runner.Run(ctx, extracted, cmd[0], cmd[1:]...); err != nil {
		return fmt.Errorf("llvm-utils install failed: %w", err)
	}
	logger.Info("[INFO] Installed LLVM MSBuild toolset\n")
	return nil
}

// runScript runs a batch file from the scripts directory if it exists.
// The boolean reports whether the script was found.
func (i *Installer) runScript(ctx context.Context, script string) (bool, error) {
	if script == "" || !exists(filepath.Join(i.Config.ScriptsDir, script)) {
		return false, nil
	}
	logger.Info("[INFO] Running %s...\n", script)
	if err := i.Runner.Run(ctx, i.Config.ScriptsDir, script); err != nil {
		return true, err
	}
	return true, nil
}

// runInstaller dispatches on the installer type: MSI packages go through
// msiexec, executables are run directly.
func (i *Installer) runInstaller(ctx context.Context, installer string, args []string) error {
	abs, err := filepath.Abs(installer)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(abs)) {
	case ".msi":
		logger.Info("[INFO] Detected .msi package. Installing via msiexec...\n")
		err = i.Runner.Run(ctx, filepath.Dir(abs), "msiexec", append([]string{"/i", abs}, args...)...)
	case ".exe", ".bat", ".cmd":
		err = i.Runner.Run(ctx, filepath.Dir(abs), abs, args...)
	default:
		return fmt.Errorf("unknown installer type: %s", filepath.Base(abs))
	}
	if err != nil {
		return fmt.Errorf("installer %s failed: %w", filepath.Base(abs), err)
	}
	return nil
}

func (i *Installer) record(key string, res download.Result, extracted string) {
	sum, err := download.FileSHA256(res.Path)
	if err != nil {
		logger.Warn("[WARN] Failed to hash %s: %v\n", res.Path, err)
	}
	entry := state.DownloadState{
		URL:       res.URL,
		Path:      res.Path,
		SHA256:    sum,
		Size:      res.Size,
		Extracted: extracted,
	}
	// Keep the original mirror when the file came from the cache.
	if prev, ok := i.State.Downloads[key]; ok && res.Cached && prev.Path == res.Path {
		entry.URL = prev.URL
	}
	i.State.Downloads[key] = entry
}

func (i *Installer) api() string {
	if i.GitHubAPI == "" {
		return DefaultGitHubAPI
	}
	return strings.TrimSuffix(i.GitHubAPI, "/")
}
