package config

import (
	"strings"
	"time"
)

// Config is the top-level structure returned after loading setup.yaml.
// Relative paths are resolved against the working directory the tool runs in,
// which is normally the scripts directory of the workspace.
type Config struct {
	ScriptsDir  string     `yaml:"scripts_dir"`  // Where the generator and install batch files live
	ProjectRoot string     `yaml:"project_root"` // Tree walked when patching project files
	CacheDir    string     `yaml:"cache_dir"`    // Downloaded installers and archives
	StateFile   string     `yaml:"state_file"`   // JSON state written after each run
	Generators  Generators `yaml:"generators"`
	LLVM        LLVM       `yaml:"llvm"`
	LLVMUtils   LLVMUtils  `yaml:"llvm_utils"`
	Patch       Patch      `yaml:"patch"`
	HTTP        HTTP       `yaml:"http"`
}

// Generators maps each generator flavor to the batch file that produces the solution.
type Generators struct {
	MSVC  string `yaml:"msvc"`
	Clang string `yaml:"clang"`
}

// LLVM describes the LLVM toolchain installation.
// - ClangPath: file whose presence means LLVM is already installed.
// - InstallScript: batch file run when present, instead of the native download.
// - InstallerURLs: mirror list for the Windows installer; "{version}" is expanded.
// - InstallerSHA256: optional checksum of the installer.
// - SilentArgs: arguments passed to the installer for an unattended install.
type LLVM struct {
	Version         string   `yaml:"version"`
	ClangPath       string   `yaml:"clang_path"`
	InstallScript   string   `yaml:"install_script"`
	InstallerURLs   []string `yaml:"installer_urls"`
	InstallerSHA256 string   `yaml:"installer_sha256"`
	SilentArgs      []string `yaml:"silent_args"`
}

// InstallerName is the file name the installer is cached under.
func (l LLVM) InstallerName() string {
	return "LLVM-" + l.Version + "-win64.exe"
}

// URLs returns the mirror list with the version placeholder expanded.
func (l LLVM) URLs() []string {
	return expandVersion(l.InstallerURLs, l.Version)
}

// LLVMUtils describes the MSBuild integration that provides the LLVM_v143 toolset.
// When URLs is empty the archive is resolved from the GitHub release of Repo at Tag
// (latest release when Tag is empty), picking the first asset ending in one of AssetSuffixes.
type LLVMUtils struct {
	Script         string   `yaml:"script"`
	Repo           string   `yaml:"repo"`
	Tag            string   `yaml:"tag"`
	URLs           []string `yaml:"urls"`
	AssetSuffixes  []string `yaml:"asset_suffixes"`
	InstallCommand []string `yaml:"install_command"` // Run inside the extracted folder
}

// Patch configures the project-file toolset substitution.
type Patch struct {
	Extension string   `yaml:"extension"`
	From      string   `yaml:"from"`
	To        string   `yaml:"to"`
	Skip      []string `yaml:"skip"` // Directory names that are never descended
}

// HTTP holds download client settings. A zero Timeout means no overall timeout.
type HTTP struct {
	Timeout time.Duration `yaml:"timeout"`
}

func expandVersion(urls []string, version string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		out = append(out, strings.ReplaceAll(u, "{version}", version))
	}
	return out
}
