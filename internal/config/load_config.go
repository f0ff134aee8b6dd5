package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"arc-setup/internal/logger"
)

// Default toolset markers. Premake emits ClangCL for the clang generator; the LLVM
// toolchain is selected through the LLVM_v143 toolset installed by llvm-utils.
const (
	DefaultToolsetFrom = "<PlatformToolset>ClangCL</PlatformToolset>"
	DefaultToolsetTo   = "<PlatformToolset>LLVM_v143</PlatformToolset>"
)

// Default returns the configuration used when no setup.yaml is present.
func Default() Config {
	return Config{
		ScriptsDir:  ".",
		ProjectRoot: "..",
		CacheDir:    ".cache",
		StateFile:   ".arc-setup.json",
		Generators: Generators{
			MSVC:  "GenerateSolution.bat",
			Clang: "GenerateSolutionClang.bat",
		},
		LLVM: LLVM{
			Version:       "18.1.8",
			ClangPath:     "C:/Program Files/LLVM/bin/clang.exe",
			InstallScript: "Install-LLVM.bat",
			InstallerURLs: []string{
				"https://github.com/llvm/llvm-project/releases/download/llvmorg-{version}/LLVM-{version}-win64.exe",
			},
			SilentArgs: []string{"/S"},
		},
		LLVMUtils: LLVMUtils{
			Script:         "Install-LLVM-Utils.bat",
			Repo:           "zufuliu/llvm-utils",
			AssetSuffixes:  []string{".zip", ".7z"},
			InstallCommand: []string{"install.bat"},
		},
		Patch: Patch{
			Extension: ".vcxproj",
			From:      DefaultToolsetFrom,
			To:        DefaultToolsetTo,
			Skip:      []string{".git", ".vs"},
		},
	}
}

// LoadConfig reads the YAML file at path on top of Default().
// A missing file is not an error: the defaults mirror the layout of the scripts directory.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("[DEBUG] No config at %s, using defaults\n", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	logger.Debug("[DEBUG] Loaded config from %s\n", path)
	return cfg, nil
}

// Validate reports settings that would make a run meaningless.
func (c Config) Validate() error {
	var errs []error
	if c.Generators.MSVC == "" || c.Generators.Clang == "" {
		errs = append(errs, errors.New("generators.msvc and generators.clang are required"))
	}
	if c.Patch.From == "" {
		errs = append(errs, errors.New("patch.from must not be empty"))
	}
	if !strings.HasPrefix(c.Patch.Extension, ".") {
		errs = append(errs, fmt.Errorf("patch.extension %q must start with a dot", c.Patch.Extension))
	}
	if c.HTTP.Timeout < 0 {
		errs = append(errs, errors.New("http.timeout must not be negative"))
	}
	return errors.Join(errs...)
}
