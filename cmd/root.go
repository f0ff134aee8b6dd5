package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"arc-setup/internal/logger"
	"arc-setup/internal/setup"
	"arc-setup/internal/toolchain"
)

// Global flags shared by every command.
var (
	debug      bool   // --debug: verbose logging
	noColor    bool   // --no-color: plain output for build logs
	configPath string // --config/-c: optional setup.yaml
	keepGoing  bool   // --keep-going: log script failures instead of stopping
)

// rootCmd generates the solution for a compiler. With no argument the user is
// asked to pick one.
var rootCmd = &cobra.Command{
	Use:       "arc-setup [msvc|clang|llvm]",
	Short:     "Generate Arc project files for a compiler toolchain",
	ValidArgs: []string{string(toolchain.MSVC), string(toolchain.Clang), string(toolchain.LLVM)},
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return toolchain.ErrTooManyArgs
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,

	// Initialize logging before any subcommand runs.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug, noColor)
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace()
		if err != nil {
			return err
		}
		compiler, err := toolchain.Select(args, toolchain.NewPrompter(os.Stdin, os.Stdout))
		if err != nil {
			return err
		}

		s := setup.New(ws.cfg, ws.inst)
		s.KeepGoing = keepGoing

		runErr := s.Run(cmd.Context(), compiler)
		return errors.Join(runErr, ws.save())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "setup.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&keepGoing, "keep-going", false, "Continue when a generator or installer step fails")

	rootCmd.AddCommand(patchCmd, llvmCmd, cleanCmd)
}

// Execute runs the CLI. Errors are logged and turn into a non-zero exit status.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("[ERROR] %v\n", err)
		stop()
		os.Exit(1)
	}
}
