package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

// llvmCmd groups the LLVM install steps so they can be rerun on their own.
var llvmCmd = &cobra.Command{
	Use:   "llvm",
	Short: "Install the LLVM toolchain and MSBuild integration",
}

var llvmInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install LLVM if clang is not found",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace()
		if err != nil {
			return err
		}
		return errors.Join(ws.inst.EnsureLLVM(cmd.Context()), ws.save())
	},
}

var llvmUtilsCmd = &cobra.Command{
	Use:   "utils",
	Short: "Install the LLVM_v143 MSBuild toolset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace()
		if err != nil {
			return err
		}
		return errors.Join(ws.inst.InstallUtils(cmd.Context()), ws.save())
	},
}

func init() {
	llvmCmd.AddCommand(llvmInstallCmd, llvmUtilsCmd)
}
