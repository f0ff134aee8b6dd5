package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"arc-setup/internal/setup"
)

var (
	patchFrom string
	patchTo   string
)

// patchCmd rewrites the toolset marker without regenerating the solution.
var patchCmd = &cobra.Command{
	Use:   "patch [dir]",
	Short: "Patch generated project files to use the LLVM toolset",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			ws.cfg.ProjectRoot = args[0]
		}
		if patchFrom != "" {
			ws.cfg.Patch.From = patchFrom
		}
		if patchTo != "" {
			ws.cfg.Patch.To = patchTo
		}

		_, err = setup.New(ws.cfg, ws.inst).Patch()
		return errors.Join(err, ws.save())
	},
}

func init() {
	patchCmd.Flags().StringVar(&patchFrom, "from", "", "Toolset marker to replace (default from config)")
	patchCmd.Flags().StringVar(&patchTo, "to", "", "Replacement toolset marker (default from config)")
}
