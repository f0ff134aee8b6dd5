package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"arc-setup/internal/installer"
)

// cleanCmd removes installers and archives downloaded by earlier runs.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached downloads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace()
		if err != nil {
			return err
		}
		var cleanErr error
		if !installer.Clean(ws.st) {
			cleanErr = errors.New("some cached downloads could not be removed")
		}
		return errors.Join(cleanErr, ws.save())
	},
}
