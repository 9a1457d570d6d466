package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"sourcepack/pkg/version"
)

// versionCmd displays the current version of sourcepack. The --short flag
// prints just the version number.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version of sourcepack",
	RunE: func(cmd *cobra.Command, args []string) error {
		short, err := cmd.Flags().GetBool("short")
		if err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}

		v := version.Get()
		if short {
			fmt.Fprintln(cmd.OutOrStdout(), v.Version)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), v.String())
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
	RootCmd.AddCommand(versionCmd)
}
