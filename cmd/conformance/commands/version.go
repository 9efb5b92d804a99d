package commands

import (
	"github.com/spf13/cobra"

	"github.com/studentrecords/conformance"
)

func newVersionCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Long:  `Print the version with the commit it was built from.`,
		Run: func(cmd *cobra.Command, args []string) {
			if verbose {
				cmd.Println(conformance.BuildInfo())
				return
			}
			cmd.Printf("conformance %s (%s)\n", conformance.Version(), conformance.Commit())
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print build time and Go version too.")
	return cmd
}
