// Package commands provides the cobra commands of the conformance CLI.
package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/studentrecords/conformance/config"
	"github.com/studentrecords/conformance/internal/logging"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// errNotConformant is returned when a run or check found violations. Its
// details have already been written as the command's output.
var errNotConformant = errors.New("response does not conform to the contract")

type globalFlags struct {
	debug bool
}

// NewRootCmd builds the conformance command tree.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "conformance",
		Short: "Check the students API against its OpenAPI contract",
		Long: `conformance sends GET requests to every /students/{id} sub-resource of a
running students API and checks each status and JSON body against the
schemas its OpenAPI 2.0 or 3.x contract declares.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetOut(os.Stdout)
	cmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "", false, "Enable debug logging, including HTTP request traces.")

	cmd.AddCommand(newRunCmd(flags))
	cmd.AddCommand(newCheckCmd(flags))
	cmd.AddCommand(newResourcesCmd(flags))
	cmd.AddCommand(newMCPCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the CLI and returns the process exit status.
func Execute() int {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errNotConformant) {
			_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// defaultLogger returns a logger for commands that run without a
// configuration file.
func defaultLogger(flags *globalFlags) (*zap.SugaredLogger, error) {
	return logging.NewZapLogger(config.New().Log, flags.debug)
}
