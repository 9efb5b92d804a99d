package commands

import (
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/studentrecords/conformance/internal/mcpserver"
)

func newMCPCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the checker as MCP tools over stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout exposing the
check_body and list_resources tools. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := defaultLogger(global)
			if err != nil {
				return errors.Wrap(err, "could not create logger")
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(runContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := mcpserver.Run(ctx, logger.Named("mcp")); err != nil {
				return errors.Wrap(err, "mcp server stopped")
			}
			return nil
		},
	}
}
