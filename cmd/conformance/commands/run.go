package commands

import (
	"context"
	"io"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/studentrecords/conformance/config"
	"github.com/studentrecords/conformance/contract"
	"github.com/studentrecords/conformance/internal/cliutil"
	"github.com/studentrecords/conformance/internal/fileutil"
	"github.com/studentrecords/conformance/internal/logging"
	"github.com/studentrecords/conformance/invoker"
	"github.com/studentrecords/conformance/suite"
)

type runFlags struct {
	config   string
	openapi  string
	format   string
	output   string
	parallel int
}

func newRunCmd(global *globalFlags) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [flags] [-- filter...]",
		Short: "Run the conformance suite",
		Long: `Run every case of the suite against the configured API and print a report.

Arguments after -- are regular expressions; only cases whose name matches
at least one of them run, e.g. "class-schedule/" or "/not-found$".
The exit status is 1 when any case fails or errors.`,
		Example: `  conformance run --config configuration.json --openapi openapi.yaml
  conformance run --config configuration.json --format json -- '^grades/'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cliutil.ValidateOutputFormat(flags.format); err != nil {
				return err
			}

			cfg, err := config.Load(flags.config)
			if err != nil {
				return errors.Wrap(err, "could not load configuration")
			}
			if cmd.Flags().Changed("parallel") {
				cfg.Parallel = flags.parallel
			}

			logger, err := logging.NewZapLogger(cfg.Log, global.debug)
			if err != nil {
				return errors.Wrap(err, "could not create logger")
			}
			defer func() { _ = logger.Sync() }()
			logger.Debugw("configuration loaded", "config", cfg.String())

			ctx, stop := signal.NotifyContext(runContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c, err := contract.Load(flags.openapi,
				contract.WithLogger(logger.Named("contract")),
				contract.WithContext(ctx),
			)
			if err != nil {
				return errors.Wrap(err, "could not load contract")
			}

			plan, err := suite.Plan(cfg, c, suite.StudentEndpoints())
			if err != nil {
				return errors.Wrap(err, "could not plan the run")
			}
			for _, s := range plan.Skipped {
				logger.Warnw("endpoint skipped", "endpoint", s.Endpoint, "reason", s.Reason)
			}

			session, err := invoker.New(
				invoker.FromConfig(cfg),
				invoker.WithLogger(logger.Named("invoker")),
				invoker.WithDebug(global.debug),
			)
			if err != nil {
				return errors.Wrap(err, "could not create session")
			}
			defer session.Close()

			runner, err := suite.NewRunner(session,
				suite.WithParallel(cfg.Parallel),
				suite.WithFilters(args...),
				suite.WithLogger(logger.Named("suite")),
			)
			if err != nil {
				return errors.Wrap(err, "invalid run options")
			}

			report, runErr := runner.Run(ctx, plan)
			if report != nil {
				if err := writeReport(cmd.OutOrStdout(), flags, report); err != nil {
					return errors.Wrap(err, "could not write report")
				}
			}
			if runErr != nil {
				return errors.Wrap(runErr, "run did not complete")
			}
			if !report.OK() {
				return errNotConformant
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.config, "config", "c", "configuration.json", "The configuration file (JSON or YAML)")
	cmd.Flags().StringVarP(&flags.openapi, "openapi", "o", "openapi.yaml", "The OpenAPI contract of the API")
	cmd.Flags().StringVarP(&flags.format, "format", "f", cliutil.FormatText, "Report format: text, json or yaml")
	cmd.Flags().StringVar(&flags.output, "output", "", "Write the report to this file instead of stdout")
	cmd.Flags().IntVarP(&flags.parallel, "parallel", "p", 1, "Number of cases to run at once (overrides the configuration)")

	return cmd
}

func writeReport(stdout io.Writer, flags *runFlags, report *suite.Report) error {
	if flags.output == "" {
		return report.Write(stdout, flags.format)
	}
	return fileutil.WriteFile(flags.output, func(w io.Writer) error {
		return report.Write(w, flags.format)
	})
}

// runContext is the context commands run under when cobra has none.
func runContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
