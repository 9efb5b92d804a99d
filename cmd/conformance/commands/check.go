package commands

import (
	"io"
	"net/http"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/studentrecords/conformance/checker"
	"github.com/studentrecords/conformance/contract"
	"github.com/studentrecords/conformance/internal/cliutil"
	"github.com/studentrecords/conformance/internal/httputil"
	"github.com/studentrecords/conformance/suite"
)

type checkFlags struct {
	openapi       string
	resource      string
	status        int
	expect        int
	nullable      []string
	envelope      bool
	collection    bool
	errorResource string
	format        string
}

func newCheckCmd(global *globalFlags) *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [flags] <body.json|->",
		Short: "Check one response body against a contract resource",
		Long: `Check a saved response body against a resource of the contract and report
every violation with its JSON path. Use - to read the body from stdin.

The exit status is 1 when the body does not conform.`,
		Example: `  conformance check --openapi openapi.yaml --resource GradesResource --envelope --collection grades.json
  curl -s $URL | conformance check -o openapi.yaml --resource ErrorResult --status 404 -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cliutil.ValidateOutputFormat(flags.format); err != nil {
				return err
			}
			if err := httputil.ValidateStatusCode(flags.status); err != nil {
				return errors.Wrap(err, "invalid --status")
			}
			expected := flags.expect
			if expected == 0 {
				expected = flags.status
			}
			if err := httputil.ValidateStatusCode(expected); err != nil {
				return errors.Wrap(err, "invalid --expect")
			}

			logger, err := defaultLogger(global)
			if err != nil {
				return errors.Wrap(err, "could not create logger")
			}
			defer func() { _ = logger.Sync() }()
			for _, code := range []int{flags.status, expected} {
				if !httputil.IsStandardStatusCode(code) {
					logger.Warnw("status code is not defined by RFC 9110", "status", code)
				}
			}

			c, err := contract.Load(flags.openapi,
				contract.WithLogger(logger.Named("contract")),
				contract.WithContext(runContext(cmd)),
			)
			if err != nil {
				return errors.Wrap(err, "could not load contract")
			}

			schema, err := c.Resource(flags.resource)
			if err != nil {
				return errors.Wrap(err, "invalid --resource")
			}
			if flags.envelope {
				schema = suite.Envelope(schema, flags.collection)
			}

			var opts []checker.Option
			if flags.errorResource != "" {
				errSchema, err := c.Resource(flags.errorResource)
				if err != nil {
					return errors.Wrap(err, "invalid --error-resource")
				}
				opts = append(opts, checker.WithErrorSchema(errSchema))
			}

			raw, err := readBody(cmd.InOrStdin(), args[0])
			if err != nil {
				return errors.Wrap(err, "could not read body")
			}

			result := checker.New(opts...).Validate(flags.status, expected, checker.DecodeBody(raw), schema,
				checker.NewNullableFields(flags.nullable...))

			out := cmd.OutOrStdout()
			if flags.format == cliutil.FormatText {
				writeResultText(out, result)
			} else if err := cliutil.WriteStructured(out, result, flags.format); err != nil {
				return err
			}
			if !result.Valid {
				return errNotConformant
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.openapi, "openapi", "o", "openapi.yaml", "The OpenAPI contract")
	cmd.Flags().StringVarP(&flags.resource, "resource", "r", "", "The resource the body must match")
	cmd.Flags().IntVarP(&flags.status, "status", "s", http.StatusOK, "HTTP status the API returned")
	cmd.Flags().IntVarP(&flags.expect, "expect", "e", 0, "HTTP status the contract requires (default: --status)")
	cmd.Flags().StringSliceVarP(&flags.nullable, "nullable", "n", nil, "Property names that may be null at any depth")
	cmd.Flags().BoolVar(&flags.envelope, "envelope", false, "Wrap the resource in a JSON:API document ({\"data\": resource})")
	cmd.Flags().BoolVar(&flags.collection, "collection", false, "With --envelope, expect data to be an array of resources")
	cmd.Flags().StringVar(&flags.errorResource, "error-resource", "", "Resource checked for error statuses instead of the default {code, message}")
	cmd.Flags().StringVarP(&flags.format, "format", "f", cliutil.FormatText, "Output format: text, json or yaml")
	_ = cmd.MarkFlagRequired("resource")

	return cmd
}

// readBody reads a body from path, or from stdin when path is "-".
func readBody(stdin io.Reader, path string) ([]byte, error) {
	if path == StdinFilePath {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path) //nolint:gosec // the path is a CLI argument
}

func writeResultText(w io.Writer, result *checker.Result) {
	if result.Valid {
		cliutil.Writef(w, "✓ conforms (status %d)\n", result.StatusCode)
		return
	}
	cliutil.Writef(w, "%d violation(s) (status %d, expected %d)\n", len(result.Violations), result.StatusCode, result.ExpectedStatus)
	for _, v := range result.Violations {
		cliutil.Writef(w, "  %s\n", v)
		if v.Expected != "" || v.Actual != "" {
			cliutil.Writef(w, "      expected: %s, actual: %s\n", v.Expected, v.Actual)
		}
	}
}
