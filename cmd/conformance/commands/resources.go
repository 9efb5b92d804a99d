package commands

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/studentrecords/conformance/contract"
	"github.com/studentrecords/conformance/internal/cliutil"
)

// resourceInfo summarizes one contract resource.
type resourceInfo struct {
	Name     string   `json:"name" yaml:"name"`
	Kind     string   `json:"kind" yaml:"kind"`
	Required []string `json:"required,omitempty" yaml:"required,omitempty"`
	Nullable bool     `json:"nullable,omitempty" yaml:"nullable,omitempty"`
}

// resourcesOutput is the structured output of the resources command.
type resourcesOutput struct {
	Source    string         `json:"source" yaml:"source"`
	Version   string         `json:"version" yaml:"version"`
	Resources []resourceInfo `json:"resources" yaml:"resources"`
}

func newResourcesCmd(global *globalFlags) *cobra.Command {
	var openapi, format string
	var skipValidation bool

	cmd := &cobra.Command{
		Use:   "resources [flags]",
		Short: "List the resources a contract defines",
		Long: `Compile every named schema of the contract (definitions in 2.0,
components.schemas in 3.x) and list them. A contract that fails to compile
is reported with the failing reference.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cliutil.ValidateOutputFormat(format); err != nil {
				return err
			}

			logger, err := defaultLogger(global)
			if err != nil {
				return errors.Wrap(err, "could not create logger")
			}
			defer func() { _ = logger.Sync() }()

			c, err := contract.Load(openapi,
				contract.WithLogger(logger.Named("contract")),
				contract.WithStructuralValidation(!skipValidation),
				contract.WithContext(runContext(cmd)),
			)
			if err != nil {
				return errors.Wrap(err, "could not load contract")
			}

			output := resourcesOutput{Source: c.Source(), Version: c.Version()}
			for _, name := range c.Resources() {
				schema, err := c.Resource(name)
				if err != nil {
					return err
				}
				output.Resources = append(output.Resources, resourceInfo{
					Name:     name,
					Kind:     schema.Kind.String(),
					Required: schema.Required,
					Nullable: schema.Nullable,
				})
			}

			if format != cliutil.FormatText {
				return cliutil.WriteStructured(cmd.OutOrStdout(), output, format)
			}
			writeResourcesText(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&openapi, "openapi", "o", "openapi.yaml", "The OpenAPI contract")
	cmd.Flags().StringVarP(&format, "format", "f", cliutil.FormatText, "Output format: text, json or yaml")
	cmd.Flags().BoolVar(&skipValidation, "skip-validation", false, "Skip structural validation of the document")

	return cmd
}

func writeResourcesText(w io.Writer, output resourcesOutput) {
	cliutil.Writef(w, "%s (OpenAPI %s): %d resources\n\n", output.Source, output.Version, len(output.Resources))
	for _, r := range output.Resources {
		kind := r.Kind
		if r.Nullable {
			kind += " or null"
		}
		cliutil.Writef(w, "  %-32s %-16s", r.Name, kind)
		if len(r.Required) > 0 {
			cliutil.Writef(w, " required: %s", strings.Join(r.Required, ", "))
		}
		cliutil.Writef(w, "\n")
	}
}
