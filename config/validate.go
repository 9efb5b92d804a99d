package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/studentrecords/conformance/conferrors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" {
			return f.Name
		}
		return name
	})
}

// Validate checks field constraints and that a base URL can be derived.
func (cfg *Config) Validate() error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &conferrors.ConfigError{
				Option:  optionName(fe.Namespace()),
				Value:   safeValue(fe),
				Message: formatError(fe),
			}
		}
		return &conferrors.ConfigError{Message: "invalid configuration", Cause: err}
	}

	if err := cfg.TestCases.validateTerms(); err != nil {
		return err
	}

	switch {
	case cfg.BaseURL != "":
	case cfg.LocalTest:
		if cfg.API.LocalBaseURL == "" {
			return &conferrors.ConfigError{Option: "api.local_base_url", Message: "required when local_test is true"}
		}
	default:
		if cfg.Hostname == "" || cfg.API.Name == "" {
			return &conferrors.ConfigError{Option: "hostname", Message: "hostname and api.name are required unless local_test or base_url is set"}
		}
		if err := validate.Var(cfg.Hostname, "url"); err != nil {
			return &conferrors.ConfigError{Option: "hostname", Value: cfg.Hostname, Message: "must be a URL"}
		}
	}
	return nil
}

// validateTerms rejects a term listed twice, since every term becomes a
// case named after it.
func (tc TestCases) validateTerms() error {
	seen := make(map[string]string, len(tc.ValidTerms)+len(tc.InvalidTerms))
	check := func(list string, terms []string) error {
		for i, term := range terms {
			if prev, dup := seen[term]; dup {
				return &conferrors.ConfigError{
					Option:  fmt.Sprintf("test_cases.%s[%d]", list, i),
					Value:   term,
					Message: "term is already listed in " + prev,
				}
			}
			seen[term] = list
		}
		return nil
	}
	if err := check("valid_terms", tc.ValidTerms); err != nil {
		return err
	}
	return check("invalid_terms", tc.InvalidTerms)
}

// optionName turns "Config.test_cases.valid_terms[0]" into
// "test_cases.valid_terms[0]".
func optionName(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return rest
}

func safeValue(fe validator.FieldError) any {
	switch fe.Field() {
	case "password", "client_secret":
		return nil
	}
	if s, ok := fe.Value().(string); ok && s == "" {
		return nil
	}
	return fe.Value()
}

func formatError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field missing"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "url":
		return "must be a URL"
	case "gt":
		return fmt.Sprintf("value must be > %s", fe.Param())
	case "gte":
		return fmt.Sprintf("value must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("value must be <= %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
