package contract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"

	"github.com/studentrecords/conformance/conferrors"
)

// validateStructure checks the document with kin-openapi. OAS 2.0 documents
// are converted to 3.0 first. OAS 3.1 and later are not checked.
func validateStructure(ctx context.Context, doc map[string]any, major int, version, source string, log *zap.SugaredLogger) error {
	if major == 3 && !strings.HasPrefix(version, "3.0") {
		log.Debugw("structural validation skipped", "reason", "kin-openapi validates OAS 2.0 and 3.0 only")
		return nil
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return &conferrors.ParseError{Path: source, Message: "failed to re-encode document", Cause: err}
	}

	var spec *openapi3.T
	if major == 2 {
		var v2 openapi2.T
		if err := json.Unmarshal(data, &v2); err != nil {
			return &conferrors.ParseError{Path: source, Message: "invalid OAS 2.0 document", Cause: err}
		}
		spec, err = openapi2conv.ToV3(&v2)
		if err != nil {
			return &conferrors.ParseError{Path: source, Message: "failed to convert OAS 2.0 document", Cause: err}
		}
	} else {
		loader := openapi3.NewLoader()
		loader.Context = ctx
		spec, err = loader.LoadFromData(data)
		if err != nil {
			return &conferrors.ParseError{Path: source, Message: "invalid OAS 3.0 document", Cause: err}
		}
	}

	if err := spec.Validate(ctx,
		openapi3.DisableExamplesValidation(),
		openapi3.DisableSchemaDefaultsValidation(),
	); err != nil {
		return &conferrors.ParseError{Path: source, Message: "structural validation failed", Cause: err}
	}
	log.Debugw("structural validation passed")
	return nil
}
