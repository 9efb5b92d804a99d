// Package contract loads an OpenAPI document and compiles its named schema
// definitions into checker.Schema fragments.
//
// Both OAS 2.0 (Swagger) and OAS 3.x documents are accepted, in YAML or JSON.
// The document version is detected from the root "swagger" or "openapi"
// field. OAS 2.0 and 3.0 documents are validated structurally with
// kin-openapi before compilation; OAS 3.1 documents are compiled without
// that step.
//
// # Compilation
//
// Local references (#/definitions/X, #/components/schemas/X or any other
// JSON pointer into the same document) are followed during compilation.
// External references are rejected. A reference chain that returns to a
// schema already being compiled yields a circular ReferenceError, since a
// compiled fragment is always a finite tree.
//
// Nullability is read from every dialect the harness meets in practice:
//
//   - OAS 3.0 "nullable: true"
//   - OAS 3.1 type arrays such as ["string", "null"]
//   - the OAS 2.0 vendor extension "x-nullable: true"
//
// allOf members are merged into a single object. oneOf and anyOf compile to
// their only non-null member when there is exactly one, and accept any value
// otherwise.
//
// # Example
//
//	c, err := contract.Load("openapi.yaml")
//	if err != nil {
//		return err
//	}
//	schemas, err := c.Resolve("GradesResource", "HoldsResource")
//	if err != nil {
//		return err
//	}
package contract
