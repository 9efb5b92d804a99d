// Package checker validates decoded JSON response bodies against schema
// fragments compiled from an OpenAPI contract.
//
// A check answers one question for one HTTP exchange: did the API return the
// status the caller expected, and does the body have the shape the contract
// promises? Every mismatch is collected, so a single call reports the full
// list of problems in the body rather than the first one found.
//
// # Violation kinds
//
//   - [StatusMismatch]: the observed status differs from the expected one.
//     Reported alone; the body is not inspected.
//   - [MissingBody]: the body was empty or not valid JSON ([NoBody]).
//   - [MissingRequiredField]: a required property is absent.
//   - [TypeMismatch]: the JSON type differs from the declared type, including
//     fractional numbers for integer fields.
//   - [UnexpectedNull]: null where the schema does not allow it.
//
// # Nullable overrides
//
// [NullableFields] lists property names that may be null anywhere in the
// body, whatever the schema says. This covers contracts written in OpenAPI
// 2.0, which has no way to declare a nullable property.
//
// # Error responses
//
// When the expected status is 400 or above, the body is checked against the
// checker's error schema (see [DefaultErrorSchema] and [WithErrorSchema])
// instead of the resource schema passed by the caller.
//
// # Example
//
//	schema := checker.Object(map[string]*checker.Schema{
//		"id":   checker.Primitive(checker.TypeInteger),
//		"name": checker.Primitive(checker.TypeString),
//	}, "id")
//
//	result := checker.New().Validate(200, 200, body, schema, nil)
//	for _, v := range result.Violations {
//		fmt.Println(v)
//	}
//
// A Checker holds no per-call state and may be shared between goroutines.
package checker
