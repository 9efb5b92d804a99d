// Package conformance checks a running student-records API against its
// OpenAPI contract.
//
// The harness fires GET requests at every student sub-resource
// (account-balance, grades, class-schedule, ...), asserts the HTTP status
// and walks each JSON body against the schema the contract declares for
// that resource.
//
// # Packages
//
//   - checker: validates a decoded JSON body against a schema fragment,
//     collecting every violation instead of stopping at the first
//   - contract: loads an OpenAPI 2.0 or 3.x document and compiles its
//     definitions into schema fragments
//   - invoker: the shared HTTP session used for every request of a run
//   - config: the harness configuration file
//   - suite: the table of student endpoints, case planning, runner and report
//   - conferrors: typed errors for conditions that stop a run
//
// # Nullable overrides
//
// OpenAPI 2.0 cannot mark a property as nullable. Endpoints whose responses
// legitimately carry null values list those property names as nullable
// overrides; the checker then accepts null for any property with that name
// at any depth of the body:
//
//	c := checker.New()
//	result := c.Validate(resp.StatusCode, 200, body, schema,
//		checker.NewNullableFields("room", "building"))
//	if !result.Valid {
//		for _, v := range result.Violations {
//			fmt.Println(v)
//		}
//	}
//
// # Command line
//
// The conformance binary runs the whole suite:
//
//	conformance run --config config.json --openapi openapi.yaml -- 'grades/.*'
//
// Arguments after "--" are regular expressions selecting cases by name.
// Use --format json or yaml for machine-readable reports and --output to
// write the report to a file. Other commands:
//
//	conformance check -o openapi.yaml -r GradePointAverageResource --envelope body.json
//	conformance resources -o openapi.yaml
//	conformance mcp
package conformance
