package checker_test

import (
	"encoding/json"
	"fmt"

	"github.com/studentrecords/conformance/checker"
)

func Example() {
	gpa := checker.Object(map[string]*checker.Schema{
		"gpaType":       checker.Primitive(checker.TypeString),
		"gpa":           checker.Primitive(checker.TypeString),
		"creditHours":   checker.Primitive(checker.TypeInteger),
		"qualityPoints": checker.Primitive(checker.TypeString).OrNull(),
	}, "gpaType", "gpa", "creditHours")

	var body any
	_ = json.Unmarshal([]byte(`{"gpaType": "Institution", "creditHours": 12.5, "qualityPoints": null}`), &body)

	result := checker.New().Validate(200, 200, body, gpa, nil)
	fmt.Println("valid:", result.Valid)
	for _, v := range result.Violations {
		fmt.Println(v)
	}
	// Output:
	// valid: false
	// ✗ MissingRequiredField $.gpa: required property "gpa" is missing
	// ✗ TypeMismatch $.creditHours: value must be an integer, got 12.5
}

func ExampleNewNullableFields() {
	schedule := checker.Object(map[string]*checker.Schema{
		"room":     checker.Primitive(checker.TypeString),
		"building": checker.Primitive(checker.TypeString),
	}, "room", "building")

	var body any
	_ = json.Unmarshal([]byte(`{"room": null, "building": null}`), &body)

	c := checker.New()
	fmt.Println(c.Validate(200, 200, body, schedule, nil).Valid)
	fmt.Println(c.Validate(200, 200, body, schedule, checker.NewNullableFields("room", "building")).Valid)
	// Output:
	// false
	// true
}

func ExampleChecker_Validate_errorResponse() {
	var body any
	_ = json.Unmarshal([]byte(`{"code": 400, "message": "Bad Request"}`), &body)

	result := checker.New().Validate(400, 400, body, nil, nil)
	fmt.Println(result.Valid)
	// Output: true
}
