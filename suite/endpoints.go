package suite

// Endpoint describes one sub-resource of /students/{id}.
type Endpoint struct {
	// Name is the case name prefix, e.g. "class-schedule".
	Name string `json:"name" yaml:"name"`
	// Path is the sub-path after /students/{id}/.
	Path string `json:"path" yaml:"path"`
	// Resource is the contract definition of one data element.
	Resource string `json:"resource" yaml:"resource"`
	// IDKey is the test_cases key holding the student identifier to use.
	IDKey string `json:"id_key" yaml:"id_key"`
	// Collection is true when "data" is an array of resources.
	Collection bool `json:"collection" yaml:"collection"`
	// NullableFields are property names the API may return as null even
	// though the contract cannot say so.
	NullableFields []string `json:"nullable_fields,omitempty" yaml:"nullable_fields,omitempty"`
	// Terms is true when the endpoint accepts the term query parameter.
	Terms bool `json:"terms" yaml:"terms"`
}

// StudentEndpoints returns the endpoint table of the students API.
func StudentEndpoints() []Endpoint {
	return []Endpoint{
		{
			Name:     "account-balance",
			Path:     "account-balance",
			Resource: "AccountBalanceResource",
			IDKey:    "valid_account_balance",
		},
		{
			Name:     "account-transactions",
			Path:     "account-transactions",
			Resource: "AccountTransactionsResource",
			IDKey:    "valid_account_transactions",
		},
		{
			Name:           "academic-status",
			Path:           "academic-status",
			Resource:       "AcademicStatusResource",
			IDKey:          "valid_academic_status",
			Collection:     true,
			NullableFields: []string{"academicStanding"},
			Terms:          true,
		},
		{
			Name:     "classification",
			Path:     "classification",
			Resource: "ClassificationResource",
			IDKey:    "valid_classification",
		},
		{
			Name:     "gpa",
			Path:     "gpa",
			Resource: "GradePointAverageResource",
			IDKey:    "valid_gpa",
		},
		{
			Name:       "grades",
			Path:       "grades",
			Resource:   "GradesResource",
			IDKey:      "valid_grades",
			Collection: true,
			Terms:      true,
		},
		{
			Name:       "class-schedule",
			Path:       "class-schedule",
			Resource:   "ClassScheduleResource",
			IDKey:      "valid_class_schedule",
			Collection: true,
			// OAS 2.0 has no nullable keyword.
			NullableFields: []string{
				"email",
				"beginTime",
				"endTime",
				"room",
				"building",
				"buildingDescription",
			},
			Terms: true,
		},
		{
			Name:     "holds",
			Path:     "holds",
			Resource: "HoldsResource",
			IDKey:    "valid_holds",
		},
		{
			Name:       "dual-enrollment",
			Path:       "dual-enrollment",
			Resource:   "DualEnrollmentResource",
			IDKey:      "valid_dual_enrollment",
			Collection: true,
			Terms:      true,
		},
		{
			Name:       "degrees",
			Path:       "degrees",
			Resource:   "DegreeResource",
			IDKey:      "valid_degrees",
			Collection: true,
			Terms:      true,
		},
		{
			Name:     "work-study",
			Path:     "work-study",
			Resource: "WorkStudyResource",
			IDKey:    "valid_work_study",
		},
		{
			Name:     "emergency-contacts",
			Path:     "emergency-contacts",
			Resource: "EmergencyContactsResource",
			IDKey:    "valid_emergency_contacts",
		},
	}
}
