package models

// OperationResult is the outcome of a mutating business operation. Expected
// rule violations are reported through Success=false and a human-readable
// message rather than through an error.
type OperationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// EnrollmentResult is the outcome of an enrollment attempt. EnrollmentID is
// set on success and on duplicate attempts, where it names the existing row.
type EnrollmentResult struct {
	OperationResult
	EnrollmentID string `json:"enrollment_id,omitempty"`
}

// AssignServiceResult is the outcome of a service assignment attempt.
// StudentServiceID mirrors EnrollmentResult semantics.
type AssignServiceResult struct {
	OperationResult
	StudentServiceID string `json:"student_service_id,omitempty"`
}
