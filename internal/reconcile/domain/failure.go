package domain

// FailureReason categorizes why an inbound event could not be fully automated.
type FailureReason string

const (
	// ReasonParseFailed marks structurally malformed input. Not retryable
	// without a format change; always surfaced to an operator.
	ReasonParseFailed FailureReason = "parse_failed"
	// ReasonServiceNotFound marks a service name that matched nothing in the
	// salon's catalog. Recoverable by operator assignment.
	ReasonServiceNotFound FailureReason = "service_not_found"
	// ReasonEmployeeNotFound marks a staff name that matched no employee.
	// Recoverable by operator assignment.
	ReasonEmployeeNotFound FailureReason = "employee_not_found"
	// ReasonBookingNotFound marks a reschedule or cancel whose target booking
	// could not be located. Terminal: there is no entity an operator could
	// assign to repair it.
	ReasonBookingNotFound FailureReason = "booking_not_found"
	// ReasonOther covers unexpected failures.
	ReasonOther FailureReason = "other"
)

// PipelineStatus is the terminal state of one pipeline run.
type PipelineStatus string

const (
	// StatusDone means a booking was created, moved, cancelled, or found
	// already applied (deduplicated).
	StatusDone PipelineStatus = "done"
	// StatusPending means the event was parked in the pending queue for
	// manual resolution.
	StatusPending PipelineStatus = "pending"
	// StatusFailed means the event cannot be applied and no operator action
	// on the pending queue would fix it.
	StatusFailed PipelineStatus = "failed"
)
