package errors

import "fmt"

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// ValidationError rejects a request before any write is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError means the record vanished between selection and mutation.
// It is surfaced to the caller, never retried.
type NotFoundError struct {
	Id string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record %s not found", e.Id)
}

// TransientIOError wraps a subscription or write channel failure. Retry policy
// belongs to the storage collaborator; for the current operation it is terminal.
type TransientIOError struct {
	Op  string
	Err error
}

func (e *TransientIOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientIOError) Unwrap() error {
	return e.Err
}

// PartialBatchFailure reports a bulk mutation that failed partway through.
// Earlier batches are committed, later ones were never issued. There is no
// automatic rollback.
type PartialBatchFailure struct {
	Succeeded int // records committed before the failing batch
	Failed    int // records in the failing batch and every batch after it
	Err       error
}

func (e *PartialBatchFailure) Error() string {
	return fmt.Sprintf("bulk mutation failed after %d of %d records: %v",
		e.Succeeded, e.Succeeded+e.Failed, e.Err)
}

func (e *PartialBatchFailure) Unwrap() error {
	return e.Err
}
