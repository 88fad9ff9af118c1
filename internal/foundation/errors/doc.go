// Package errors provides the classified error primitives used across hrmslite.
//
// Every failure the client surfaces to an operator is a ClassifiedError: it carries
// a category (validation, already_exists, network, remote, ...), a severity, an
// advisory retry strategy, structured context and the exact text the presentation
// layer prints.
//
// Example usage:
//
//	err := errors.RemoteError("delete employee failed").
//		WithUserMessage("Failed to delete employee").
//		WithContext("employee_id", id).
//		WithCause(respErr).
//		Build()
package errors
