// Package errs provides the error taxonomy of the delivery service.
//
// Every error type wraps a sentinel so callers classify with errors.Is:
//   - ObjectNotFoundError (ErrObjectNotFound): a referenced order, courier,
//     payment or settlement does not exist
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError:
//     request-level validation failures
//   - ConflictError (ErrConflict): the object is in a state that forbids the
//     operation, or a concurrent writer won an optimistic update
//   - ForbiddenError (ErrForbidden): the actor does not own the object
//
// Each type has constructors with and without a cause, an Error method for
// formatting and an Unwrap method returning its sentinel. Inbound adapters map
// the sentinels to transport status codes; anything unclassified is internal.
package errs
