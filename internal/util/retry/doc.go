// Package retry provides the two retry combinators used by scanner-gke.
//
// [WithExponentialBackoff] retries an operation a bounded number of times with
// growing delays; a predicate set through [WithRetryIf] restricts which
// errors are retried.
//
// [Until] is a fixed-interval readiness poll built on apimachinery's wait
// package. Errors returned by the condition abort the poll immediately; only
// the "not ready yet" outcome is retried.
package retry
