// Package classify normalizes heterogeneous failure signals from the
// verification service and the payment gateway into a small closed set of
// user-facing outcomes.
//
// The authorization wizard consumes only classified outcomes; raw transport
// errors and backend payload shapes never reach it. Classification depends on
// which operation failed (the same HTTP status means different things on
// order creation versus settlement), so callers pass the failing operation
// alongside the error.
package classify
