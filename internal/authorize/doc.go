// Package authorize implements the tiered payment authorization wizard.
//
// The wizard is a state machine driving one transfer from recipient entry
// through biometric capture, conditional secondary factors, gateway checkout
// and final settlement. The server decides which factors an amount requires;
// the wizard only reflects the declared requirement and never skips a factor
// on its own.
//
// Protocol failures never surface as raw errors: they are classified and
// absorbed into the wizard's state (see LastOutcome). Methods return an
// error only for invalid invocation, such as calling a transition from the
// wrong state or feeding malformed input.
//
// Concurrency: a Wizard is NOT safe for concurrent use. Each observation,
// network response and checkout callback must be handled to completion
// before the next; callers serialise access.
package authorize
