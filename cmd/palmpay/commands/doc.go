// Package commands defines the palmpay CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - login     Authenticate against the verification service
//   - logout    Clear the stored session
//   - enroll    Register hand biometrics with the verification service
//   - pay       Run a gesture-authenticated payment
//   - receipts  List finalized payments
//
// # Implementation
//
// The root command loads the YAML config and builds a dependency graph
// (stores, service clients, capture engine, checkout gateway) before any
// subcommand runs, so handlers share one HTTP client and logger.
package commands
