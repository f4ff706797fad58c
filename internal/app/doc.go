// Package app wires application dependencies for the CLI.
//
// It builds the concrete stores, service clients, capture engine and
// checkout gateway from Config, exposing them via the Wire struct for
// commands to use.
package app
