// Package application wires the solver service together: distance storage,
// the egg solver and its result cache, Prometheus metrics, HTTP handlers and
// the server itself. The main package only parses flags and drives shutdown.
package application
