// Package module implements a synchronous module registry.
//
// Code units declare modules with a factory and a list of dependency ids.
// Dependencies must already be registered when a module is defined; their
// exports are handed to the factory in declaration order. Named modules are
// committed to the registry exactly once and can then be looked up with
// Require. Anonymous modules are built and returned but never stored.
//
// A Loader owns one registry. The package-level functions operate on a
// process-wide Loader that is created on first use and lives for the rest
// of the process.
//
// Merge precedence: when a factory both fills the exports map it was given
// and returns a non-nil map, the returned keys are copied over the exports
// map, so on a key conflict the returned value wins. This is easy to trip
// over; prefer doing one or the other.
package module
