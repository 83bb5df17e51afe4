// Package registry provides a generic, thread-safe, append-only registry
// keyed by name. Items are never replaced or removed once registered, and
// the registration order is kept so callers can walk entries in the order
// they were committed.
package registry
