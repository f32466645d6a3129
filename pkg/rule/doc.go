// Package rule defines the catalog of candidate knowledge documents. The
// catalog is declarative data: it is loaded once, validated, and treated as
// an immutable arena. Reloading constructs a fresh catalog and atomically
// swaps the reference; nothing ever mutates a loaded catalog in place.
package rule
