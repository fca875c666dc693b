// Package component defines lifecycle-managed services and the registry
// that starts them in order and stops them in reverse.
//
// It also provides Lazy, a write-once cell for resources that are expensive
// to build and must be built at most once per process.
package component
