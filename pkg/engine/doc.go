// Package engine provides the strategy registry and dispatch facade at the
// heart of Weave, together with the contracts every collaborator implements:
// the Strategy interface, the shared config-validation routine, the
// structured-error vocabulary, and the optional StreamProvider and Observer
// collaborators.
//
// An Engine is an explicitly constructed value - there is no process-wide
// registry - so multiple independent engines can coexist, each with its own
// strategies, stream provider, and observers. Steady-state dispatch only
// reads the registry; Register and Unregister are safe to call concurrently
// with generation.
//
// All generation failures are Error values, never panics. Composite
// strategies re-enter the engine through the Dispatcher interface handle they
// receive at construction, passing an explicitly derived stream so that the
// seed requirement applies only to top-level calls.
package engine
