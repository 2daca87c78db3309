// Package strategies provides Weave's built-in generation strategies.
//
// The composition strategies - Template, Hybrid, and Markov - are where the
// engine's determinism contract earns its keep: each derives per-child random
// streams through an rng.Router rooted at the stream it was handed, so
// repeated runs with the same seed reproduce every nested decision exactly.
// Template and Hybrid re-enter the engine through the engine.Dispatcher
// handle they receive at construction.
//
// The leaf strategies - List, Syllable, and Const - sample data directly via
// the shared pick primitives and exist so that a fully wired engine can
// generate end to end.
package strategies
