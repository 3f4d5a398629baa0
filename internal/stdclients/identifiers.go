package stdclients

// SignalID tags the plain float64 scalar signal every standard client in
// this package reads and writes. Domain-specific clients define their own
// identifier types; this one exists so the standard clients can be wired
// to one another directly.
type SignalID struct{}
