package model

import "go.uber.org/multierr"

// Check validates every actor's own topology and rate declarations, then
// walks the wires recorded between them (via BuiltOutput.IntoInput) to
// reject a feedback cycle that never bootstraps — such a cycle would have
// every actor on it waiting on another actor on the same cycle for its
// first value, deadlocking Run before it ever produces anything.
func (m *Model) Check() error {
	var agg error
	for _, a := range m.actors {
		if err := a.Check(); err != nil {
			agg = multierr.Append(agg, err)
		}
	}
	if err := checkCycles(m.actors); err != nil {
		agg = multierr.Append(agg, err)
	}
	return agg
}
