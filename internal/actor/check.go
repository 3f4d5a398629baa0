package actor

// Check validates one actor's topology and declared rates in isolation,
// independent of how it is wired to its neighbours. Model.Check calls this
// for every actor before Model.Run spawns anything.
func (a *Actor) Check() error {
	if a.client == nil {
		return ErrNoClient
	}
	if len(a.inputs) == 0 && len(a.outputs) == 0 {
		return ErrNoInputs
	}
	// A declared positive rate without a wired port means the graph
	// builder never called IntoInput/Build for it — a dropped or
	// typo'd wire — rather than a deliberately input-less or
	// output-less actor.
	if a.ni > 0 && len(a.inputs) == 0 {
		return ErrNoInputs
	}
	if a.no > 0 && len(a.outputs) == 0 {
		return ErrNoOutputs
	}
	if len(a.inputs) > 0 {
		if a.ni == 0 {
			return NoInputsPositiveRate(a.name)
		}
	}
	if len(a.outputs) > 0 {
		if a.no == 0 {
			return NoOutputsPositiveRate(a.name)
		}
	}
	if len(a.inputs) > 0 && len(a.outputs) > 0 {
		if a.no >= a.ni && a.no%a.ni != 0 {
			return &RateError{Actor: a.name, Reason: "output rate is not a multiple of input rate"}
		}
		if a.ni > a.no && a.ni%a.no != 0 {
			return &RateError{Actor: a.name, Reason: "input rate is not a multiple of output rate"}
		}
	}
	return nil
}
