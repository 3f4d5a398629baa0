package actor

import (
	"errors"
	"fmt"
)

// Sentinel errors following the ADR-021 error handling pattern: one
// declared value per failure condition, wrapped with %w at the call site
// so callers can still errors.Is/errors.As through a log field or a
// multierr aggregate.
var (
	ErrDropRecv  = errors.New("actorflow: input channel dropped")
	ErrDropSend  = errors.New("actorflow: output channel dropped")
	ErrNoData    = errors.New("actorflow: client produced no data")
	ErrNoInputs  = errors.New("actorflow: actor declares no inputs")
	ErrNoOutputs = errors.New("actorflow: actor declares no outputs")
	ErrNoClient  = errors.New("actorflow: actor has no client")
)

// DisconnectedError reports that an actor's tick loop exited because one of
// its neighbours closed its side of a channel.
type DisconnectedError struct {
	Actor string
}

func (e *DisconnectedError) Error() string {
	return fmt.Sprintf("actorflow: actor %q disconnected", e.Actor)
}

// Disconnected wraps DisconnectedError for the named actor.
func Disconnected(name string) error {
	return &DisconnectedError{Actor: name}
}

// RateError reports a rate-declaration violation caught during Check.
type RateError struct {
	Actor  string
	Reason string
}

func (e *RateError) Error() string {
	return fmt.Sprintf("actorflow: actor %q: %s", e.Actor, e.Reason)
}

// NoInputsPositiveRate reports that name declares inputs but none has a
// positive rate. An actor's input rate is a single value shared by every
// wired input, so there is no "some but not all zero" case to distinguish
// from this one.
func NoInputsPositiveRate(name string) error {
	return &RateError{Actor: name, Reason: "no input has a positive rate"}
}

// NoOutputsPositiveRate reports that name declares outputs but none has a
// positive rate.
func NoOutputsPositiveRate(name string) error {
	return &RateError{Actor: name, Reason: "no output has a positive rate"}
}
