package model

import (
	"fmt"

	"github.com/gmto-dos/actorflow/internal/actor"
)

const (
	white = iota
	gray
	black
)

// checkCycles walks the OutEdges recorded between actors as they were
// wired with BuiltOutput.IntoInput and rejects any feedback cycle whose
// every edge lacks a bootstrap: every actor on such a cycle would be
// waiting on another actor on the same cycle to produce its first value,
// which never happens.
//
// It is a plain depth-first search keeping the current path of actors and
// the edges taken between them. Bootstrapped edges are left out of the
// walk: one already breaks every cycle through it, so any cycle among the
// remaining edges has no bootstrap on it. A back-edge into an actor still
// on the path closes such a cycle; that cycle is exactly the path edges
// from the target's position onward plus the closing edge itself.
func checkCycles(actors []*actor.Actor) error {
	state := make(map[*actor.Actor]int, len(actors))
	pathIndex := make(map[*actor.Actor]int, len(actors))
	var path []actor.OutEdge

	var visit func(a *actor.Actor) error
	visit = func(a *actor.Actor) error {
		state[a] = gray
		pathIndex[a] = len(path)

		for _, e := range a.OutEdges() {
			if e.Bootstrap {
				continue
			}
			switch state[e.To] {
			case white:
				path = append(path, e)
				if err := visit(e.To); err != nil {
					return err
				}
				path = path[:len(path)-1]
			case gray:
				bootstrapped := e.Bootstrap
				for _, pe := range path[pathIndex[e.To]:] {
					if pe.Bootstrap {
						bootstrapped = true
					}
				}
				if !bootstrapped {
					return fmt.Errorf("actorflow: feedback cycle through actor %q has no bootstrapped output", e.To.Name())
				}
			}
		}

		state[a] = black
		return nil
	}

	for _, a := range actors {
		if state[a] == white {
			if err := visit(a); err != nil {
				return err
			}
		}
	}
	return nil
}
