// Package model assembles actors into a runnable graph: a collection with
// a checked topology, a Run that spawns every actor to fire its bootstrap
// and then tick, and a Wait that joins every actor's tick loop and
// aggregates whatever errors they returned.
package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"go.uber.org/multierr"

	"github.com/gmto-dos/actorflow/internal/actor"
)

// Model owns every actor in one simulation graph, in the order they were
// added — the order Flowchart renders them in and Run spawns them in. Each
// actor fires its bootstrap outputs in its own goroutine, so bootstraps of
// different actors run concurrently, in no fixed order.
type Model struct {
	name   string
	actors []*actor.Actor
	log    logrus.FieldLogger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      *conc.WaitGroup
	errs    []error
	running bool
}

// New creates an empty model named name.
func New(name string, log logrus.FieldLogger) *Model {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Model{name: name, log: log.WithField("model", name)}
}

// Add registers a already-wired actor with the model. Actors must be added
// before Check/Run.
func (m *Model) Add(a *actor.Actor) {
	a.SetModel(m.name)
	m.actors = append(m.actors, a)
}

// Actors returns every actor in declaration order.
func (m *Model) Actors() []*actor.Actor {
	return m.actors
}

// Run spawns every actor's tick loop on its own goroutine using a
// structured conc.WaitGroup, so a panicking client is recovered into a
// reported error instead of crashing the whole simulation. Each actor
// fires its own bootstrap (if any) as the first thing its goroutine does,
// concurrently with every other actor's bootstrap and tick loop — firing
// every actor's bootstrap synchronously before any goroutine starts would
// deadlock an upsampling actor whose bootstrap sends more than one
// envelope into a lock-step channel nothing is draining yet. Run does not
// block; call Wait to join and collect bootstrap/tick errors alike.
func (m *Model) Run(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return nil
	}
	if err := m.Check(); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)

	wg := conc.NewWaitGroup()
	for _, a := range m.actors {
		a := a
		wg.Go(func() {
			defer func() {
				if r := recover(); r != nil {
					m.log.WithField("actor", a.Name()).WithField("panic", r).Error("actor client panicked")
					m.mu.Lock()
					m.errs = append(m.errs, fmt.Errorf("actor %q panicked: %v", a.Name(), r))
					m.mu.Unlock()
				}
			}()
			if err := a.Bootstrap(runCtx); err != nil {
				m.log.WithField("actor", a.Name()).WithError(err).Error("actor bootstrap failed")
				m.mu.Lock()
				m.errs = append(m.errs, fmt.Errorf("actor %q bootstrap: %w", a.Name(), err))
				m.mu.Unlock()
				return
			}
			m.log.WithField("actor", a.Name()).Info("actor starting")
			err := a.Run(runCtx)
			if err != nil {
				m.log.WithField("actor", a.Name()).WithError(err).Warn("actor stopped")
				m.mu.Lock()
				m.errs = append(m.errs, err)
				m.mu.Unlock()
			} else {
				m.log.WithField("actor", a.Name()).Info("actor stopped")
			}
		})
	}

	m.cancel = cancel
	m.wg = wg
	m.running = true
	return nil
}

// Wait blocks until every actor's tick loop has returned (recovering any
// client panic as an error) and returns the aggregate of every non-nil
// error any actor produced, combined with go.uber.org/multierr so no
// individual failure is lost.
func (m *Model) Wait() error {
	m.mu.Lock()
	wg := m.wg
	m.mu.Unlock()
	if wg == nil {
		return nil
	}
	wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	var agg error
	for _, err := range m.errs {
		agg = multierr.Append(agg, err)
	}
	return agg
}

// Stop cancels every actor's run context, triggering an orderly shutdown
// cascade, without waiting for it to complete.
func (m *Model) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
}
