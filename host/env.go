// Package host is the execution environment the protocol runs in. It
// serializes operations, makes each one all-or-nothing, supplies the
// caller identity and clock, holds native value balances and dispatches
// events once an operation commits.
package host

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bitfsorg/coveredcall-go/address"
	"github.com/bitfsorg/coveredcall-go/event"
	"github.com/bitfsorg/coveredcall-go/state"
)

// Env runs operations one at a time against a state.DB.
type Env struct {
	mu        sync.Mutex
	db        *state.DB
	clock     Clock
	log       zerolog.Logger
	sinks     []event.Sink
	pending   []event.Event
	dirMu     sync.RWMutex
	directory map[address.Address]any
	bank      *Bank
}

// Option configures an Env.
type Option func(*Env)

// WithLogger sets the logger used for operation diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Env) { e.log = l }
}

// WithSink adds an event sink.
func WithSink(s event.Sink) Option {
	return func(e *Env) { e.sinks = append(e.sinks, s) }
}

// NewEnv creates an environment over db reading time from clock.
func NewEnv(db *state.DB, clock Clock, opts ...Option) *Env {
	e := &Env{
		db:        db,
		clock:     clock,
		log:       zerolog.Nop(),
		directory: make(map[address.Address]any),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.bank = newBank(e)
	return e
}

// DB returns the state database components register their tables with.
func (e *Env) DB() *state.DB { return e.db }

// Bank returns the native value ledger.
func (e *Env) Bank() *Bank { return e.bank }

// Logger returns the environment logger.
func (e *Env) Logger() *zerolog.Logger { return &e.log }

// Register makes component reachable at addr. It may be called from inside
// an operation. The directory is not journaled, so a registration survives
// a revert.
func (e *Env) Register(addr address.Address, component any) {
	e.dirMu.Lock()
	defer e.dirMu.Unlock()
	e.directory[addr] = component
}

// Lookup returns the component at addr if it has type T.
func Lookup[T any](e *Env, addr address.Address) (T, bool) {
	e.dirMu.RLock()
	c, ok := e.directory[addr]
	e.dirMu.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := c.(T)
	return t, ok
}

// Execute runs fn as one serialized, all-or-nothing operation on behalf of
// caller. If fn fails, or its effects cannot be persisted, every state
// write and buffered event is discarded.
func (e *Env) Execute(caller address.Address, fn func(*Call) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := e.db.Snapshot()
	c := &Call{env: e, caller: caller, now: e.clock.Now()}

	if err := fn(c); err != nil {
		e.db.RevertTo(snap)
		e.pending = e.pending[:0]
		e.log.Debug().Err(err).Stringer("caller", caller).Msg("operation reverted")
		return err
	}
	if err := e.db.Commit(); err != nil {
		e.db.RevertTo(snap)
		e.pending = e.pending[:0]
		e.log.Error().Err(err).Stringer("caller", caller).Msg("commit failed")
		return fmt.Errorf("%w: %w", ErrCommit, err)
	}

	events := e.pending
	e.pending = nil
	for _, ev := range events {
		for _, s := range e.sinks {
			s.Emit(ev)
		}
	}
	return nil
}

// View runs fn without committing anything. Any writes fn makes are
// reverted.
func (e *Env) View(caller address.Address, fn func(*Call) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := e.db.Snapshot()
	mark := len(e.pending)
	defer func() {
		e.db.RevertTo(snap)
		e.pending = e.pending[:mark]
	}()
	return fn(&Call{env: e, caller: caller, now: e.clock.Now()})
}
