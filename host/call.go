package host

import (
	"github.com/rs/zerolog"

	"github.com/bitfsorg/coveredcall-go/address"
	"github.com/bitfsorg/coveredcall-go/event"
)

// Call is the context of one operation: who is calling and at what time.
// A component calling into another component passes c.As(self) so the
// callee sees the component as its caller.
type Call struct {
	env    *Env
	caller address.Address
	now    int64
}

// Caller returns the authenticated identity invoking the operation.
func (c *Call) Caller() address.Address { return c.caller }

// Now returns the operation's timestamp in unix seconds.
func (c *Call) Now() int64 { return c.now }

// Env returns the environment the call runs in.
func (c *Call) Env() *Env { return c.env }

// Logger returns the environment logger.
func (c *Call) Logger() *zerolog.Logger { return &c.env.log }

// As returns a nested call made by self. Time is unchanged.
func (c *Call) As(self address.Address) *Call {
	return &Call{env: c.env, caller: self, now: c.now}
}

// Emit buffers ev until the enclosing operation commits.
func (c *Call) Emit(ev event.Event) {
	c.env.pending = append(c.env.pending, ev)
}

// Atomic runs fn as a nested all-or-nothing unit: if fn fails, its state
// writes and events are undone while the enclosing operation continues.
func (c *Call) Atomic(fn func() error) error {
	snap := c.env.db.Snapshot()
	mark := len(c.env.pending)
	if err := fn(); err != nil {
		c.env.db.RevertTo(snap)
		c.env.pending = c.env.pending[:mark]
		return err
	}
	return nil
}

// Guard rejects re-entry into a component while one of its guarded
// operations is running. The zero value is ready to use.
type Guard struct {
	held bool
}

// Run executes fn unless the guard is already held.
func (g *Guard) Run(fn func() error) error {
	if g.held {
		return ErrReentrant
	}
	g.held = true
	defer func() { g.held = false }()
	return fn()
}
