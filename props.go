package bollywood

// Producer builds the initial Behavior for a freshly spawned actor. It is
// a closure the way the teacher's bollywood.Producer (func() Actor) is: it
// captures whatever per-instance state the behavior's handlers close over.
type Producer func() *Behavior

// Props configures how an actor is spawned — name, priority awareness,
// trap_exit, and which of the three launch modes
// (cooperative/detached/blocking) owns it. Mirrors the teacher's
// NewProps(producer) plus chained configuration, generalized to the
// flags spec.md §3 names on Actor.
type Props struct {
	produce       Producer
	priorityAware bool
	trapExit      bool
	detached      bool
	blocking      bool
	name          string
}

// NewProps wraps a Producer with default configuration: cooperative
// scheduling, FIFO mailbox, exits-on-non-normal-exit.
func NewProps(p Producer) *Props {
	return &Props{produce: p}
}

// WithPriorityAware turns on priority-aware mailbox refill (spec.md §4.1).
func (p *Props) WithPriorityAware() *Props {
	p.priorityAware = true
	return p
}

// WithTrapExit makes exit messages arrive as ordinary data instead of
// terminating the actor.
func (p *Props) WithTrapExit() *Props {
	p.trapExit = true
	return p
}

// WithName attaches a human-readable name, returned by the {sys, get,
// "info"} introspection query.
func (p *Props) WithName(name string) *Props {
	p.name = name
	return p
}

// Detached marks the actor to run on its own goroutine rather than the
// cooperative scheduler (spec.md §4.6, §6 spawn_detached).
func (p *Props) Detached() *Props {
	p.detached = true
	return p
}

// Blocking marks the actor detached AND willing to make genuinely blocking
// calls from within handlers (spec.md §6 spawn_blocking). Blocking implies
// Detached.
func (p *Props) Blocking() *Props {
	p.blocking = true
	p.detached = true
	return p
}
