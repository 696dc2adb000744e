package bollywood

import (
	"reflect"
	"time"
)

// Handler is the signature every pattern, fallback, and timeout callback
// implements. ctx gives it the same Send/Request/Become/Quit surface the
// teacher's bollywood.Context gives actors (see context.go).
type Handler func(ctx *Context, msg Message) Result

// TimeoutHandler fires when a behavior's own timeout expires.
type TimeoutHandler func(ctx *Context)

type pattern struct {
	msgType reflect.Type
	handler Handler
}

// Behavior is an ordered list of typed patterns plus a fallback and an
// optional per-behavior timeout (spec.md §3). Patterns are matched in
// registration order against reflect.TypeOf(msg) — the statically typed
// analogue of the teacher's `switch msg := ctx.Message().(type)` actors.
type Behavior struct {
	patterns       []pattern
	fallback       Handler
	timeout        time.Duration
	timeoutHandler TimeoutHandler
}

// NewBehavior starts an empty behavior. Chain On/Otherwise/WithTimeout to
// build it up, then install it with Context.Become.
func NewBehavior() *Behavior {
	return &Behavior{}
}

// On registers a handler for every message whose concrete type equals the
// type of sample. sample is only used for its type, e.g.
// On(AddRequest{}, handleAdd).
func (b *Behavior) On(sample Message, handler Handler) *Behavior {
	b.patterns = append(b.patterns, pattern{msgType: reflect.TypeOf(sample), handler: handler})
	return b
}

// Otherwise installs the fallback invoked when no pattern's type matches.
// Without one, an unmatched ordinary message classifies as
// unexpected_message (spec.md §7).
func (b *Behavior) Otherwise(handler Handler) *Behavior {
	b.fallback = handler
	return b
}

// WithTimeout arms a behavior-level timeout: handler fires once d has
// elapsed since the behavior was installed, and again every d while it
// stays on top (spec.md §4.5). Dispatching messages to the behavior does
// not restart the timer.
func (b *Behavior) WithTimeout(d time.Duration, handler TimeoutHandler) *Behavior {
	b.timeout = d
	b.timeoutHandler = handler
	return b
}

// match finds the handler for msg, if any, in registration order.
func (b *Behavior) match(msg Message) (Handler, bool) {
	t := reflect.TypeOf(msg)
	for _, p := range b.patterns {
		if p.msgType == t {
			return p.handler, true
		}
	}
	if b.fallback != nil {
		return b.fallback, true
	}
	return nil, false
}

// behaviorStack is the LIFO of installed behaviors (spec.md §3). Only the
// owning actor's dispatch loop mutates it.
type behaviorStack struct {
	stack []*Behavior
}

func newBehaviorStack(initial *Behavior) *behaviorStack {
	s := &behaviorStack{}
	if initial != nil {
		s.stack = append(s.stack, initial)
	}
	return s
}

func (s *behaviorStack) top() *Behavior {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

func (s *behaviorStack) empty() bool {
	return len(s.stack) == 0
}

// BecomeMode selects whether become() replaces or preserves the current
// top behavior.
type BecomeMode uint8

const (
	// Replace pops the current top before pushing the new behavior.
	Replace BecomeMode = iota
	// Keep pushes the new behavior on top, preserving the prior one
	// beneath it for a later unbecome.
	Keep
)

// become pushes bhvr per mode, per spec.md §4.3.
func (s *behaviorStack) become(bhvr *Behavior, mode BecomeMode) {
	if mode == Replace && len(s.stack) > 0 {
		s.stack = s.stack[:len(s.stack)-1]
	}
	s.stack = append(s.stack, bhvr)
}

// unbecome pops the top behavior. Reports whether the stack is now empty.
func (s *behaviorStack) unbecome() (empty bool) {
	if len(s.stack) == 0 {
		return true
	}
	s.stack = s.stack[:len(s.stack)-1]
	return len(s.stack) == 0
}
