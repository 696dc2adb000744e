// Package typedactor is the compile-time façade spec.md §9 describes: "a
// generic wrapper with no change to the runtime." It constrains which
// messages a handle can accept at the Go type-checker level; the
// underlying mailbox stays exactly as untyped as bollywood.Context always
// made it. Nothing here touches bollywood internals beyond the public
// Context/ActorAddress/Behavior surface.
package typedactor

import (
	"fmt"
	"time"

	"github.com/lguibr/bollywood"
)

// Ref is a typed handle to an actor that only accepts messages of type M.
// It carries no behavior of its own — Send/Request here are thin,
// type-checked wrappers over bollywood.Context/ActorSystem.
type Ref[M any] struct {
	system  *bollywood.ActorSystem
	address bollywood.ActorAddress
}

// Of wraps an existing address as a Ref[M]. The caller is responsible for
// M actually matching what the addressed actor's Behavior patterns expect
// — the wrapper cannot verify that without reaching into the mailbox
// protocol, which would defeat the point of staying a zero-cost façade.
func Of[M any](system *bollywood.ActorSystem, address bollywood.ActorAddress) Ref[M] {
	return Ref[M]{system: system, address: address}
}

// Handle downgrades to the untyped bollywood.ActorAddress, for code that
// needs to cross back into the untyped world (e.g. Context.Monitor).
func (r Ref[M]) Handle() bollywood.ActorAddress { return r.address }

// Send fire-and-forgets a typed message through the owning ActorSystem.
func (r Ref[M]) Send(msg M) bool {
	return r.system.Send(r.address, msg)
}

// SendFrom fire-and-forgets msg as if sent by ctx's actor, preserving the
// sender address the way bollywood.Context.Send does.
func (r Ref[M]) SendFrom(ctx *bollywood.Context, msg M) {
	ctx.Send(r.address, msg)
}

// Request issues a typed request from within a Handler, returning the same
// RequestHandle bollywood.Context.Request returns — Then/Await still
// operate on the untyped bollywood.Message, since the reply's type is a
// property of the target's Behavior, not of this Ref.
func (r Ref[M]) Request(ctx *bollywood.Context, timeout time.Duration, msg M) *bollywood.RequestHandle {
	return ctx.Request(r.address, timeout, msg)
}

// TypedBehavior builds a bollywood.Behavior whose single pattern only ever
// sees messages of type M, for actors that are meant to be addressed
// exclusively through a Ref[M]. Handlers that need to react to more than
// one message shape still compose the underlying bollywood.Behavior
// directly — this helper only covers the common single-message-type case
// the façade exists for.
func TypedBehavior[M any](handle func(ctx *bollywood.Context, msg M) bollywood.Result) *bollywood.Behavior {
	var sample M
	return bollywood.NewBehavior().On(sample, func(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
		typed, ok := msg.(M)
		if !ok {
			return bollywood.Fail(fmt.Errorf("typedactor: expected %T, got %T", typed, msg))
		}
		return handle(ctx, typed)
	})
}
