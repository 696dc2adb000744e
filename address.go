package bollywood

import "github.com/google/uuid"

// ActorAddress is a weak handle: an ActorId plus enough context to look the
// actor up in its owning system's registry. Resolving it can fail once the
// actor has terminated and been removed from the registry — it holds no
// strong reference, mirroring the teacher's Engine.actors map lookup in
// Engine.Send, which silently no-ops once the pid is gone.
type ActorAddress struct {
	id     ActorId
	system *ActorSystem
}

// IsZero reports whether this address names no actor at all (the zero
// value, used for "no sender").
func (a ActorAddress) IsZero() bool {
	return a.system == nil
}

// Id returns the addressed actor's id.
func (a ActorAddress) Id() ActorId { return a.id }

// Resolve looks the actor up in the registry. False means the actor has
// already terminated (or the address is zero).
func (a ActorAddress) Resolve() (ActorHandle, bool) {
	if a.system == nil {
		return ActorHandle{}, false
	}
	act, ok := a.system.lookup(a.id)
	if !ok {
		return ActorHandle{}, false
	}
	return ActorHandle{actor: act}, true
}

// ActorHandle is a strong handle: holding one keeps the underlying *actor
// reachable to the Go garbage collector for as long as the handle is held.
// It has no send methods of its own; messages go to Address(), which
// resolves through the registry like any other address.
type ActorHandle struct {
	actor *actor
}

// Address downgrades a strong handle to a weak one.
func (h ActorHandle) Address() ActorAddress {
	if h.actor == nil {
		return ActorAddress{}
	}
	return ActorAddress{id: h.actor.id, system: h.actor.system}
}

// Id returns the handled actor's id.
func (h ActorHandle) Id() ActorId {
	if h.actor == nil {
		return 0
	}
	return h.actor.id
}

// Equal compares handles by ActorId, per spec.md §3.
func (h ActorHandle) Equal(other ActorHandle) bool {
	return h.Id() == other.Id()
}

// IsZero reports whether this handle names no actor.
func (h ActorHandle) IsZero() bool { return h.actor == nil }

// GroupHandle identifies a publish/subscribe group. Group membership and
// discovery are external collaborators (spec.md §1); the core only needs a
// value type to hold in an actor's subscriptions set, so it borrows
// google/uuid the way Roasbeef-substrate and phuhao00-pandaparty do for
// opaque externally-minted identifiers.
type GroupHandle uuid.UUID

// NewGroupHandle mints a fresh group identifier.
func NewGroupHandle() GroupHandle {
	return GroupHandle(uuid.New())
}

func (g GroupHandle) String() string {
	return uuid.UUID(g).String()
}
