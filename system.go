package bollywood

import (
	"sync"
	"time"
)

// ActorSystem owns the scheduler, the registry, and the id generators for
// one process — the teacher's Engine generalized with a worker-pool
// scheduler and detached-thread bookkeeping instead of goroutine-per-actor
// (spec.md §2, §9 "avoid implicit singletons": every caller holds an
// explicit *ActorSystem, there is no package-level instance).
type ActorSystem struct {
	mu        sync.RWMutex
	actors    map[ActorId]*actor
	ids       idGenerator
	messageIds messageIdGenerator

	scheduler *scheduler
	detached  *detachedGroup

	log Logger
}

// NewActorSystem starts a system with cfg (DefaultSystemConfig() if cfg is
// nil) and the given logger (a log.Logger-backed NewStdLogger() if nil).
func NewActorSystem(cfg *SystemConfig, logger Logger) *ActorSystem {
	if cfg == nil {
		c := DefaultSystemConfig()
		cfg = &c
	}
	if logger == nil {
		logger = NewStdLogger()
	}
	s := &ActorSystem{
		actors: make(map[ActorId]*actor),
		log:    logger,
	}
	s.scheduler = newScheduler(s, *cfg)
	s.detached = newDetachedGroup()
	return s
}

func (s *ActorSystem) logger() Logger { return s.log }

// Spawn launches an actor cooperatively on the worker pool.
func (s *ActorSystem) Spawn(props *Props) ActorHandle {
	return s.spawn(props)
}

// SpawnDetached launches an actor on its own goroutine, bypassing the
// cooperative scheduler (spec.md §6, §4.6).
func (s *ActorSystem) SpawnDetached(props *Props) ActorHandle {
	props.detached = true
	return s.spawn(props)
}

// SpawnBlocking is SpawnDetached for actors whose handlers make genuinely
// blocking calls.
func (s *ActorSystem) SpawnBlocking(props *Props) ActorHandle {
	props.detached = true
	props.blocking = true
	return s.spawn(props)
}

func (s *ActorSystem) spawn(props *Props) ActorHandle {
	id := s.ids.next()
	initial := props.produce()
	a := newActor(s, id, props, initial)

	s.mu.Lock()
	s.actors[id] = a
	s.mu.Unlock()

	if props.detached {
		s.detached.launch(a, props.blocking)
	} else {
		s.scheduler.enqueue(a)
	}
	return a.selfHandle()
}

func (s *ActorSystem) lookup(id ActorId) (*actor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.actors[id]
	return a, ok
}

func (s *ActorSystem) unregister(id ActorId) {
	s.mu.Lock()
	delete(s.actors, id)
	s.mu.Unlock()
}

// deliver enqueues elem into dest's mailbox, waking the scheduler if the
// enqueue transitions the actor out of the blocked state (spec.md §4.1's
// unblocked_reader edge). Delivering to a dead or unknown address is a
// silent no-op, matching the teacher's Engine.Send behavior when a pid is
// missing from the registry.
func (s *ActorSystem) deliver(dest ActorAddress, elem MailboxElement) bool {
	target, ok := dest.Resolve()
	if !ok {
		return false
	}
	success, unblocked, _ := target.actor.mailbox.Enqueue(elem)
	if unblocked {
		if target.actor.flags.detached {
			s.detached.wake(target.actor)
		} else {
			s.scheduler.enqueue(target.actor)
		}
	}
	return success
}

// Send is the top-level fire-and-forget send, for callers outside any
// actor (e.g. test harnesses, an HTTP handler bridging into the system).
func (s *ActorSystem) Send(dest ActorAddress, payload Message) bool {
	return s.deliver(dest, MailboxElement{Mid: noReply, Payload: payload})
}

// DelayedSend schedules payload for delivery to dest after d elapses, for
// callers outside any actor — the same scheduler delayedSend facility
// Context.DelayedSend hands off to, with no sender identified (spec.md §6
// delayed_send).
func (s *ActorSystem) DelayedSend(dest ActorAddress, d time.Duration, payload Message) {
	s.scheduler.delayedSend(ActorAddress{}, dest, d, payload)
}

// Stop requests an orderly shutdown of a single actor by delivering
// {exit, user_shutdown} to it with no sender. An actor without trap_exit
// terminates with UserShutdown; an actor with trap_exit on receives the
// exit message as ordinary data and keeps running.
func (s *ActorSystem) Stop(handle ActorHandle) {
	if handle.IsZero() {
		return
	}
	s.deliver(handle.Address(), MailboxElement{
		Mid:     noReply,
		Payload: ExitMessage{Reason: UserShutdown},
	})
}

// Shutdown stops the scheduler's workers and detached threads. It does not
// wait for individual actors to drain; callers that need that should Stop
// each actor and poll its address's Resolve, the way the teacher's Engine.Shutdown polls
// e.actors.
func (s *ActorSystem) Shutdown() {
	s.scheduler.shutdown()
	s.detached.shutdown()
}
