package bollywood

import "sync"

// resumeResult is the outcome of one Resume invocation (spec.md §4.6).
type resumeResult uint8

const (
	resumeDone resumeResult = iota
	resumeAwaitingMessage
	resumeLater
)

// actorFlags groups the boolean/identity state spec.md §3 lists on Actor.
type actorFlags struct {
	detached      bool
	blocking      bool
	priorityAware bool
	trapExit      bool
	registered    bool
}

// actor is the control block spec.md §3 describes: mailbox, behavior
// stack, pending responses, timeout state, subscriptions, and exit
// reason. Every field besides mailbox is touched only by the single
// worker currently resuming this actor (spec.md §5) — monitors are
// registered by sending a message to the monitored actor rather than by a
// foreign goroutine reaching into its fields directly (see sysmsg.go).
type actor struct {
	id     ActorId
	system *ActorSystem
	name   string

	mailbox   *Mailbox
	cache     *cache
	behaviors *behaviorStack
	pending   *pendingResponses

	timeoutIdCounter uint32
	hasActiveTimeout bool
	inSyncWait       bool

	plannedExit ExitReason
	terminated  bool
	cleanupOnce sync.Once

	subscriptions map[GroupHandle]struct{}
	monitors      map[ActorId]ActorAddress

	exceptionHandler func(ctx *Context, err error) bool

	flags   actorFlags
	reqSeq  messageIdGenerator
	current *MailboxElement
}

func newActor(system *ActorSystem, id ActorId, props *Props, initial *Behavior) *actor {
	a := &actor{
		id:            id,
		system:        system,
		name:          props.name,
		mailbox:       NewMailbox(),
		cache:         newCache(),
		behaviors:     newBehaviorStack(initial),
		pending:       newPendingResponses(),
		subscriptions: make(map[GroupHandle]struct{}),
		monitors:      make(map[ActorId]ActorAddress),
		plannedExit:   NotExited,
		flags: actorFlags{
			detached:      props.detached,
			blocking:      props.blocking,
			priorityAware: props.priorityAware,
			trapExit:      props.trapExit,
		},
	}
	a.armTimeout(initial)
	return a
}

func (a *actor) selfAddress() ActorAddress {
	return ActorAddress{id: a.id, system: a.system}
}

func (a *actor) selfHandle() ActorHandle {
	return ActorHandle{actor: a}
}

// nextElement pulls the next element to dispatch: the cache's first
// segment before any new mail (spec.md §4.1). When the first segment is
// empty it refills from everything currently queued in the mailbox,
// applying the priority partition if configured.
func (a *actor) nextElement() (MailboxElement, bool) {
	if e, ok := a.cache.popFirst(); ok {
		return e, true
	}
	batch := a.mailbox.drainAll()
	if len(batch) == 0 {
		return MailboxElement{}, false
	}
	a.cache.refill(batch, a.flags.priorityAware)
	return a.cache.popFirst()
}

// Resume implements the Resumable protocol (spec.md §4.6): process up to
// maxThroughput messages, returning done/awaitingMessage/resumeLater.
func (a *actor) Resume(maxThroughput int) resumeResult {
	processed := 0
	for processed < maxThroughput {
		e, ok := a.nextElement()
		if !ok {
			if a.mailbox.TryBlock() {
				return resumeAwaitingMessage
			}
			continue // raced enqueue: mailbox gained work between drain and block
		}
		a.dispatchElement(e)
		processed++
		if a.terminated {
			return resumeDone
		}
	}
	return resumeLater
}

func (a *actor) newContext(e MailboxElement) *Context {
	return &Context{actor: a, element: e}
}

func (a *actor) quit(reason ExitReason) {
	if a.terminated {
		return
	}
	a.terminated = true
	a.plannedExit = reason
	a.performCleanup()
}

// performCleanup runs exactly once per actor: closes the mailbox (bouncing
// in-flight requests), folds any still-pending responses into
// request_receiver_down, notifies monitors, and releases subscriptions —
// every termination path funnels through here (spec.md §3, §5).
func (a *actor) performCleanup() {
	a.cleanupOnce.Do(func() {
		a.mailbox.Close(func(e MailboxElement) {
			a.bounceInFlight(e)
		})
		for _, e := range a.cache.drainAll() {
			a.bounceInFlight(e)
		}
		ctx := a.newContext(MailboxElement{})
		a.pending.bounceAll(ctx)
		down := DownMessage{Source: a.selfAddress(), Reason: a.plannedExit}
		for _, addr := range a.monitors {
			a.system.deliver(addr, MailboxElement{Sender: a.selfAddress(), Mid: noReply, Payload: down})
		}
		a.subscriptions = nil
		a.monitors = nil
		a.system.unregister(a.id)
	})
}

func (a *actor) bounceInFlight(e MailboxElement) {
	if e.Mid.IsAsync() || e.Mid.IsResponse() || e.Sender.IsZero() {
		return
	}
	a.system.deliver(e.Sender, MailboxElement{
		Sender:  a.selfAddress(),
		Mid:     e.Mid.ToResponse(),
		Payload: newError(KindRequestReceiverDown, "actor %d terminated", a.id),
	})
}

// armTimeout bumps the timeout-id counter and schedules a fresh delayed
// timeout_msg for bhvr's timeout, per spec.md §4.5. Bumping the counter
// unconditionally (even for a zero-duration behavior) invalidates any
// timer still in flight from a previous behavior without needing to
// cancel it.
func (a *actor) armTimeout(bhvr *Behavior) {
	a.timeoutIdCounter++
	if bhvr == nil || bhvr.timeout <= 0 {
		a.hasActiveTimeout = false
		return
	}
	id := a.timeoutIdCounter
	a.hasActiveTimeout = true
	self := a.selfAddress()
	a.system.scheduler.delayedSend(self, self, bhvr.timeout, timeoutMsg{id: id})
}
