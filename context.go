package bollywood

import "time"

// Context is what every Handler and TimeoutHandler receives — the
// teacher's bollywood.Context generalized with become/request/forward
// machinery. It is only ever valid for the duration of the call that
// received it; handlers must not stash it away.
type Context struct {
	actor     *actor
	element   MailboxElement
	forwarded bool
}

// Self returns a strong handle to the actor executing this handler.
func (c *Context) Self() ActorHandle { return c.actor.selfHandle() }

// Sender returns the address that sent the message under dispatch. It may
// be the zero ActorAddress if the sender didn't identify itself.
func (c *Context) Sender() ActorAddress { return c.element.Sender }

// Message returns the payload under dispatch.
func (c *Context) Message() Message { return c.element.Payload }

// System returns the owning ActorSystem.
func (c *Context) System() *ActorSystem { return c.actor.system }

// Send is a fire-and-forget normal-priority send.
func (c *Context) Send(dest ActorAddress, payload Message) {
	c.actor.system.deliver(dest, MailboxElement{Sender: c.actor.selfAddress(), Mid: noReply, Payload: payload})
}

// SendHigh is a fire-and-forget send with the priority bit set, consumed
// by priority-aware mailboxes on their next refill (spec.md §4.1).
func (c *Context) SendHigh(dest ActorAddress, payload Message) {
	id := c.actor.system.messageIds.next(true)
	c.actor.system.deliver(dest, MailboxElement{Sender: c.actor.selfAddress(), Mid: id, Payload: payload})
}

// DelayedSend schedules payload for delivery to dest after d elapses,
// backed by the scheduler's time.AfterFunc-based delayedSend (spec.md §6
// delayed_send).
func (c *Context) DelayedSend(dest ActorAddress, d time.Duration, payload Message) {
	c.actor.system.scheduler.delayedSend(c.actor.selfAddress(), dest, d, payload)
}

// RequestHandle is returned by Request. Exactly one of Then (multiplexed)
// or Await (ordered/awaited) must be called to register how the reply is
// handled, per spec.md §4.4.
type RequestHandle struct {
	requestId MessageId
	actor     *actor
}

// Then installs a multiplexed continuation: it may fire whenever the
// matching response arrives, independent of any other outstanding request.
func (r *RequestHandle) Then(onOk func(ctx *Context, msg Message), onErr func(ctx *Context, err error)) {
	r.actor.pending.addMultiplexed(responseEntry{id: r.requestId.ToResponse(), onOk: onOk, onErr: onErr})
}

// Await installs an awaited continuation: only dispatched once it reaches
// the front of the actor's awaited list, preserving program-order
// request/receive nesting (spec.md §4.4).
func (r *RequestHandle) Await(onOk func(ctx *Context, msg Message), onErr func(ctx *Context, err error)) {
	r.actor.pending.addAwaited(responseEntry{id: r.requestId.ToResponse(), onOk: onOk, onErr: onErr})
}

// Request sends payload to dest expecting a reply. If timeout > 0, a
// sync-timeout is armed: if no response arrives within it, the handle's
// error branch fires with KindRequestTimeout (spec.md §4.4, §4.5).
func (c *Context) Request(dest ActorAddress, timeout time.Duration, payload Message) *RequestHandle {
	id := c.actor.reqSeq.next(false)
	c.actor.system.deliver(dest, MailboxElement{Sender: c.actor.selfAddress(), Mid: id, Payload: payload})
	if timeout > 0 {
		self := c.actor.selfAddress()
		c.actor.system.scheduler.delayedSend(self, self, timeout, syncTimeoutMsg{responseId: id.ToResponse()})
	}
	return &RequestHandle{requestId: id, actor: c.actor}
}

// ForwardCurrentMessage re-sends the element under dispatch to dest,
// preserving its sender and response id so that dest's eventual reply
// bypasses this actor entirely (spec.md §6). Only valid from within the
// handler that received the message being forwarded.
func (c *Context) ForwardCurrentMessage(dest ActorAddress) {
	fwd := c.element.forward(c.actor.selfAddress(), dest)
	c.actor.system.deliver(dest, fwd)
	c.forwarded = true
}

// Become installs bhvr per mode, arms its timeout, and promotes any
// second-segment cache entries so they're retried against it (spec.md
// §4.3).
func (c *Context) Become(bhvr *Behavior, mode BecomeMode) {
	c.actor.behaviors.become(bhvr, mode)
	c.actor.armTimeout(bhvr)
	c.actor.cache.promoteSecondToFirst()
}

// Unbecome pops the current top behavior. If the stack becomes empty and
// no response is outstanding, the actor terminates with Normal (spec.md
// §4.3, §8).
func (c *Context) Unbecome() {
	empty := c.actor.behaviors.unbecome()
	if empty {
		if c.actor.pending.idle() {
			c.actor.quit(Normal)
		}
		return
	}
	c.actor.armTimeout(c.actor.behaviors.top())
	c.actor.cache.promoteSecondToFirst()
}

// Quit terminates the actor with reason.
func (c *Context) Quit(reason ExitReason) {
	c.actor.quit(reason)
}

// Monitor asks addr's actor to notify this actor with a DownMessage when it
// terminates. Implemented as a message send rather than a direct field
// write so the monitors set is only ever mutated by its owning worker
// (spec.md §5).
func (c *Context) Monitor(addr ActorAddress) {
	c.actor.system.deliver(addr, MailboxElement{
		Sender: c.actor.selfAddress(), Mid: noReply,
		Payload: monitorRequest{by: c.actor.selfAddress()},
	})
}

// Subscribe records membership in a group. Group discovery/dispatch is an
// external collaborator (spec.md §1); the core only keeps the handle.
func (c *Context) Subscribe(g GroupHandle) {
	c.actor.subscriptions[g] = struct{}{}
}

// Unsubscribe removes g from the subscription set.
func (c *Context) Unsubscribe(g GroupHandle) {
	delete(c.actor.subscriptions, g)
}

// SetExceptionHandler installs the actor's custom error handler (spec.md
// §4.7): consulted before an escalated error defaults to
// quit(unhandled_exception). Returning true from it swallows the error.
func (c *Context) SetExceptionHandler(h func(ctx *Context, err error) bool) {
	c.actor.exceptionHandler = h
}
