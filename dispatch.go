package bollywood

import (
	"fmt"
	"runtime/debug"
)

// dispatchElement classifies e and routes it per the policy table in
// spec.md §4.2.
func (a *actor) dispatchElement(e MailboxElement) {
	a.current = &e
	defer func() { a.current = nil }()

	switch a.classify(e) {
	case classNormalExit, classExpiredTimeout:
		// dropped
	case classNonNormalExit:
		reason := Kill
		if msg, ok := e.Payload.(ExitMessage); ok {
			reason = msg.Reason
		}
		a.quit(reason)
	case classTimeout:
		a.dispatchTimeout(e)
	case classSyncTimeout:
		a.dispatchSyncTimeout(e)
	case classResponse:
		a.dispatchResponse(e)
	case classSysMessage:
		a.dispatchSys(e)
	case classMonitor:
		a.dispatchMonitor(e)
	case classOrdinary:
		a.dispatchOrdinary(e)
	}
}

func (a *actor) dispatchTimeout(e MailboxElement) {
	if a.inSyncWait {
		return // async timeouts are ignored while blocked on a sync receive
	}
	bhvr := a.behaviors.top()
	if bhvr == nil || bhvr.timeoutHandler == nil {
		return
	}
	ctx := a.newContext(e)
	a.safeCall(func() { bhvr.timeoutHandler(ctx) })
	if a.terminated {
		return
	}
	// Rearm a recurring timeout only if this become is still installed —
	// a become() issued from inside the handler already armed its own.
	if a.behaviors.top() == bhvr && bhvr.timeout > 0 {
		a.armTimeout(bhvr)
	}
}

func (a *actor) dispatchSyncTimeout(e MailboxElement) {
	msg, _ := e.Payload.(syncTimeoutMsg)
	entry, ok := a.pending.removeForTimeout(msg.responseId)
	if !ok {
		return // already resolved by a real response
	}
	ctx := a.newContext(e)
	if entry.onErr != nil {
		a.safeCall(func() { entry.onErr(ctx, newError(KindRequestTimeout, "")) })
	}
}

func (a *actor) dispatchResponse(e MailboxElement) {
	entry, outcome := a.pending.match(e.Mid)
	switch outcome {
	case matchDefer:
		a.cache.pushFirst(e)
	case matchExpired:
		// dropped
	case matchDispatch:
		ctx := a.newContext(e)
		if failure, isErr := e.Payload.(error); isErr {
			if entry.onErr != nil {
				a.safeCall(func() { entry.onErr(ctx, failure) })
			} else {
				a.quit(UnhandledException)
			}
			return
		}
		if entry.onOk != nil {
			a.safeCall(func() { entry.onOk(ctx, e.Payload) })
		}
	}
}

func (a *actor) dispatchOrdinary(e MailboxElement) {
	bhvr := a.behaviors.top()
	if bhvr == nil {
		return
	}
	handler, ok := bhvr.match(e.Payload)

	var result Result
	var ctx *Context
	if !ok {
		result = Fail(newError(KindUnexpectedMessage, "no handler for %T", e.Payload))
	} else {
		ctx = a.newContext(e)
		result = a.safeCallHandler(ctx, handler, e.Payload)
	}
	if a.terminated {
		return
	}
	if ctx != nil && ctx.forwarded {
		if result.kind == resultError || result.kind == resultNone {
			a.escalate(result.errValue())
		}
		a.drainCache()
		return
	}

	a.applyResult(e, result)
	if a.terminated {
		return
	}
	a.drainCache()
}

func (r Result) errValue() error {
	switch r.kind {
	case resultError:
		return r.err
	case resultNone:
		return newError(KindUnexpectedResponse, "")
	default:
		return nil
	}
}

// applyResult implements the return-value visitor from spec.md §4.3.
func (a *actor) applyResult(e MailboxElement, result Result) {
	isRequest := !e.Mid.IsAsync() && !e.Mid.IsResponse()
	switch result.kind {
	case resultEmpty:
		if isRequest {
			a.replyOk(e, struct{}{})
		}
	case resultMessage:
		if isRequest {
			a.replyOk(e, result.message)
		}
	case resultError:
		if isRequest {
			a.replyOk(e, result.err)
		}
		a.escalate(result.err)
	case resultNone:
		err := newError(KindUnexpectedResponse, "")
		if isRequest {
			a.replyOk(e, err)
		}
		a.escalate(err)
	case resultSkip:
		a.cache.pushSecond(e)
	}
}

// escalate implements spec.md §4.7/§7: consult the actor's custom
// exception handler; if none is installed or it declines, quit with
// unhandled_exception.
func (a *actor) escalate(err error) {
	if a.exceptionHandler != nil {
		ctx := a.newContext(MailboxElement{})
		handled := false
		a.safeCall(func() { handled = a.exceptionHandler(ctx, err) })
		if handled {
			return
		}
	}
	a.quit(UnhandledException)
}

// drainCache re-attempts every first-segment element against the current
// top behavior until a full pass makes no progress (spec.md §4.3).
func (a *actor) drainCache() {
	for {
		pending := a.cache.first
		if len(pending) == 0 {
			return
		}
		a.cache.first = nil
		progressed := false
		for _, e := range pending {
			if a.terminated {
				return
			}
			if a.retryCached(e) {
				progressed = true
			} else {
				a.cache.first = append(a.cache.first, e)
			}
		}
		if !progressed {
			return
		}
	}
}

// retryCached re-offers a previously cached element to the current
// classification+dispatch pipeline, reporting whether it was consumed
// (dispatched, dropped, or pushed to the second segment) versus still
// belonging in the first segment.
func (a *actor) retryCached(e MailboxElement) (consumed bool) {
	switch a.classify(e) {
	case classResponse:
		entry, outcome := a.pending.match(e.Mid)
		if outcome == matchDefer {
			return false
		}
		if outcome == matchExpired {
			return true
		}
		ctx := a.newContext(e)
		if failure, isErr := e.Payload.(error); isErr {
			if entry.onErr != nil {
				a.safeCall(func() { entry.onErr(ctx, failure) })
			} else {
				a.quit(UnhandledException)
			}
		} else if entry.onOk != nil {
			a.safeCall(func() { entry.onOk(ctx, e.Payload) })
		}
		return true
	case classOrdinary:
		bhvr := a.behaviors.top()
		if bhvr == nil {
			return false
		}
		handler, ok := bhvr.match(e.Payload)
		if !ok {
			return false
		}
		ctx := a.newContext(e)
		result := a.safeCallHandler(ctx, handler, e.Payload)
		if a.terminated {
			return true
		}
		if ctx.forwarded {
			if result.kind == resultError || result.kind == resultNone {
				a.escalate(result.errValue())
			}
			return true
		}
		a.applyResult(e, result)
		return true
	default:
		a.dispatchElement(e)
		return true
	}
}

// safeCall runs fn with the same panic-is-contained discipline as the
// teacher's process.run defer/recover, logging via the system logger
// instead of fmt.Printf directly.
func (a *actor) safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			a.system.logger().Printf("actor %d panic: %v\n%s", a.id, r, debug.Stack())
			a.escalate(newError(KindUnhandledException, fmt.Sprint(r)))
		}
	}()
	fn()
}

func (a *actor) safeCallHandler(ctx *Context, handler Handler, msg Message) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			a.system.logger().Printf("actor %d panic: %v\n%s", a.id, r, debug.Stack())
			result = Fail(newError(KindUnhandledException, fmt.Sprint(r)))
		}
	}()
	return handler(ctx, msg)
}
