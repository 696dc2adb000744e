package bollywood

// SysMessage is the administrative channel from spec.md §6: any message
// whose "first element" (here, Verb/Key) is the system tag. System
// messages bypass the behavior stack entirely — they are classified and
// answered by the runtime itself.
type SysMessage struct {
	Verb string
	Key  string
}

// SysInfo is the {ok, "info", address, name} reply to {sys, get, "info"}.
type SysInfo struct {
	Address ActorAddress
	Name    string
}

// monitorRequest is sent by Context.Monitor to the monitored actor so that
// the monitors map is only ever written by its owning actor's own worker
// (spec.md §5's single-writer rule) instead of reached into from another
// goroutine.
type monitorRequest struct {
	by ActorAddress
}

// dispatchSys answers the system-tag protocol directly, never touching the
// behavior stack or cache.
func (a *actor) dispatchSys(e MailboxElement) {
	msg, _ := e.Payload.(SysMessage)
	if msg.Verb == "get" && msg.Key == "info" {
		a.replyOk(e, SysInfo{Address: a.selfAddress(), Name: a.name})
		return
	}
	a.replyOk(e, newError(KindInvalidSysKey, "unknown sys key %q %q", msg.Verb, msg.Key))
}

func (a *actor) dispatchMonitor(e MailboxElement) {
	req, _ := e.Payload.(monitorRequest)
	if req.by.IsZero() {
		return
	}
	a.monitors[req.by.Id()] = req.by
}

// replyOk sends payload as a response to e's sender, if e was a request.
// Used by the Result visitor (applyResult) and by the sys-tag replies,
// which always answer regardless of message shape.
func (a *actor) replyOk(e MailboxElement, payload Message) {
	if e.Mid.IsAsync() || e.Sender.IsZero() {
		return
	}
	a.system.deliver(e.Sender, MailboxElement{
		Sender:  a.selfAddress(),
		Mid:     e.Mid.ToResponse(),
		Payload: payload,
	})
}
