package bollywood

// messageClass is the outcome of classifying a popped element, per
// spec.md §4.2.
type messageClass uint8

const (
	classNormalExit messageClass = iota
	classNonNormalExit
	classExpiredTimeout
	classTimeout
	classSyncTimeout // sync-timeout for a pending response (spec.md §4.4); not in the spec's class table but governed by the same "classify before dispatch" discipline.
	classResponse
	classSysMessage
	classMonitor // internal monitor-registration message (see sysmsg.go); bypasses the behavior stack like classSysMessage.
	classOrdinary
)

// classify implements the table in spec.md §4.2.
func (a *actor) classify(e MailboxElement) messageClass {
	switch msg := e.Payload.(type) {
	case ExitMessage:
		if msg.Reason == Kill {
			return classNonNormalExit
		}
		if !a.flags.trapExit {
			if msg.Reason.IsNormal() {
				return classNormalExit
			}
			return classNonNormalExit
		}
		return classOrdinary
	case timeoutMsg:
		if msg.id != a.timeoutIdCounter {
			return classExpiredTimeout
		}
		return classTimeout
	case syncTimeoutMsg:
		return classSyncTimeout
	case monitorRequest:
		return classMonitor
	case SysMessage:
		return classSysMessage
	}
	if e.Mid.IsResponse() {
		return classResponse
	}
	return classOrdinary
}
