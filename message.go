package bollywood

// Message is a type-erased payload. The core never inspects its shape; a
// Behavior's patterns do that via reflect.TypeOf, the same way the teacher's
// actors type-switch on ctx.Message().
type Message = interface{}

// MailboxElement is the unit the mailbox queues and the cache retries.
// Once enqueued its fields never change; it is owned by exactly one of the
// mailbox, the cache, or the dispatch loop at any moment.
type MailboxElement struct {
	Sender  ActorAddress
	Mid     MessageId
	Stages  []ActorAddress
	Payload Message
}

// forward appends from (the forwarder) to the delegation chain and returns a new element
// with the same mid and payload — used by Context.ForwardCurrentMessage so
// that a reply to a forwarded request reaches the original requester
// without the forwarder re-registering the response id.
func (e MailboxElement) forward(from ActorAddress, dest ActorAddress) MailboxElement {
	stages := make([]ActorAddress, len(e.Stages), len(e.Stages)+1)
	copy(stages, e.Stages)
	stages = append(stages, from)
	return MailboxElement{
		Sender:  e.Sender,
		Mid:     e.Mid,
		Stages:  stages,
		Payload: e.Payload,
	}
}
