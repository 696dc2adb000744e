package bollywood

import "sync/atomic"

// ActorId is a process-unique, monotonically assigned identifier. It is
// never reused: once handed out, the sequence counter never rewinds.
type ActorId uint64

// idGenerator hands out ActorIds the way the teacher's Engine.nextPID hands
// out string pids: an atomic counter, no registry lookups involved.
type idGenerator struct {
	counter uint64
}

func (g *idGenerator) next() ActorId {
	return ActorId(atomic.AddUint64(&g.counter, 1))
}

// MessageId packs {priority:1, response:1, answered:1, sequence:61} into a
// single uint64, per spec.md §3. Zero means "asynchronous, no reply
// expected" and is never produced by messageIdGenerator.next.
type MessageId uint64

const (
	midPriorityShift = 63
	midResponseShift = 62
	midAnsweredShift = 61
	midSequenceMask  = (uint64(1) << 61) - 1
)

// noReply is the zero MessageId: async sends never expect a response.
const noReply MessageId = 0

func newMessageId(sequence uint64, priority bool) MessageId {
	id := sequence & midSequenceMask
	if priority {
		id |= uint64(1) << midPriorityShift
	}
	return MessageId(id)
}

// IsPriority reports the priority bit.
func (id MessageId) IsPriority() bool {
	return uint64(id)&(uint64(1)<<midPriorityShift) != 0
}

// IsResponse reports whether this id identifies a response rather than a
// request.
func (id MessageId) IsResponse() bool {
	return uint64(id)&(uint64(1)<<midResponseShift) != 0
}

// IsAnswered reports whether a response has already been produced for the
// request this id names.
func (id MessageId) IsAnswered() bool {
	return uint64(id)&(uint64(1)<<midAnsweredShift) != 0
}

// ToResponse derives a response id from a request id by flipping the
// response bit, per spec.md §3.
func (id MessageId) ToResponse() MessageId {
	return MessageId(uint64(id) ^ (uint64(1) << midResponseShift))
}

// Answered returns id with the answered bit set.
func (id MessageId) Answered() MessageId {
	return MessageId(uint64(id) | (uint64(1) << midAnsweredShift))
}

// IsAsync reports whether this id expects no reply.
func (id MessageId) IsAsync() bool {
	return id == noReply
}

// sequence strips the tag bits, useful only for debugging/logging.
func (id MessageId) sequence() uint64 {
	return uint64(id) & midSequenceMask
}

// messageIdGenerator hands out request ids. Sequence 0 is skipped so that
// the zero value stays reserved for noReply.
type messageIdGenerator struct {
	counter uint64
}

func (g *messageIdGenerator) next(priority bool) MessageId {
	seq := atomic.AddUint64(&g.counter, 1)
	return newMessageId(seq, priority)
}
