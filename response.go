package bollywood

// responseEntry is what PendingResponses stores per outstanding request:
// the response id to watch for and the two branches of its continuation.
type responseEntry struct {
	id    MessageId
	onOk  func(ctx *Context, msg Message)
	onErr func(ctx *Context, err error)
}

// pendingResponses holds the two structures spec.md §4.4 calls for. They
// have different matching semantics so they are not unified into one map:
// awaited preserves program-order (nested request/receive), multiplexed
// allows any-order continuations.
type pendingResponses struct {
	awaited     []responseEntry
	multiplexed map[MessageId]responseEntry
}

func newPendingResponses() *pendingResponses {
	return &pendingResponses{multiplexed: make(map[MessageId]responseEntry)}
}

func (p *pendingResponses) addAwaited(e responseEntry) {
	p.awaited = append(p.awaited, e)
}

func (p *pendingResponses) addMultiplexed(e responseEntry) {
	p.multiplexed[e.id] = e
}

// matchOutcome tells the caller what to do with a response element.
type matchOutcome uint8

const (
	// matchDispatch: entry was found and removed; invoke it.
	matchDispatch matchOutcome = iota
	// matchDefer: the id belongs to an awaited entry that is not at the
	// front of the list; cache the element until the front resolves.
	matchDefer
	// matchExpired: no entry anywhere claims this id; drop it.
	matchExpired
)

// match resolves a response id against multiplexed first, then the front
// of awaited, per spec.md §4.4. A hit deeper in awaited returns matchDefer
// without mutating any state; a genuine miss returns matchExpired.
func (p *pendingResponses) match(id MessageId) (responseEntry, matchOutcome) {
	if e, ok := p.multiplexed[id]; ok {
		delete(p.multiplexed, id)
		return e, matchDispatch
	}
	if len(p.awaited) > 0 && p.awaited[0].id == id {
		e := p.awaited[0]
		p.awaited[0] = responseEntry{}
		p.awaited = p.awaited[1:]
		return e, matchDispatch
	}
	for _, e := range p.awaited[minInt(1, len(p.awaited)):] {
		if e.id == id {
			return responseEntry{}, matchDefer
		}
	}
	return responseEntry{}, matchExpired
}

// removeForTimeout drops the pending entry named by id, wherever it lives,
// and reports whether one was actually found (a response may have already
// resolved it before the sync-timeout fired).
func (p *pendingResponses) removeForTimeout(id MessageId) (responseEntry, bool) {
	if e, ok := p.multiplexed[id]; ok {
		delete(p.multiplexed, id)
		return e, true
	}
	for i, e := range p.awaited {
		if e.id == id {
			p.awaited = append(p.awaited[:i], p.awaited[i+1:]...)
			return e, true
		}
	}
	return responseEntry{}, false
}

// bounceAll delivers request_receiver_down to every outstanding request —
// used when the actor this table belongs to terminates. A peer going down
// reaches the requester as an ordinary bounced failure response instead.
func (p *pendingResponses) bounceAll(ctx *Context) {
	for _, e := range p.awaited {
		if e.onErr != nil {
			e.onErr(ctx, newError(KindRequestReceiverDown, ""))
		}
	}
	p.awaited = nil
	for _, e := range p.multiplexed {
		if e.onErr != nil {
			e.onErr(ctx, newError(KindRequestReceiverDown, ""))
		}
	}
	p.multiplexed = make(map[MessageId]responseEntry)
}

func (p *pendingResponses) idle() bool {
	return len(p.awaited) == 0 && len(p.multiplexed) == 0
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
