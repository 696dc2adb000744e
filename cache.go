package bollywood

// cache is the actor-local auxiliary queue for messages the current
// behavior skipped (spec.md §4.1). It has two logical segments:
//
//   - first: messages skipped during the current scan, re-examined before
//     any new mail is considered.
//   - second: messages skipped via the Skip sentinel, waiting to be
//     retried once the next become() installs a new top behavior.
//
// Both segments preserve FIFO insertion order within a priority class.
// Only the actor's own dispatch loop touches a cache; no locking needed.
type cache struct {
	first  []MailboxElement
	second []MailboxElement
}

func newCache() *cache {
	return &cache{}
}

func (c *cache) pushFirst(e MailboxElement) {
	c.first = append(c.first, e)
}

func (c *cache) pushSecond(e MailboxElement) {
	c.second = append(c.second, e)
}

// popFirst removes and returns the oldest first-segment element.
func (c *cache) popFirst() (MailboxElement, bool) {
	if len(c.first) == 0 {
		return MailboxElement{}, false
	}
	e := c.first[0]
	c.first[0] = MailboxElement{}
	c.first = c.first[1:]
	return e, true
}

// promoteSecondToFirst is called after a become(): everything parked by the
// previous behavior's Skip sentinel becomes eligible for the new top
// behavior, ahead of whatever is still sitting in first from this scan.
func (c *cache) promoteSecondToFirst() {
	if len(c.second) == 0 {
		return
	}
	c.first = append(c.second, c.first...)
	c.second = nil
}

// refill appends a freshly drained batch of mailbox elements to the first
// segment. When priorityAware is set, the batch is stably partitioned so
// every priority element precedes every normal element, per the refill rule
// in spec.md §4.1.
func (c *cache) refill(batch []MailboxElement, priorityAware bool) {
	if len(batch) == 0 {
		return
	}
	if !priorityAware {
		c.first = append(c.first, batch...)
		return
	}
	high := make([]MailboxElement, 0, len(batch))
	low := make([]MailboxElement, 0, len(batch))
	for _, e := range batch {
		if e.Mid.IsPriority() {
			high = append(high, e)
		} else {
			low = append(low, e)
		}
	}
	c.first = append(c.first, append(high, low...)...)
}

func (c *cache) empty() bool {
	return len(c.first) == 0 && len(c.second) == 0
}

// drainAll removes and returns every element still parked in either
// segment, first-segment elements before second-segment ones. Used at
// actor termination so nothing skipped by a behavior is silently lost
// (spec.md §8: every enqueued element is eventually dispatched or
// bounced, never dropped).
func (c *cache) drainAll() []MailboxElement {
	if c.empty() {
		return nil
	}
	all := append(c.first, c.second...)
	c.first, c.second = nil, nil
	return all
}
