package bollywood

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- shared test scaffolding ---
//
// Request/Await only exist on Context, which is only reachable from inside
// a running actor's handler — exactly the constraint cmd/demo/main.go works
// around with a disposable "probe" actor that issues one request and
// forwards its outcome out through a channel. These tests reuse the same
// shape.

type testStartProbe struct{}

type probeOutcome struct {
	value Message
	err   error
}

func probeProducer(target ActorAddress, timeout time.Duration, payload Message, out chan<- probeOutcome) Producer {
	return func() *Behavior {
		return NewBehavior().On(testStartProbe{}, func(ctx *Context, msg Message) Result {
			ctx.Request(target, timeout, payload).Await(
				func(ctx *Context, msg Message) {
					out <- probeOutcome{value: msg}
					ctx.Quit(Normal)
				},
				func(ctx *Context, err error) {
					out <- probeOutcome{err: err}
					ctx.Quit(Normal)
				},
			)
			return Empty()
		})
	}
}

func requestSync(t *testing.T, sys *ActorSystem, target ActorAddress, timeout time.Duration, payload Message) probeOutcome {
	t.Helper()
	out := make(chan probeOutcome, 1)
	h := sys.Spawn(NewProps(probeProducer(target, timeout, payload, out)))
	sys.Send(h.Address(), testStartProbe{})
	select {
	case o := <-out:
		return o
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a response from %v", target)
		return probeOutcome{}
	}
}

func watchTermination(sys *ActorSystem, target ActorAddress) <-chan DownMessage {
	out := make(chan DownMessage, 1)
	h := sys.Spawn(NewProps(func() *Behavior {
		return NewBehavior().
			On(testStartProbe{}, func(ctx *Context, msg Message) Result {
				ctx.Monitor(target)
				return Empty()
			}).
			On(DownMessage{}, func(ctx *Context, msg Message) Result {
				out <- msg.(DownMessage)
				ctx.Quit(Normal)
				return Empty()
			})
	}))
	sys.Send(h.Address(), testStartProbe{})
	return out
}

func newTestSystem(t *testing.T) *ActorSystem {
	t.Helper()
	sys := NewActorSystem(nil, NoopLogger())
	t.Cleanup(sys.Shutdown)
	return sys
}

// --- scenario 1: Adder (spec.md §8 scenario 1) ---

type addRequest struct{ X, Y int }
type mulRequest struct{ X, Y int }

func adderProducer() Producer {
	return func() *Behavior {
		return NewBehavior().On(addRequest{}, func(ctx *Context, msg Message) Result {
			req := msg.(addRequest)
			return Reply(req.X + req.Y)
		})
	}
}

func TestAdderScenario(t *testing.T) {
	sys := newTestSystem(t)

	adder := sys.Spawn(NewProps(adderProducer()))
	ok := requestSync(t, sys, adder.Address(), time.Second, addRequest{X: 10, Y: 20})
	require.NoError(t, ok.err)
	assert.Equal(t, 30, ok.value)

	adder2 := sys.Spawn(NewProps(adderProducer()))
	down := watchTermination(sys, adder2.Address())
	bad := requestSync(t, sys, adder2.Address(), time.Second, mulRequest{X: 2, Y: 3})
	require.Error(t, bad.err)
	assert.True(t, IsKind(bad.err, KindUnexpectedMessage))

	select {
	case d := <-down:
		assert.Equal(t, UnhandledException, d.Reason)
	case <-time.After(2 * time.Second):
		t.Fatal("expected the adder to terminate after an unmatched message")
	}
}

// --- scenario 2: Skip/forward (spec.md §8 scenario 2) ---

type idleMsg struct{ Worker ActorAddress }
type workMsg struct{}

func skipForwardWorkerProducer() Producer {
	return func() *Behavior {
		return NewBehavior().On(workMsg{}, func(ctx *Context, msg Message) Result {
			return Reply("work done")
		})
	}
}

func skipForwardBusyBehavior(worker ActorAddress) *Behavior {
	return NewBehavior().
		On(workMsg{}, func(ctx *Context, msg Message) Result {
			ctx.ForwardCurrentMessage(worker)
			ctx.Unbecome()
			return Empty()
		}).
		On(idleMsg{}, func(ctx *Context, msg Message) Result {
			return Skip()
		})
}

func skipForwardServerProducer() Producer {
	return func() *Behavior {
		return NewBehavior().
			On(idleMsg{}, func(ctx *Context, msg Message) Result {
				worker := msg.(idleMsg).Worker
				ctx.Become(skipForwardBusyBehavior(worker), Replace)
				return Empty()
			}).
			On(workMsg{}, func(ctx *Context, msg Message) Result {
				return Skip()
			})
	}
}

func TestSkipForwardScenario(t *testing.T) {
	sys := newTestSystem(t)

	worker := sys.Spawn(NewProps(skipForwardWorkerProducer()))
	server := sys.Spawn(NewProps(skipForwardServerProducer()))

	out := make(chan probeOutcome, 1)
	client := sys.Spawn(NewProps(probeProducer(server.Address(), 2*time.Second, workMsg{}, out)))
	sys.Send(client.Address(), testStartProbe{})

	// The client's request arrives before any idle announcement, so the
	// server's first behavior must cache it via Skip rather than drop it.
	time.Sleep(20 * time.Millisecond)
	sys.Send(server.Address(), idleMsg{Worker: worker.Address()})

	select {
	case res := <-out:
		require.NoError(t, res.err)
		assert.Equal(t, "work done", res.value)
	case <-time.After(2 * time.Second):
		t.Fatal("expected exactly one forwarded reply")
	}
}

// --- scenario 3: Cell (spec.md §8 scenario 3) ---

type getMsg struct{}
type putMsg struct{ V int }

func cellProducer() Producer {
	return func() *Behavior {
		state := 0
		return NewBehavior().
			On(getMsg{}, func(ctx *Context, msg Message) Result {
				return Reply(state)
			}).
			On(putMsg{}, func(ctx *Context, msg Message) Result {
				state = msg.(putMsg).V
				return Empty()
			})
	}
}

func TestCellScenario(t *testing.T) {
	sys := newTestSystem(t)
	cell := sys.Spawn(NewProps(cellProducer()))

	r1 := requestSync(t, sys, cell.Address(), time.Second, getMsg{})
	require.NoError(t, r1.err)
	assert.Equal(t, 0, r1.value)

	r2 := requestSync(t, sys, cell.Address(), time.Second, putMsg{V: 1024})
	require.NoError(t, r2.err)

	r3 := requestSync(t, sys, cell.Address(), time.Second, getMsg{})
	require.NoError(t, r3.err)
	assert.Equal(t, 1024, r3.value)
}

// --- scenario 4: Divider / unexpected_response (spec.md §8 scenario 4) ---

type divRequest struct{ X, Y int }

func dividerProducer() Producer {
	return func() *Behavior {
		return NewBehavior().On(divRequest{}, func(ctx *Context, msg Message) Result {
			req := msg.(divRequest)
			if req.Y == 0 {
				return None()
			}
			return Reply(req.X / req.Y)
		})
	}
}

func TestDividerTimeoutScenario(t *testing.T) {
	sys := newTestSystem(t)
	divider := sys.Spawn(NewProps(dividerProducer()))
	down := watchTermination(sys, divider.Address())

	res := requestSync(t, sys, divider.Address(), time.Second, divRequest{X: 1, Y: 0})
	require.Error(t, res.err)
	assert.True(t, IsKind(res.err, KindUnexpectedResponse))

	select {
	case d := <-down:
		assert.Equal(t, UnhandledException, d.Reason)
	case <-time.After(2 * time.Second):
		t.Fatal("expected the divider to terminate with unhandled_exception")
	}
}

func TestDividerOrdinaryDivision(t *testing.T) {
	sys := newTestSystem(t)
	divider := sys.Spawn(NewProps(dividerProducer()))
	res := requestSync(t, sys, divider.Address(), time.Second, divRequest{X: 10, Y: 2})
	require.NoError(t, res.err)
	assert.Equal(t, 5, res.value)
}

// --- scenario 5: Priority (spec.md §8 scenario 5) ---

type priorityMsg struct{ Seq int }
type getOrder struct{}

func priorityTargetProducer() Producer {
	return func() *Behavior {
		var order []int
		return NewBehavior().
			On(priorityMsg{}, func(ctx *Context, msg Message) Result {
				order = append(order, msg.(priorityMsg).Seq)
				return Empty()
			}).
			On(getOrder{}, func(ctx *Context, msg Message) Result {
				return Reply(append([]int(nil), order...))
			})
	}
}

func TestPriorityScenario(t *testing.T) {
	sys := newTestSystem(t)
	target := sys.Spawn(NewProps(priorityTargetProducer()).WithPriorityAware())

	const n = 5
	driver := sys.Spawn(NewProps(func() *Behavior {
		return NewBehavior().On(testStartProbe{}, func(ctx *Context, msg Message) Result {
			for i := 0; i < n; i++ {
				ctx.Send(target.Address(), priorityMsg{Seq: i})
			}
			ctx.SendHigh(target.Address(), priorityMsg{Seq: -1})
			ctx.Quit(Normal)
			return Empty()
		})
	}))
	sys.Send(driver.Address(), testStartProbe{})

	time.Sleep(30 * time.Millisecond)
	res := requestSync(t, sys, target.Address(), time.Second, getOrder{})
	require.NoError(t, res.err)
	order := res.value.([]int)
	require.NotEmpty(t, order)
	assert.Equal(t, -1, order[0], "the high-priority message must be dispatched before the cached normal ones")
}

// --- scenario 6: Reconnect (spec.md §8 scenario 6) ---

type selfDestruct struct{}
type answerRequest struct{}

func reconnectReceiverProducer() Producer {
	return func() *Behavior {
		return NewBehavior().
			On(selfDestruct{}, func(ctx *Context, msg Message) Result {
				ctx.Quit(Normal)
				return Empty()
			}).
			On(answerRequest{}, func(ctx *Context, msg Message) Result {
				return Reply("answer")
			})
	}
}

func TestReconnectScenario(t *testing.T) {
	sys := newTestSystem(t)
	firstReceiver := sys.Spawn(NewProps(reconnectReceiverProducer()))

	out := make(chan struct {
		err   error
		value Message
	}, 2)

	client := sys.Spawn(NewProps(func() *Behavior {
		var onOk func(ctx *Context, msg Message)
		var onErr func(ctx *Context, err error)
		onOk = func(ctx *Context, msg Message) {
			out <- struct {
				err   error
				value Message
			}{value: msg}
			ctx.Quit(Normal)
		}
		onErr = func(ctx *Context, err error) {
			out <- struct {
				err   error
				value Message
			}{err: err}
			fresh := sys.Spawn(NewProps(reconnectReceiverProducer()))
			ctx.Request(fresh.Address(), 2*time.Second, answerRequest{}).Await(onOk, onErr)
		}
		return NewBehavior().On(testStartProbe{}, func(ctx *Context, msg Message) Result {
			ctx.Send(firstReceiver.Address(), selfDestruct{})
			ctx.Request(firstReceiver.Address(), 2*time.Second, answerRequest{}).Await(onOk, onErr)
			return Empty()
		})
	}))
	sys.Send(client.Address(), testStartProbe{})

	first := <-out
	require.Error(t, first.err)
	assert.True(t, IsKind(first.err, KindRequestReceiverDown))

	second := <-out
	require.NoError(t, second.err)
	assert.Equal(t, "answer", second.value)
}

// --- Invariant: become(b, Replace) with no further becomes ---

func TestBecomeReplaceInvariant(t *testing.T) {
	sys := newTestSystem(t)
	type swap struct{}
	finalBehaviorName := "b2"

	h := sys.Spawn(NewProps(func() *Behavior {
		b2 := NewBehavior().On(getMsg{}, func(ctx *Context, msg Message) Result {
			return Reply(finalBehaviorName)
		})
		return NewBehavior().On(swap{}, func(ctx *Context, msg Message) Result {
			ctx.Become(b2, Replace)
			return Empty()
		})
	}))
	sys.Send(h.Address(), swap{})
	time.Sleep(10 * time.Millisecond)
	res := requestSync(t, sys, h.Address(), time.Second, getMsg{})
	require.NoError(t, res.err)
	assert.Equal(t, finalBehaviorName, res.value)
}

// --- Invariant: empty behavior stack + no pending responses terminates
// within one scheduler round (spec.md §8).

func TestUnbecomeToEmptyTerminates(t *testing.T) {
	sys := newTestSystem(t)
	type stop struct{}

	h := sys.Spawn(NewProps(func() *Behavior {
		return NewBehavior().On(stop{}, func(ctx *Context, msg Message) Result {
			ctx.Unbecome()
			return Empty()
		})
	}))
	down := watchTermination(sys, h.Address())
	sys.Send(h.Address(), stop{})

	select {
	case d := <-down:
		assert.Equal(t, Normal, d.Reason)
	case <-time.After(2 * time.Second):
		t.Fatal("expected the actor to terminate with Normal after its behavior stack emptied")
	}
}

// --- Invariant: FIFO per (sender, receiver) pair at equal priority ---

func TestFIFOOrderingPerSenderReceiver(t *testing.T) {
	sys := newTestSystem(t)
	type seqMsg struct{ N int }
	type getSeq struct{}

	h := sys.Spawn(NewProps(func() *Behavior {
		var order []int
		return NewBehavior().
			On(seqMsg{}, func(ctx *Context, msg Message) Result {
				order = append(order, msg.(seqMsg).N)
				return Empty()
			}).
			On(getSeq{}, func(ctx *Context, msg Message) Result {
				return Reply(append([]int(nil), order...))
			})
	}))

	const n = 50
	for i := 0; i < n; i++ {
		sys.Send(h.Address(), seqMsg{N: i})
	}

	time.Sleep(30 * time.Millisecond)
	res := requestSync(t, sys, h.Address(), time.Second, getSeq{})
	require.NoError(t, res.err)
	order := res.value.([]int)
	require.Len(t, order, n)
	for i, v := range order {
		require.Equal(t, i, v, "expected strict FIFO order from a single sender")
	}
}
