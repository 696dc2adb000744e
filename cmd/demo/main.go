// Command demo wires up the runtime's core scenarios end to end: an
// actor system is started, a handful of actors are spawned, and each
// scenario's outcome is printed. It plays the same role the teacher's
// root main.go does for Pongo — a composition root — except here there
// is no HTTP server to bind: the "application" is the scenario sequence
// itself.
package main

import (
	"fmt"
	"time"

	"github.com/lguibr/bollywood"
)

type startProbe struct{}

type probeOutcome struct {
	value bollywood.Message
	err   error
}

// probeProducer builds a throwaway actor whose only job is to issue one
// Request and forward its outcome to out, then quit. It exists so demo
// code outside any actor (main itself) can still exercise the
// Request/Await surface, which only a running actor's Context exposes.
func probeProducer(target bollywood.ActorAddress, timeout time.Duration, payload bollywood.Message, out chan<- probeOutcome) bollywood.Producer {
	return func() *bollywood.Behavior {
		return bollywood.NewBehavior().On(startProbe{}, func(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
			ctx.Request(target, timeout, payload).Await(
				func(ctx *bollywood.Context, msg bollywood.Message) {
					out <- probeOutcome{value: msg}
					ctx.Quit(bollywood.Normal)
				},
				func(ctx *bollywood.Context, err error) {
					out <- probeOutcome{err: err}
					ctx.Quit(bollywood.Normal)
				},
			)
			return bollywood.Empty()
		})
	}
}

func runProbe(sys *bollywood.ActorSystem, target bollywood.ActorAddress, timeout time.Duration, payload bollywood.Message) probeOutcome {
	out := make(chan probeOutcome, 1)
	h := sys.Spawn(bollywood.NewProps(probeProducer(target, timeout, payload, out)))
	sys.Send(h.Address(), startProbe{})
	return <-out
}

// watchTermination monitors target and reports its DownMessage.
func watchTermination(sys *bollywood.ActorSystem, target bollywood.ActorAddress) <-chan bollywood.DownMessage {
	out := make(chan bollywood.DownMessage, 1)
	h := sys.Spawn(bollywood.NewProps(func() *bollywood.Behavior {
		return bollywood.NewBehavior().
			On(startProbe{}, func(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
				ctx.Monitor(target)
				return bollywood.Empty()
			}).
			On(bollywood.DownMessage{}, func(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
				out <- msg.(bollywood.DownMessage)
				ctx.Quit(bollywood.Normal)
				return bollywood.Empty()
			})
	}))
	sys.Send(h.Address(), startProbe{})
	return out
}

// --- scenario 1: Adder ---

type AddRequest struct{ X, Y int }
type MulRequest struct{ X, Y int }

func newAdderProducer() bollywood.Producer {
	return func() *bollywood.Behavior {
		return bollywood.NewBehavior().On(AddRequest{}, func(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
			req := msg.(AddRequest)
			return bollywood.Reply(req.X + req.Y)
		})
	}
}

func runAdderScenario(sys *bollywood.ActorSystem) {
	adder := sys.Spawn(bollywood.NewProps(newAdderProducer()))
	ok := runProbe(sys, adder.Address(), time.Second, AddRequest{X: 10, Y: 20})
	fmt.Printf("adder: add(10,20) = %v\n", ok.value)

	adder2 := sys.Spawn(bollywood.NewProps(newAdderProducer()))
	down := watchTermination(sys, adder2.Address())
	bad := runProbe(sys, adder2.Address(), time.Second, MulRequest{X: 2, Y: 3})
	fmt.Printf("adder: mul(2,3) -> err=%v\n", bad.err)
	fmt.Printf("adder: terminated with reason=%v\n", (<-down).Reason)
}

// --- scenario 2: skip/forward ---

type IdleMsg struct{ Worker bollywood.ActorAddress }
type WorkMsg struct{}

func workerProducer() bollywood.Producer {
	return func() *bollywood.Behavior {
		return bollywood.NewBehavior().On(WorkMsg{}, func(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
			return bollywood.Reply("work done")
		})
	}
}

func busyBehavior(worker bollywood.ActorAddress) *bollywood.Behavior {
	return bollywood.NewBehavior().
		On(WorkMsg{}, func(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
			ctx.ForwardCurrentMessage(worker)
			ctx.Unbecome()
			return bollywood.Empty()
		}).
		On(IdleMsg{}, func(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
			return bollywood.Skip()
		})
}

func serverProducer() bollywood.Producer {
	return func() *bollywood.Behavior {
		return bollywood.NewBehavior().
			On(IdleMsg{}, func(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
				worker := msg.(IdleMsg).Worker
				ctx.Become(busyBehavior(worker), bollywood.Replace)
				return bollywood.Empty()
			}).
			On(WorkMsg{}, func(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
				return bollywood.Skip()
			})
	}
}

func runSkipForwardScenario(sys *bollywood.ActorSystem) {
	worker := sys.Spawn(bollywood.NewProps(workerProducer()))
	server := sys.Spawn(bollywood.NewProps(serverProducer()))

	out := make(chan probeOutcome, 1)
	client := sys.Spawn(bollywood.NewProps(probeProducer(server.Address(), 2*time.Second, WorkMsg{}, out)))
	sys.Send(client.Address(), startProbe{})

	time.Sleep(10 * time.Millisecond) // let the request land in server's cache first
	sys.Send(server.Address(), IdleMsg{Worker: worker.Address()})

	res := <-out
	fmt.Printf("server: cached request forwarded, worker replied %q (err=%v)\n", res.value, res.err)
}

// --- scenario 3: Cell ---

type GetMsg struct{}
type PutMsg struct{ V int }

func cellProducer() bollywood.Producer {
	return func() *bollywood.Behavior {
		state := 0
		return bollywood.NewBehavior().
			On(GetMsg{}, func(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
				return bollywood.Reply(state)
			}).
			On(PutMsg{}, func(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
				state = msg.(PutMsg).V
				return bollywood.Empty()
			})
	}
}

func runCellScenario(sys *bollywood.ActorSystem) {
	cell := sys.Spawn(bollywood.NewProps(cellProducer()))
	r1 := runProbe(sys, cell.Address(), time.Second, GetMsg{})
	r2 := runProbe(sys, cell.Address(), time.Second, PutMsg{V: 1024})
	r3 := runProbe(sys, cell.Address(), time.Second, GetMsg{})
	fmt.Printf("cell: get=%v put-ack=%v get=%v\n", r1.value, r2.value, r3.value)
}

// --- scenario 4: Divider timeout/unexpected_response ---

type DivRequest struct{ X, Y int }

func dividerProducer() bollywood.Producer {
	return func() *bollywood.Behavior {
		return bollywood.NewBehavior().On(DivRequest{}, func(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
			req := msg.(DivRequest)
			if req.Y == 0 {
				return bollywood.None()
			}
			return bollywood.Reply(req.X / req.Y)
		})
	}
}

func runDividerScenario(sys *bollywood.ActorSystem) {
	divider := sys.Spawn(bollywood.NewProps(dividerProducer()))
	down := watchTermination(sys, divider.Address())
	res := runProbe(sys, divider.Address(), time.Second, DivRequest{X: 1, Y: 0})
	fmt.Printf("divider: 1/0 -> err=%v\n", res.err)
	fmt.Printf("divider: terminated with reason=%v\n", (<-down).Reason)
}

// --- scenario 5: priority ---

type PriorityMsg struct{ Seq int }
type GetOrder struct{}

func priorityTargetProducer() bollywood.Producer {
	return func() *bollywood.Behavior {
		var order []int
		return bollywood.NewBehavior().
			On(PriorityMsg{}, func(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
				order = append(order, msg.(PriorityMsg).Seq)
				return bollywood.Empty()
			}).
			On(GetOrder{}, func(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
				return bollywood.Reply(append([]int(nil), order...))
			})
	}
}

func priorityDriverProducer(target bollywood.ActorAddress, n int) bollywood.Producer {
	return func() *bollywood.Behavior {
		return bollywood.NewBehavior().On(startProbe{}, func(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
			for i := 0; i < n; i++ {
				ctx.Send(target, PriorityMsg{Seq: i})
			}
			ctx.SendHigh(target, PriorityMsg{Seq: -1})
			ctx.Quit(bollywood.Normal)
			return bollywood.Empty()
		})
	}
}

func runPriorityScenario(sys *bollywood.ActorSystem) {
	target := sys.Spawn(bollywood.NewProps(priorityTargetProducer()).WithPriorityAware())
	driver := sys.Spawn(bollywood.NewProps(priorityDriverProducer(target.Address(), 5)))
	sys.Send(driver.Address(), startProbe{})

	time.Sleep(20 * time.Millisecond)
	res := runProbe(sys, target.Address(), time.Second, GetOrder{})
	fmt.Printf("priority: dispatch order = %v\n", res.value)
}

// --- scenario 6: reconnect ---

type SelfDestruct struct{}
type AnswerRequest struct{}

func receiverProducer() bollywood.Producer {
	return func() *bollywood.Behavior {
		return bollywood.NewBehavior().
			On(SelfDestruct{}, func(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
				ctx.Quit(bollywood.Normal)
				return bollywood.Empty()
			}).
			On(AnswerRequest{}, func(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
				return bollywood.Reply("answer")
			})
	}
}

func reconnectClientProducer(sys *bollywood.ActorSystem, firstReceiver bollywood.ActorAddress, out chan<- string) bollywood.Producer {
	return func() *bollywood.Behavior {
		var onOk func(ctx *bollywood.Context, msg bollywood.Message)
		var onErr func(ctx *bollywood.Context, err error)
		onOk = func(ctx *bollywood.Context, msg bollywood.Message) {
			out <- fmt.Sprintf("got reply %q after rebind", msg)
			ctx.Quit(bollywood.Normal)
		}
		onErr = func(ctx *bollywood.Context, err error) {
			out <- fmt.Sprintf("first receiver down: %v; rebinding", err)
			fresh := sys.Spawn(bollywood.NewProps(receiverProducer()))
			ctx.Request(fresh.Address(), 2*time.Second, AnswerRequest{}).Await(onOk, onErr)
		}
		return bollywood.NewBehavior().On(startProbe{}, func(ctx *bollywood.Context, msg bollywood.Message) bollywood.Result {
			ctx.Send(firstReceiver, SelfDestruct{})
			ctx.Request(firstReceiver, 2*time.Second, AnswerRequest{}).Await(onOk, onErr)
			return bollywood.Empty()
		})
	}
}

func runReconnectScenario(sys *bollywood.ActorSystem) {
	firstReceiver := sys.Spawn(bollywood.NewProps(receiverProducer()))
	out := make(chan string, 2)
	client := sys.Spawn(bollywood.NewProps(reconnectClientProducer(sys, firstReceiver.Address(), out)))
	sys.Send(client.Address(), startProbe{})

	fmt.Printf("reconnect: %s\n", <-out)
	fmt.Printf("reconnect: %s\n", <-out)
}

func main() {
	fmt.Println("bollywood demo starting")

	cfg := bollywood.DefaultSystemConfig()
	sys := bollywood.NewActorSystem(&cfg, bollywood.NewStdLogger())
	defer sys.Shutdown()

	runAdderScenario(sys)
	runSkipForwardScenario(sys)
	runCellScenario(sys)
	runDividerScenario(sys)
	runPriorityScenario(sys)
	runReconnectScenario(sys)

	fmt.Println("bollywood demo complete")
}
