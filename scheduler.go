package bollywood

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lguibr/bollywood/internal/deque"
)

// scheduler is the bounded worker pool from spec.md §4.6: each worker owns
// a local run queue of runnable actors and steals from peers when idle.
// An actor sits in at most one worker's queue or is actively executing —
// never both — which is enough on its own to guarantee "at most one
// worker executes a given actor at any time" (spec.md §5) without any
// extra per-actor scheduling flag: the only three places an actor is ever
// pushed onto a queue (spawn, a worker re-queuing its own resumeLater
// result, and deliver's unblockedReader signal) are mutually exclusive in
// time by construction — see Resume's contract in actor.go.
type scheduler struct {
	system  *ActorSystem
	workers []*worker
	next    uint64 // round-robin placement counter

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

type worker struct {
	idx   int
	sched *scheduler
	q     *deque.Deque
	wake  chan struct{}
	cfg   SystemConfig
}

func newScheduler(system *ActorSystem, cfg SystemConfig) *scheduler {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	s := &scheduler{
		system: system,
		stopCh: make(chan struct{}),
	}
	s.workers = make([]*worker, cfg.Workers)
	for i := range s.workers {
		s.workers[i] = &worker{
			idx:   i,
			sched: s,
			q:     deque.New(),
			wake:  make(chan struct{}, 1),
			cfg:   cfg,
		}
	}
	s.wg.Add(cfg.Workers)
	for _, w := range s.workers {
		go w.run()
	}
	return s
}

// pick chooses a placement worker by round robin. Simple and even; the
// steal loop is what actually balances load once queues drift apart.
func (s *scheduler) pick() *worker {
	i := atomic.AddUint64(&s.next, 1)
	return s.workers[i%uint64(len(s.workers))]
}

// enqueue makes a runnable (freshly spawned, resumed-later, or just
// unblocked) actor visible to the worker pool.
func (s *scheduler) enqueue(a *actor) {
	w := s.pick()
	w.q.PushBottom(a)
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (s *scheduler) shutdown() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

// delayedSend schedules payload for delivery from sender to dest after d,
// using time.AfterFunc directly — the same idiom the teacher's
// BallActor.SetPhasingCommand handler uses for its phasing timer
// (_examples/lguibr-pongo/game/ball_actor.go), generalized into the one
// facility every delayed/timeout/sync-timeout send in this package goes
// through.
func (s *scheduler) delayedSend(sender, dest ActorAddress, d time.Duration, payload Message) {
	time.AfterFunc(d, func() {
		s.system.deliver(dest, MailboxElement{Sender: sender, Mid: noReply, Payload: payload})
	})
}

func (w *worker) run() {
	defer w.sched.wg.Done()
	for {
		select {
		case <-w.sched.stopCh:
			return
		default:
		}

		a, ok := w.q.PopBottom()
		if !ok {
			a, ok = w.steal()
		}
		if !ok {
			select {
			case <-w.wake:
			case <-time.After(w.cfg.IdlePoll):
			case <-w.sched.stopCh:
				return
			}
			continue
		}

		act := a.(*actor)
		switch act.Resume(w.cfg.MaxThroughput) {
		case resumeLater:
			w.q.PushBottom(act)
			select {
			case w.wake <- struct{}{}:
			default:
			}
		case resumeAwaitingMessage, resumeDone:
			// Nothing to do: the actor leaves the scheduler's view
			// entirely until a future deliver() re-enqueues it
			// (awaitingMessage) or never (done).
		}
	}
}

// steal tries every peer's top (oldest) item once, round-robin starting
// just after this worker's own index.
func (w *worker) steal() (interface{}, bool) {
	n := len(w.sched.workers)
	for i := 1; i < n; i++ {
		peer := w.sched.workers[(w.idx+i)%n]
		if item, ok := peer.q.PopTop(); ok {
			return item, true
		}
	}
	return nil, false
}
