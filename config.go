package bollywood

import "time"

// SystemConfig holds the scheduler's tunables, in the same declarative,
// grouped-by-concern style as the teacher's utils.Config/DefaultConfig
// (_examples/lguibr-pongo/utils/config.go) — a plain struct with a
// constructor, not a flag-parsing layer.
type SystemConfig struct {
	// Workers is the number of cooperative scheduler worker goroutines.
	// One worker runs at most one actor at a time (spec.md §5).
	Workers int

	// MaxThroughput bounds how many messages a single Resume call drains
	// from one actor before yielding it back to the run queue, the
	// fairness cap spec.md §4.6/§1 describes.
	MaxThroughput int

	// IdlePoll bounds how long an idle worker waits for a wake signal
	// before re-checking its peers for stealable work.
	IdlePoll time.Duration
}

// DefaultSystemConfig returns sane defaults: one worker per
// reasonably-sized machine core is left to the caller (Workers defaults to
// a small fixed pool, not runtime.NumCPU(), so tests stay deterministic
// across machines).
func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		Workers:       4,
		MaxThroughput: 30,
		IdlePoll:      time.Millisecond,
	}
}
