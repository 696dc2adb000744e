package bollywood

// Result is the value a Handler returns. The dispatch loop classifies it
// per spec.md §4.3's visitor rules; construct one with Empty, Reply, Fail,
// None, or Skip rather than building resultKind values directly.
type Result struct {
	kind    resultKind
	message Message
	err     error
}

type resultKind uint8

const (
	resultEmpty resultKind = iota
	resultMessage
	resultError
	resultNone
	resultSkip
)

// Empty means "no meaningful reply": a response is still sent to an
// outstanding request (an empty acknowledgement), but nothing is sent for
// an async message.
func Empty() Result { return Result{kind: resultEmpty} }

// Reply delivers msg as the response to the request under dispatch.
func Reply(msg Message) Result { return Result{kind: resultMessage, message: msg} }

// Fail delivers err as a failure response.
func Fail(err error) Result { return Result{kind: resultError, err: err} }

// None is the sentinel a handler returns to signal "there is no answer for
// this" — the classifier turns it into an unexpected_response error rather
// than delivering it as a value (spec.md §4.3).
func None() Result { return Result{kind: resultNone} }

// Skip is the sentinel a handler returns to defer msg: it is pushed into
// the cache's second segment and re-offered to the next installed
// behavior (spec.md §4.3, §6).
func Skip() Result { return Result{kind: resultSkip} }
