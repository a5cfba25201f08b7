// Package tracker implements the host-side half of the capture protocol the
// instrumenter (lang/instrument) compiles into user code: the state machine
// that arms a callback, invokes an instrumented function so its tracker
// guard takes the capture branch, and recovers the function's scope values
// from the sentinel panic the tracker throws to unwind (§4.9).
//
// Everything here is scoped to one Instance rather than held in package
// globals, so two independent serialization runs — each started from its
// own goja.Runtime — never cross-contaminate (§9's "Global mutable state"
// note).
package tracker

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// State is the tracker callback's position in its lifecycle (§4.9):
//
//	IDLE --Arm--> ARMED --(guard takes capture branch)--> IN_FUNCTION
//	IN_FUNCTION --tracker called--> CAPTURED --panic(sentinel)--> ABORTED
//	ABORTED --Disarm--> IDLE
type State uint8

const (
	Idle State = iota
	Armed
	InFunction
	Captured
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case InFunction:
		return "in_function"
	case Captured:
		return "captured"
	case Aborted:
		return "aborted"
	default:
		return "invalid"
	}
}

// Sentinel is the value panic'd by Capture to unwind out of an instrumented
// function without running its real body (§4.9). Capture recovers it with
// a type assertion that also checks FuncID and re-panics anything else, so
// a genuine user panic isn't swallowed.
type Sentinel struct{ FuncID int }

func (s Sentinel) Error() string { return fmt.Sprintf("tracker: capture sentinel for func %d", s.FuncID) }

// Captured holds what the tracker call observed: the scope-id/variable
// values of every array argument the instrumented guard statement passed,
// in the same order as the function's tracker-comment scopes list.
type Captured struct {
	FuncID int
	Scopes [][]interface{}
}

// Instance is one engine's tracker state: the capture callback slot, the
// state-machine state, the last capture and the monotonic scope-id counter.
type Instance struct {
	ID uuid.UUID

	mu       sync.Mutex
	state    State
	callback func(Captured)
	lastCap  *Captured

	nextScopeID int64
}

// New creates a fresh, independent tracker Instance.
func New() *Instance {
	return &Instance{ID: uuid.New(), state: Idle}
}

// GetScopeID returns a new scope id, unique within this Instance (§6's
// getScopeId).
func (in *Instance) GetScopeID() int64 {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.nextScopeID++
	return in.nextScopeID
}

// State reports the current lifecycle state.
func (in *Instance) State() State {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state
}

// Arm installs cb as the capture callback, transitioning IDLE -> ARMED. It
// panics if a callback is already armed: re-entrant arming is a programming
// error in the caller (§9), not a recoverable runtime condition.
func (in *Instance) Arm(cb func(Captured)) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.state != Idle {
		panic(fmt.Sprintf("tracker: Arm called while state is %s, want idle", in.state))
	}
	in.callback = cb
	in.state = Armed
}

// Disarm clears the callback, transitioning back to IDLE. It is valid from
// ARMED (abandoned capture) or ABORTED (normal post-capture cleanup).
func (in *Instance) Disarm() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.callback = nil
	in.lastCap = nil
	in.state = Idle
}

// Tracker is the function instrumented code calls through its guard
// statement (the `livepackN_tracker` binding). When armed, it reports the
// scope arrays it was called with and panics the Sentinel to unwind;
// otherwise — normal execution — it returns nil immediately, a no-op.
func (in *Instance) Tracker(funcID int, scopes [][]interface{}) interface{} {
	in.mu.Lock()
	if in.state != Armed {
		in.mu.Unlock()
		return nil
	}
	in.state = InFunction
	cb := in.callback
	in.mu.Unlock()

	cap := Captured{FuncID: funcID, Scopes: scopes}

	in.mu.Lock()
	in.state = Captured
	in.lastCap = &cap
	in.mu.Unlock()

	if cb != nil {
		cb(cap)
	}

	in.mu.Lock()
	in.state = Aborted
	in.mu.Unlock()

	panic(Sentinel{FuncID: funcID})
}

// Capture arms the instance, invokes fn (expected to call an instrumented
// function whose guard takes the capture branch), and recovers the
// Sentinel. It returns the captured scope values, or an error if fn
// returned normally without ever calling Tracker — meaning fn was not
// instrumented (§4.9's "Fatal" transition).
func (in *Instance) Capture(funcID int, fn func()) (cap Captured, err error) {
	var got *Captured
	in.Arm(func(c Captured) { got = &c })
	defer in.Disarm()

	func() {
		defer func() {
			if r := recover(); r != nil {
				if sent, ok := r.(Sentinel); ok && sent.FuncID == funcID {
					return
				}
				panic(r)
			}
		}()
		fn()
	}()

	if got == nil {
		return Captured{}, fmt.Errorf("tracker: function %d returned without calling tracker; it is not instrumented", funcID)
	}
	return *got, nil
}
