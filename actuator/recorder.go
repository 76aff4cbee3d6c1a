package actuator

import (
	"sync"
	"time"
)

// Transition is one recorded state change.
type Transition struct {
	On bool
	At time.Time
}

// Recorder keeps every state it is set to. It is safe for concurrent use.
type Recorder struct {
	mu          sync.Mutex
	transitions []Transition
	err         error
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// FailWith makes every subsequent SetState return err after recording the state.
// Pass nil to stop failing.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Recorder) SetState(on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transitions = append(r.transitions, Transition{On: on, At: time.Now()})
	return r.err
}

// Transitions returns a copy of the recorded state changes.
func (r *Recorder) Transitions() []Transition {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Transition, len(r.transitions))
	copy(out, r.transitions)
	return out
}

// States returns the recorded states in order.
func (r *Recorder) States() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]bool, len(r.transitions))
	for i, tr := range r.transitions {
		out[i] = tr.On
	}
	return out
}

// Last returns the most recent state; ok is false if nothing was recorded.
func (r *Recorder) Last() (on bool, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.transitions) == 0 {
		return false, false
	}
	return r.transitions[len(r.transitions)-1].On, true
}

// Reset forgets all recorded transitions.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = nil
}

// Close records a final off state.
func (r *Recorder) Close() error {
	return r.SetState(false)
}
