package sim

import (
	"context"
	"sync"
)

// EventKind identifies a recorded simulator call.
type EventKind string

const (
	EventSpawn   EventKind = "spawn"
	EventKill    EventKind = "kill"
	EventPublish EventKind = "publish"
)

// Event is one call seen by a Recorder.
type Event struct {
	Kind  EventKind
	Name  string // turtle name for spawn/kill
	Pose  Pose   // spawn only
	Topic string // publish only
	Twist Twist  // publish only
}

// Recorder is an in-memory Simulator. It accepts every request and keeps
// them in call order. Used for dry runs and tests.
type Recorder struct {
	// SpawnErr and KillErr, when set, are returned from Spawn and Kill.
	// The call is still recorded.
	SpawnErr error
	KillErr  error

	// OnEvent, when set, is called after each event is recorded.
	OnEvent func(Event)

	mu     sync.Mutex
	events []Event
	closed bool
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(ev Event) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.events = append(r.events, ev)
	hook := r.OnEvent
	r.mu.Unlock()

	if hook != nil {
		hook(ev)
	}
	return nil
}

// Spawn records a spawn request.
func (r *Recorder) Spawn(_ context.Context, name string, pose Pose) error {
	if err := r.record(Event{Kind: EventSpawn, Name: name, Pose: pose}); err != nil {
		return err
	}
	return r.SpawnErr
}

// Kill records a kill request.
func (r *Recorder) Kill(_ context.Context, name string) error {
	if err := r.record(Event{Kind: EventKill, Name: name}); err != nil {
		return err
	}
	return r.KillErr
}

// Publish records a velocity command.
func (r *Recorder) Publish(_ context.Context, topic string, twist Twist) error {
	return r.record(Event{Kind: EventPublish, Topic: topic, Twist: twist})
}

// Close marks the recorder closed. Later calls return ErrClosed.
func (r *Recorder) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

// Events returns a copy of all recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Filter returns recorded events of the given kind.
func (r *Recorder) Filter(kind EventKind) []Event {
	var out []Event
	for _, ev := range r.Events() {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}
