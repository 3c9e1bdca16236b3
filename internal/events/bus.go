// Package events provides the two-phase lifecycle bus used to announce
// entity creation and destruction.
//
// Every publish runs all Phase1 handlers in registration order, then all
// Phase2 handlers in registration order, synchronously on the caller's
// goroutine. Subsystems that maintain structural indices (occupancy, power
// networks) subscribe to Phase1 so that generic observers subscribed to
// Phase2 always see those indices already updated.
//
// Registration happens during assembly, before the first publish; the bus
// does no locking.
package events

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Kind identifies a lifecycle transition.
type Kind int

const (
	Create Kind = iota
	Destroy
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case Create:
		return "create"
	case Destroy:
		return "destroy"
	default:
		return "unknown"
	}
}

// Phase selects when a handler runs relative to the other handlers of the
// same publish.
type Phase int

const (
	// Phase1 handlers run first. Reserved for index-maintaining subsystems.
	Phase1 Phase = iota
	// Phase2 handlers run after every Phase1 handler has returned.
	Phase2
)

// String returns the phase name used in logs.
func (p Phase) String() string {
	switch p {
	case Phase1:
		return "phase1"
	case Phase2:
		return "phase2"
	default:
		return "unknown"
	}
}

const (
	numKinds  = 2
	numPhases = 2
)

// Handler reacts to a lifecycle event. A non-nil error marks the handler as
// faulted for this publish; it does not stop the remaining handlers.
type Handler[E any] func(E) error

// HandlerFault records a handler that failed during Publish.
type HandlerFault struct {
	Kind  Kind
	Phase Phase
	Index int // position in the (kind, phase) registration order
	Err   error
}

func (f *HandlerFault) Error() string {
	return fmt.Sprintf("events: %s %s handler #%d: %v", f.Kind, f.Phase, f.Index, f.Err)
}

func (f *HandlerFault) Unwrap() error {
	return f.Err
}

// Bus is a two-phase publish/subscribe channel for payloads of type E.
type Bus[E any] struct {
	handlers [numKinds][numPhases][]Handler[E]
	logger   *log.Logger
}

// NewBus creates an empty bus. A nil logger discards fault logs.
func NewBus[E any](logger *log.Logger) *Bus[E] {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Bus[E]{logger: logger}
}

// Subscribe appends h to the handlers of (kind, phase).
// Registering the same handler twice makes it fire twice.
func (b *Bus[E]) Subscribe(kind Kind, phase Phase, h Handler[E]) {
	if !validKind(kind) || !validPhase(phase) {
		panic(fmt.Sprintf("events: invalid subscription %d/%d", kind, phase))
	}
	if h == nil {
		panic("events: nil handler")
	}
	b.handlers[kind][phase] = append(b.handlers[kind][phase], h)
}

// Handlers returns how many handlers are registered for (kind, phase).
func (b *Bus[E]) Handlers(kind Kind, phase Phase) int {
	if !validKind(kind) || !validPhase(phase) {
		return 0
	}
	return len(b.handlers[kind][phase])
}

// Publish delivers payload to every Phase1 handler of kind, then to every
// Phase2 handler of kind. All handlers run even if earlier ones fail; a
// handler that returns an error or panics is logged and reported as a
// *HandlerFault. The returned error joins every fault of this publish.
func (b *Bus[E]) Publish(kind Kind, payload E) error {
	if !validKind(kind) {
		return fmt.Errorf("events: invalid kind %d", kind)
	}

	var faults []error
	for _, phase := range [...]Phase{Phase1, Phase2} {
		for i, h := range b.handlers[kind][phase] {
			if err := invoke(h, payload); err != nil {
				fault := &HandlerFault{Kind: kind, Phase: phase, Index: i, Err: err}
				b.logger.Error("handler failed",
					"kind", kind,
					"phase", phase,
					"handler", i,
					"error", err,
				)
				faults = append(faults, fault)
			}
		}
	}
	return errors.Join(faults...)
}

// invoke runs a single handler, turning a panic into an error so the
// remaining handlers still run.
func invoke[E any](h Handler[E], payload E) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(payload)
}

// Faults extracts every HandlerFault contained in err.
func Faults(err error) []*HandlerFault {
	if err == nil {
		return nil
	}
	var out []*HandlerFault
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, Faults(e)...)
		}
		return out
	}
	var f *HandlerFault
	if errors.As(err, &f) {
		out = append(out, f)
	}
	return out
}

func validKind(k Kind) bool {
	return k >= 0 && int(k) < numKinds
}

func validPhase(p Phase) bool {
	return p >= 0 && int(p) < numPhases
}
