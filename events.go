package helm

import (
	"github.com/akmonengine/helm/actor"
)

const (
	CALLBACK_FAILED EventType = iota
	ON_SLEEP
	ON_WAKE
	STEP_COMPLETED
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// CallbackFailedEvent reports a body whose integrate-forces requests were
// discarded for the step.
type CallbackFailedEvent struct {
	Body *actor.RigidBody
	Step uint64
	Err  error
}

func (e CallbackFailedEvent) Type() EventType { return CALLBACK_FAILED }

// Sleep/Wake events
type SleepEvent struct {
	Body *actor.RigidBody
}

func (e SleepEvent) Type() EventType { return ON_SLEEP }

type WakeEvent struct {
	Body *actor.RigidBody
}

func (e WakeEvent) Type() EventType { return ON_WAKE }

// StepEvent is the last event of every step.
type StepEvent struct {
	Step uint64
	Dt   float64
}

func (e StepEvent) Type() EventType { return STEP_COMPLETED }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	sleepStates map[*actor.RigidBody]bool
}

func NewEvents() Events {
	return Events{
		listeners:   make(map[EventType][]EventListener),
		buffer:      make([]Event, 0, 256),
		sleepStates: make(map[*actor.RigidBody]bool),
	}
}

func (e *Events) init() {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]EventListener)
	}
	if e.sleepStates == nil {
		e.sleepStates = make(map[*actor.RigidBody]bool)
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.init()
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(event Event) {
	e.buffer = append(e.buffer, event)
}

func (e *Events) forget(body *actor.RigidBody) {
	delete(e.sleepStates, body)
}

func (e *Events) processSleepEvents(bodies []*actor.RigidBody) {
	e.init()
	for _, body := range bodies {
		trackedState, exists := e.sleepStates[body]
		if !exists {
			e.sleepStates[body] = body.IsSleeping
			continue
		}

		if !trackedState && body.IsSleeping {
			e.buffer = append(e.buffer, SleepEvent{Body: body})
			e.sleepStates[body] = true
		} else if trackedState && !body.IsSleeping {
			e.buffer = append(e.buffer, WakeEvent{Body: body})
			e.sleepStates[body] = false
		}
	}
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
