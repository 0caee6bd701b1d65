package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// EventQueue is a simple FIFO queue. Anything left in it when the scheduler
// finishes a tick is dropped.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Peek returns queued events of the given type without consuming them.
func (q *EventQueue) Peek(eventType string) []Event {
	if q == nil {
		return nil
	}
	var out []Event
	for _, evt := range q.items {
		if evt.Type == eventType {
			out = append(out, evt)
		}
	}
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
