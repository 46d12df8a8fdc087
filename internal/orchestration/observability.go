package orchestration

import (
	"fmt"
	"time"

	"github.com/scanner-research/scanner-gke/internal/log"
)

// Observer receives structured workflow events.
type Observer interface {
	Event(event Event)
}

// Event is one structured workflow event.
type Event struct {
	Type     EventType
	Phase    string
	Message  string
	Resource string
	Fields   map[string]string
}

// EventType classifies workflow events.
type EventType string

const (
	EventPhaseStarted   EventType = "phase.started"
	EventPhaseCompleted EventType = "phase.completed"
	EventPhaseFailed    EventType = "phase.failed"
	EventPhaseSkipped   EventType = "phase.skipped"

	EventResourceCreated  EventType = "resource.created"
	EventResourceExists   EventType = "resource.exists"
	EventResourceDeleting EventType = "resource.deleting"
	EventResourceDeleted  EventType = "resource.deleted"
)

// LogObserver writes events through the process logger.
type LogObserver struct {
	fields map[string]string
}

// NewLogObserver creates a LogObserver adding fields to every event.
func NewLogObserver(fields map[string]string) *LogObserver {
	return &LogObserver{fields: fields}
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	fields := log.Fields{"event": string(event.Type)}
	for k, v := range o.fields {
		fields[k] = v
	}
	for k, v := range event.Fields {
		fields[k] = v
	}
	if event.Phase != "" {
		fields["phase"] = event.Phase
	}
	if event.Resource != "" {
		fields["resource"] = event.Resource
	}

	level := log.InfoLevel
	switch event.Type {
	case EventPhaseFailed:
		level = log.WarnLevel
	case EventPhaseStarted, EventResourceExists, EventPhaseSkipped:
		level = log.DebugLevel
	}
	log.WithFields(level, fields, event.Message)
}

func logPhaseStart(o Observer, phase string) {
	o.Event(Event{Type: EventPhaseStarted, Phase: phase, Message: "starting"})
}

func logPhaseComplete(o Observer, phase string, d time.Duration) {
	o.Event(Event{
		Type:    EventPhaseCompleted,
		Phase:   phase,
		Message: fmt.Sprintf("completed in %v", d.Round(time.Millisecond)),
	})
}

func logPhaseSkipped(o Observer, phase string) {
	o.Event(Event{Type: EventPhaseSkipped, Phase: phase, Message: "skipped"})
}

func logPhaseFailed(o Observer, phase string, err error) {
	o.Event(Event{Type: EventPhaseFailed, Phase: phase, Message: fmt.Sprintf("failed: %v", err)})
}

func logResource(o Observer, t EventType, phase, kind, name string) {
	var msg string
	switch t {
	case EventResourceCreated:
		msg = kind + " created"
	case EventResourceExists:
		msg = kind + " already exists"
	case EventResourceDeleting:
		msg = "deleting " + kind
	case EventResourceDeleted:
		msg = kind + " deleted"
	}
	o.Event(Event{Type: t, Phase: phase, Resource: name, Message: msg, Fields: map[string]string{"type": kind}})
}
