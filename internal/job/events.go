package job

import "time"

// EventType classifies progress notifications fired by a job.
type EventType string

const (
	EventFileImported     EventType = "file_imported"
	EventFileImportFailed EventType = "file_import_failed"
	EventFileExported     EventType = "file_exported"
	EventFileExportFailed EventType = "file_export_failed"
	EventExportCompleted  EventType = "export_completed"
)

// Event is one sequenced progress notification.
type Event struct {
	Seq       int64     `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
	JobID     string    `json:"job_id"`
	Type      EventType `json:"type"`
	Index     int       `json:"index"`
	Path      string    `json:"path,omitempty"`
	Err       error     `json:"-"`
	Message   string    `json:"message,omitempty"`
}

// Observer receives events synchronously, in the order they are fired.
type Observer func(Event)

// EventLog keeps a bounded history of published events.
type EventLog struct {
	nextSeq   int64
	maxEvents int
	events    []Event
}

func NewEventLog(maxEvents int) *EventLog {
	if maxEvents <= 0 {
		maxEvents = 500
	}
	return &EventLog{
		maxEvents: maxEvents,
		events:    make([]Event, 0, 16),
	}
}

// Publish assigns sequence and timestamp and stores the event.
func (l *EventLog) Publish(event Event) Event {
	l.nextSeq++
	event.Seq = l.nextSeq
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Err != nil && event.Message == "" {
		event.Message = event.Err.Error()
	}

	l.events = append(l.events, event)
	if len(l.events) > l.maxEvents {
		trim := len(l.events) - l.maxEvents
		l.events = append([]Event(nil), l.events[trim:]...)
	}
	return event
}

// Since returns events with sequence strictly greater than seq.
func (l *EventLog) Since(seq int64) []Event {
	if len(l.events) == 0 {
		return nil
	}
	out := make([]Event, 0, len(l.events))
	for _, event := range l.events {
		if event.Seq > seq {
			out = append(out, event)
		}
	}
	return out
}
