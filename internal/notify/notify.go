// Package notify carries mutation outcomes to an external sink. Delivery
// is fire-and-forget: no operation outcome depends on a sink's success.
package notify

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Level classifies an event for the sink.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Event is a human-readable outcome summary.
type Event struct {
	Level   Level
	Message string
	Time    time.Time
}

// Notifier receives outcome events.
type Notifier interface {
	Notify(e Event)
}

// LogNotifier writes events to the process log.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(e Event) {
	log.Printf("Notify: [%s] %s", e.Level, e.Message)
}

// Eventf builds an event with a formatted message.
func Eventf(level Level, format string, args ...interface{}) Event {
	return Event{
		Level:   level,
		Message: fmt.Sprintf(format, args...),
		Time:    time.Now(),
	}
}

// Recorder collects events for inspection in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
