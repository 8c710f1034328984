package notifier

import (
	"github.com/dkovalev/reminder/internal/storage"
)

const (
	TypeInfo     = "info"
	TypeWarning  = "warning"
	TypeReminder = "reminder"
)

// Message is the wire payload pushed to subscribers. Exactly one of the
// optional fields is populated depending on Type.
type Message struct {
	Type              string          `json:"type"`
	Message           string          `json:"message,omitempty"`
	Event             *storage.Event  `json:"event,omitempty"`
	OverlappingEvents []storage.Event `json:"overlappingEvents,omitempty"`
}

func Info(text string) Message {
	return Message{Type: TypeInfo, Message: text}
}

func Warning(events []storage.Event) Message {
	return Message{Type: TypeWarning, OverlappingEvents: events}
}

func Reminder(e storage.Event) Message {
	return Message{Type: TypeReminder, Event: &e}
}

// Notifier delivers a message to subscribers. Delivery is best effort;
// implementations must not fail the caller on a broken recipient.
type Notifier interface {
	Notify(m Message)
}

// Multi fans one message out to several independent notifiers.
type Multi []Notifier

func (n Multi) Notify(m Message) {
	for _, notifier := range n {
		notifier.Notify(m)
	}
}
