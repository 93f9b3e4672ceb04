package events

import "github.com/thenoetrevino/paso-threads/internal/types"

// EventPublisher defines the interface for announcing store changes.
// This interface allows for loose coupling and easier testing by depending
// on behavior rather than concrete implementation.
type EventPublisher interface {
	// Publish fans the event out to every matching subscriber
	Publish(event Event) error
}

// EventSubscriber receives store changes for one task or for all of them
type EventSubscriber interface {
	// Subscribe returns a channel of events for taskID (AllTasks for every task)
	// and a function that cancels the subscription and closes the channel
	Subscribe(taskID types.TaskID) (<-chan Event, func())
}

// Compile-time verification that *Bus implements both sides
var (
	_ EventPublisher  = (*Bus)(nil)
	_ EventSubscriber = (*Bus)(nil)
)
