package events

import "time"

// RefreshEvent announces the outcome of one refresh cycle to the web layer.
type RefreshEvent struct {
	Status    string    `json:"status"`
	Users     int       `json:"users"`
	Products  int       `json:"products"`
	Orders    int       `json:"orders"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher announces refresh cycle outcomes.
type Publisher interface {
	Publish(event RefreshEvent) error
	Close() error
}

// Subscriber delivers refresh cycle outcomes as they happen. Each call
// creates an independent subscription; the returned stop func releases it
// and closes the channel.
type Subscriber interface {
	Subscribe() (<-chan RefreshEvent, func(), error)
	Close() error
}
