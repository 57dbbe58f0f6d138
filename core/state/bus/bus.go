package bus

import (
	"github.com/gittensor/bounty-go-node/core/events"
)

// Bus wires the state sub-stores to each other without direct package
// dependencies.
type Bus struct {
	checker Checker
	issues  Issues
	events  events.IEventsDB
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) SetChecker(checker Checker) {
	b.checker = checker
}

func (b *Bus) Checker() Checker {
	return b.checker
}

func (b *Bus) SetIssues(issues Issues) {
	b.issues = issues
}

func (b *Bus) Issues() Issues {
	return b.issues
}

func (b *Bus) SetEvents(events events.IEventsDB) {
	b.events = events
}

func (b *Bus) Events() events.IEventsDB {
	return b.events
}
