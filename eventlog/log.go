// Package eventlog implements the bounded event log used to correlate
// commands with their asynchronous replies.
//
// The robot protocol has no request identifiers. A reply is matched to a
// command only by its code, and when a code occurs several times the most
// recent occurrence wins: the firmware tends to repeat intermediate status
// before the authoritative reply. The log keeps events in insertion order,
// evicts the oldest ones beyond its capacity, and offers lookups that remove
// what they return so that a later command can never consume a stale reply.
package eventlog

import (
	"github.com/arloliu/go-meca/internal/queue"
	"github.com/arloliu/go-meca/meca"
)

// DefaultCapacity is the default number of events kept by a Log.
const DefaultCapacity = 100

// Observer receives every batch of newly appended events. It must not retain
// or modify the slice beyond the call and must not call back into the Log.
type Observer func(batch []meca.Event)

// Option configures a Log.
type Option func(*Log)

// WithCapacity sets the maximum number of events kept. Values below 1 are
// ignored.
func WithCapacity(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.capacity = n
		}
	}
}

// WithObserver registers an observer invoked synchronously by Append.
func WithObserver(o Observer) Option {
	return func(l *Log) {
		l.observer = o
	}
}

// Log is a fixed-capacity, insertion-ordered store of events.
//
// Log is not goroutine-safe; it is owned by a single dispatcher.
type Log struct {
	capacity int
	events   *queue.Ring[meca.Event]
	observer Observer
}

// New creates an empty Log.
func New(opts ...Option) *Log {
	l := &Log{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(l)
	}
	l.events = queue.NewRing[meca.Event](l.capacity)

	return l
}

// SetObserver replaces the observer. A nil observer disables notification.
func (l *Log) SetObserver(o Observer) {
	l.observer = o
}

// Len returns the number of events in the log.
func (l *Log) Len() int { return l.events.Len() }

// Cap returns the capacity of the log.
func (l *Log) Cap() int { return l.events.Cap() }

// Evicted returns how many events were dropped because the log was full.
func (l *Log) Evicted() uint64 { return l.events.Evicted() }

// Append adds events as the newest entries, evicting the oldest entries
// beyond capacity, then passes exactly this batch to the observer.
func (l *Log) Append(events ...meca.Event) {
	if len(events) == 0 {
		return
	}

	for _, ev := range events {
		l.events.PushBack(ev)
	}

	if l.observer != nil {
		l.observer(events)
	}
}

// LastOccurrence returns the most recent event with the given code.
//
// When found, the event is removed from the log. With purgeOthers every
// other event carrying the same code is removed as well.
func (l *Log) LastOccurrence(code string, purgeOthers bool) (meca.Event, bool) {
	return l.LastMatch(func(ev meca.Event) bool { return ev.Code == code }, purgeOthers)
}

// LastMatch is LastOccurrence for an arbitrary predicate, e.g. the generic
// error class.
func (l *Log) LastMatch(match func(meca.Event) bool, purgeOthers bool) (meca.Event, bool) {
	for i := l.events.Len() - 1; i >= 0; i-- {
		ev := l.events.At(i)
		if !match(ev) {
			continue
		}

		if purgeOthers {
			l.events.RemoveFunc(match)
		} else {
			l.events.RemoveAt(i)
		}

		return ev, true
	}

	return meca.Event{}, false
}

// RemoveAll deletes every event with the given code and returns how many
// were removed.
func (l *Log) RemoveAll(code string) int {
	return l.events.RemoveFunc(func(ev meca.Event) bool { return ev.Code == code })
}

// RemoveFunc deletes every event matching the predicate.
func (l *Log) RemoveFunc(match func(meca.Event) bool) int {
	return l.events.RemoveFunc(match)
}

// PopOldest removes and returns the oldest event.
func (l *Log) PopOldest() (meca.Event, bool) {
	return l.events.PopFront()
}

// PopNewest removes and returns the newest event.
func (l *Log) PopNewest() (meca.Event, bool) {
	return l.events.PopBack()
}

// Events returns a copy of the log, oldest first.
func (l *Log) Events() []meca.Event {
	return l.events.Slice()
}

// Reset removes every event.
func (l *Log) Reset() {
	l.events.Reset()
}
