package comms

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrReceiveTimeout reports that a bounded receive expired before a
// matching message arrived. Callers treat it as a "phase stalled" signal
// rather than blocking indefinitely.
var ErrReceiveTimeout = errors.New("receive deadline exceeded")

// Mailbox is a participant's inbox. Receive is filtered: messages that do
// not match the filter are set aside and offered to later receives, so a
// reply arriving early for another conversation is never lost.
//
// A mailbox has a single owner goroutine; only deliver is safe to call
// from other goroutines.
type Mailbox struct {
	owner    string
	in       chan Message
	deferred []Message
}

func newMailbox(owner string, size int) *Mailbox {
	return &Mailbox{
		owner: owner,
		in:    make(chan Message, size),
	}
}

// Owner returns the participant name the mailbox belongs to.
func (m *Mailbox) Owner() string {
	return m.owner
}

func (m *Mailbox) deliver(msg Message) {
	m.in <- msg
}

// Receive returns the next message matching the filter, first consulting
// messages set aside by earlier receives. It blocks until a match arrives
// or the context ends; a deadline expiry is reported as ErrReceiveTimeout.
func (m *Mailbox) Receive(ctx context.Context, filter Filter) (Message, error) {
	if filter == nil {
		filter = Any
	}

	for i, msg := range m.deferred {
		if filter(msg) {
			m.deferred = append(m.deferred[:i], m.deferred[i+1:]...)
			return msg, nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return Message{}, ErrReceiveTimeout
			}
			return Message{}, fmt.Errorf("receive on %q: %w", m.owner, ctx.Err())
		case msg := <-m.in:
			if filter(msg) {
				return msg, nil
			}
			m.deferred = append(m.deferred, msg)
		}
	}
}

// ReceiveWithin is Receive with a bounded deadline layered on the parent
// context.
func (m *Mailbox) ReceiveWithin(ctx context.Context, d time.Duration, filter Filter) (Message, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return m.Receive(ctx, filter)
}
