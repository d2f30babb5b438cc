package notify

import (
	"context"
	"fmt"
	"sync"
)

// CaptureSender records messages instead of delivering them. It backs the
// email preview command and tests.
type CaptureSender struct {
	mu       sync.Mutex
	messages []EmailMessage

	// Fail, when set, is consulted before each message is recorded.
	Fail func(msg EmailMessage) error
}

// Send records msg and returns a sequential id.
func (c *CaptureSender) Send(_ context.Context, msg EmailMessage) (string, error) {
	if err := validateMessage(msg); err != nil {
		return "", err
	}
	if c.Fail != nil {
		if err := c.Fail(msg); err != nil {
			return "", err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	return fmt.Sprintf("captured-%d", len(c.messages)), nil
}

// Messages returns a copy of everything sent so far.
func (c *CaptureSender) Messages() []EmailMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]EmailMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

var _ EmailSender = (*CaptureSender)(nil)
