package state

import (
	"sync"
	"time"
)

type Notification struct {
	ID        int       `json:"id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationCenter is a bounded in-memory feed of application events,
// injected into the handlers that produce or expose them.
type NotificationCenter struct {
	mu    sync.Mutex
	next  int
	max   int
	items []Notification
}

func NewNotificationCenter(max int) *NotificationCenter {
	if max <= 0 {
		max = 50
	}
	return &NotificationCenter{max: max}
}

func (c *NotificationCenter) Add(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	c.items = append(c.items, Notification{ID: c.next, Message: message, CreatedAt: time.Now()})
	if len(c.items) > c.max {
		c.items = c.items[len(c.items)-c.max:]
	}
}

// List returns a newest-first copy.
func (c *NotificationCenter) List() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.items))
	for i, n := range c.items {
		out[len(c.items)-1-i] = n
	}
	return out
}

func (c *NotificationCenter) MarkAllRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		c.items[i].Read = true
	}
}
