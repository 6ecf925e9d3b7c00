package state

import "testing"

func TestAddAndListNewestFirst(t *testing.T) {
	c := NewNotificationCenter(10)
	c.Add("first")
	c.Add("second")

	list := c.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 notifications got %d", len(list))
	}
	if list[0].Message != "second" || list[1].Message != "first" {
		t.Fatalf("expected newest first, got %+v", list)
	}
	if list[0].ID <= list[1].ID {
		t.Fatalf("ids must be increasing: %+v", list)
	}
}

func TestBoundedBuffer(t *testing.T) {
	c := NewNotificationCenter(3)
	for _, m := range []string{"a", "b", "c", "d", "e"} {
		c.Add(m)
	}
	list := c.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 retained got %d", len(list))
	}
	if list[0].Message != "e" || list[2].Message != "c" {
		t.Fatalf("oldest entries must be evicted: %+v", list)
	}
}

func TestMarkAllRead(t *testing.T) {
	c := NewNotificationCenter(0) // falls back to the default cap
	c.Add("a")
	c.Add("b")
	c.MarkAllRead()
	for _, n := range c.List() {
		if !n.Read {
			t.Fatalf("expected all read: %+v", n)
		}
	}
}

func TestListReturnsCopy(t *testing.T) {
	c := NewNotificationCenter(10)
	c.Add("a")
	list := c.List()
	list[0].Message = "mutated"
	if c.List()[0].Message != "a" {
		t.Fatal("List must not expose internal storage")
	}
}
