package ws

import "testing"

func drain(c *Client) []Event {
	var out []Event
	for {
		select {
		case ev, ok := <-c.Events():
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestBroadcastReachesWholeGroupIncludingSender(t *testing.T) {
	h := NewHub()
	a := h.Join("act1")
	b := h.Join("act1")
	other := h.Join("act2")

	h.Broadcast("act1", Event{Type: "sendComment", Body: "hi"})

	if got := drain(a); len(got) != 1 || got[0].Type != "sendComment" {
		t.Fatalf("sender group member a: %+v", got)
	}
	if got := drain(b); len(got) != 1 {
		t.Fatalf("group member b: %+v", got)
	}
	if got := drain(other); len(got) != 0 {
		t.Fatalf("other group must not receive: %+v", got)
	}
}

func TestSendTargetsOneClient(t *testing.T) {
	h := NewHub()
	a := h.Join("act1")
	b := h.Join("act1")

	h.Send(a, Event{Type: "error", Body: "nope"})

	if got := drain(a); len(got) != 1 || got[0].Type != "error" {
		t.Fatalf("target client: %+v", got)
	}
	if got := drain(b); len(got) != 0 {
		t.Fatalf("other client must not receive: %+v", got)
	}
}

func TestLeaveClosesChannelAndEmptiesGroup(t *testing.T) {
	h := NewHub()
	a := h.Join("act1")
	h.Leave(a)

	if _, ok := <-a.Events(); ok {
		t.Fatal("channel must be closed after leave")
	}
	if h.GroupSize("act1") != 0 {
		t.Fatal("group must be empty")
	}
	// double leave is a no-op
	h.Leave(a)
}

func TestSlowClientIsDropped(t *testing.T) {
	h := NewHub()
	slow := h.Join("act1")
	fast := h.Join("act1")

	for i := 0; i < clientBuffer+1; i++ {
		h.Broadcast("act1", Event{Type: "sendComment"})
		drain(fast)
	}

	if h.GroupSize("act1") != 1 {
		t.Fatalf("slow client should be dropped, group size %d", h.GroupSize("act1"))
	}
	// drained channel ends closed
	for range slow.Events() {
	}
}
