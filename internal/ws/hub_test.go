package ws

import "testing"

func TestHubJoinIsIdempotent(t *testing.T) {
	hub := NewHub()
	c := newTestClient(nil)

	if !hub.Join("music", c) {
		t.Fatal("first join should report a new membership")
	}
	if hub.Join("music", c) {
		t.Fatal("rejoin should not report a new membership")
	}
	if got := hub.MemberCount("music"); got != 1 {
		t.Fatalf("expected 1 member, got %d", got)
	}
}

func TestHubRemoveClientReturnsSortedRooms(t *testing.T) {
	hub := NewHub()
	c := newTestClient(nil)
	hub.Join("zebra", c)
	hub.Join("alpha", c)
	hub.Join("music", c)

	left := hub.RemoveClient(c)
	want := []string{"alpha", "music", "zebra"}
	if len(left) != len(want) {
		t.Fatalf("expected %d rooms, got %v", len(want), left)
	}
	for i := range want {
		if left[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, left)
		}
	}
	for _, room := range want {
		if hub.MemberCount(room) != 0 {
			t.Fatalf("client still counted in %q after removal", room)
		}
	}
}

func TestHubRemoveUnknownClient(t *testing.T) {
	hub := NewHub()
	if left := hub.RemoveClient(newTestClient(nil)); len(left) != 0 {
		t.Fatalf("expected no rooms, got %v", left)
	}
}

func TestHubBroadcastOthersExcludesSender(t *testing.T) {
	hub := NewHub()
	sender := newTestClient(nil)
	other := newTestClient(nil)
	hub.Join("music", sender)
	hub.Join("music", other)

	hub.BroadcastOthers("music", sender, EventNotice, notice("hi"))

	select {
	case <-sender.send:
		t.Fatal("sender should not receive its own broadcast")
	default:
	}
	select {
	case <-other.send:
	default:
		t.Fatal("other member should receive the broadcast")
	}
}

func TestHubClosesClientWithFullSendBuffer(t *testing.T) {
	hub := NewHub()
	stuck := newTestClient(nil)
	hub.Join("music", stuck)

	frame := []byte(`{"event":"message"}`)
	for i := 0; i < sendBufferSize; i++ {
		if !stuck.enqueue(frame) {
			t.Fatal("buffer filled early")
		}
	}

	hub.Broadcast("music", EventNotice, notice("overflow"))

	if stuck.enqueue(frame) {
		t.Fatal("closed client should not accept frames")
	}
	// Membership survives until the connection teardown removes it, so the
	// leave notices can still name the rooms.
	if got := hub.MemberCount("music"); got != 1 {
		t.Fatalf("expected membership to survive eviction, got %d members", got)
	}
	if left := hub.RemoveClient(stuck); len(left) != 1 || left[0] != "music" {
		t.Fatalf("expected teardown to find the membership, got %v", left)
	}
}

func TestHubBroadcastDuringDisconnectDoesNotPanic(t *testing.T) {
	hub := NewHub()
	leaving := newTestClient(nil)
	staying := newTestClient(nil)
	hub.Join("music", leaving)
	hub.Join("music", staying)

	// A broadcast snapshots the member list before a concurrent teardown
	// removes and closes one of them; delivery to the stale snapshot must
	// drop the frame, not panic on the closed channel.
	snapshot := hub.members("music", nil)
	hub.RemoveClient(leaving)
	leaving.Close()

	frame, err := marshalEnvelope(EventNotice, notice("racy"))
	if err != nil {
		t.Fatal(err)
	}
	hub.deliver(snapshot, frame)

	select {
	case <-staying.send:
	default:
		t.Fatal("surviving member should still receive the frame")
	}
}
