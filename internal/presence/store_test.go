package presence

import (
	"sync"
	"testing"
)

func TestStore_EmptyUntilSet(t *testing.T) {
	s := NewStore()
	if !s.Current().IsZero() {
		t.Fatal("expected zero snapshot from new store")
	}

	snap, err := DecodeSnapshot([]byte(`{"discord_user":{"id":"1"},"discord_status":"online"}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	s.set(snap)
	if s.Current().IsZero() {
		t.Fatal("expected stored snapshot")
	}
	if s.Current().StatusData.Label != "Online" {
		t.Fatalf("unexpected status: %+v", s.Current().StatusData)
	}
}

func TestStore_ConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	s := NewStore()
	online, _ := DecodeSnapshot([]byte(`{"discord_user":{"id":"1"},"discord_status":"online"}`))
	idle, _ := DecodeSnapshot([]byte(`{"discord_user":{"id":"1"},"discord_status":"idle"}`))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if i%2 == 0 {
				s.set(online)
			} else {
				s.set(idle)
			}
		}
	}()

	for i := 0; i < 500; i++ {
		cur := s.Current()
		if cur.IsZero() {
			continue
		}
		status := string(cur.Presence.DiscordStatus)
		label := cur.StatusData.Label
		if (status == "online" && label != "Online") || (status == "idle" && label != "Idle") {
			t.Fatalf("torn snapshot: status=%s label=%s", status, label)
		}
	}
	wg.Wait()
}
