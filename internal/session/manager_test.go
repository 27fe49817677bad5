package session

import (
	"sync"
	"testing"
)

func TestManager_ActiveConversationLifecycle(t *testing.T) {
	m := NewManager()

	if got := m.ActiveConversation("u1"); got != "" {
		t.Errorf("fresh user should have no active conversation, got %q", got)
	}

	m.SetActiveConversation("u1", "c1")
	if got := m.ActiveConversation("u1"); got != "c1" {
		t.Errorf("ActiveConversation = %q, want c1", got)
	}

	// Pointers are per user.
	if got := m.ActiveConversation("u2"); got != "" {
		t.Errorf("u2 should be unaffected, got %q", got)
	}

	m.Clear("u1")
	if got := m.ActiveConversation("u1"); got != "" {
		t.Errorf("Clear should drop the pointer, got %q", got)
	}
}

func TestManager_LockSerializesPerUser(t *testing.T) {
	m := NewManager()

	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := m.Lock("u1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter = %d, want 50 (lock failed to serialize)", counter)
	}
}

func TestManager_LockIndependentAcrossUsers(t *testing.T) {
	m := NewManager()

	unlock1 := m.Lock("u1")
	defer unlock1()

	done := make(chan struct{})
	go func() {
		unlock2 := m.Lock("u2")
		unlock2()
		close(done)
	}()

	// Must not deadlock: u2's lock is independent of u1's.
	<-done
}
