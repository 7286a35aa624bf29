package rules

import (
	"testing"
)

func TestWatcherRegistry(t *testing.T) {
	registry := NewWatcherRegistry()

	testWatcher := newTestWatcher("TestWatcher")
	registry.AddWatcher(testWatcher)

	if registry.GetWatcher("TestWatcher") == nil {
		t.Fatal("should retrieve TestWatcher")
	}
	if len(registry.GetAllWatchers()) != 1 {
		t.Fatalf("expected 1 watcher, got %d", len(registry.GetAllWatchers()))
	}

	registry.NotifyWatchers(NewEvent(EventPileBurned, -1, "DISCARD"))
	if !testWatcher.ConditionMet() {
		t.Fatal("testWatcher should have condition met")
	}

	registry.ResetWatchers()
	if testWatcher.ConditionMet() {
		t.Fatal("watcher should not have condition met after reset")
	}

	registry.RemoveWatcher("TestWatcher")
	if registry.GetWatcher("TestWatcher") != nil {
		t.Fatal("watcher should be removed")
	}
	if len(registry.GetAllWatchers()) != 0 {
		t.Fatal("registry should be empty")
	}
}

func TestWatcherRegistryKeepsOrder(t *testing.T) {
	registry := NewWatcherRegistry()
	registry.AddWatcher(newTestWatcher("b"))
	registry.AddWatcher(newTestWatcher("a"))
	registry.AddWatcher(newTestWatcher("c"))
	registry.AddWatcher(newTestWatcher("a"))
	registry.AddWatcher(nil)

	all := registry.GetAllWatchers()
	if len(all) != 3 {
		t.Fatalf("expected 3 watchers, got %d", len(all))
	}
	for i, key := range []string{"b", "a", "c"} {
		if all[i].GetKey() != key {
			t.Fatalf("position %d: expected %s, got %s", i, key, all[i].GetKey())
		}
	}
}

func TestBaseWatcher(t *testing.T) {
	bw := NewBaseWatcher("test_key")

	if bw.GetKey() != "test_key" {
		t.Fatalf("expected test_key, got %s", bw.GetKey())
	}
	if bw.ConditionMet() {
		t.Fatal("should not have condition met initially")
	}

	bw.SetCondition(true)
	if !bw.ConditionMet() {
		t.Fatal("should have condition met after SetCondition")
	}

	bw.Reset()
	if bw.ConditionMet() {
		t.Fatal("should not have condition met after reset")
	}
}

func TestWatcherRegistryAttach(t *testing.T) {
	registry := NewWatcherRegistry()
	eventBus := NewEventBus()
	handle := registry.Attach(eventBus)

	testWatcher := newTestWatcher("TestWatcher")
	registry.AddWatcher(testWatcher)

	eventBus.Publish(NewEvent(EventCardAttached, 3, "DISCARD"))
	if testWatcher.ConditionMet() {
		t.Fatal("testWatcher should ignore attach events")
	}

	eventBus.Publish(NewEvent(EventPileBurned, -1, "DISCARD"))
	if !testWatcher.ConditionMet() {
		t.Fatal("testWatcher should have condition met")
	}

	registry.ResetWatchers()
	eventBus.Unsubscribe(handle)
	eventBus.Publish(NewEvent(EventPileBurned, -1, "DISCARD"))
	if testWatcher.ConditionMet() {
		t.Fatal("detached registry should not be notified")
	}
}

// testWatcherImpl is a simple test watcher implementation
type testWatcherImpl struct {
	*BaseWatcher
}

func newTestWatcher(key string) *testWatcherImpl {
	return &testWatcherImpl{BaseWatcher: NewBaseWatcher(key)}
}

func (t *testWatcherImpl) Watch(event Event) {
	if event.Type == EventPileBurned {
		t.SetCondition(true)
	}
}
