package resource

import (
	"sync"
	"testing"
)

type testObserver struct {
	events []Event[string]
}

func (o *testObserver) OnResourceEvent(e Event[string]) {
	o.events = append(o.events, e)
}

func TestTable_Basic(t *testing.T) {
	table := NewTable[string]()

	h := table.Insert(1, "test")
	if h == 0 {
		t.Fatal("Expected non-zero handle")
	}

	val, ok := table.Get(h)
	if !ok || val != "test" {
		t.Fatalf("Get = %q, %v", val, ok)
	}

	if _, ok = table.GetTyped(h, 1); !ok {
		t.Fatal("GetTyped with correct type failed")
	}
	if _, ok = table.GetTyped(h, 2); ok {
		t.Fatal("GetTyped with wrong type should fail")
	}

	val, ok = table.Remove(h)
	if !ok || val != "test" {
		t.Fatalf("Remove = %q, %v", val, ok)
	}
	if _, ok = table.Remove(h); ok {
		t.Fatal("second Remove should fail")
	}

	if table.Len() != 0 {
		t.Fatal("Expected Len() == 0 after Remove")
	}
}

func TestTable_InvalidHandles(t *testing.T) {
	table := NewTable[string]()
	table.Insert(1, "a")

	for _, h := range []Handle{0, makeHandle(2, 0), makeHandle(1, 1), Handle(0xFFFFFFFF)} {
		if _, ok := table.Get(h); ok {
			t.Errorf("Get(%s) should fail", h)
		}
	}
}

func TestTable_SlotReuseBumpsGeneration(t *testing.T) {
	table := NewTable[string]()

	old := table.Insert(1, "a")
	table.Remove(old)
	reused := table.Insert(1, "b")

	if reused.Slot() != old.Slot() {
		t.Fatalf("expected slot %d to be reused, got %d", old.Slot(), reused.Slot())
	}
	if reused.Generation() != old.Generation()+1 {
		t.Fatalf("expected generation %d, got %d", old.Generation()+1, reused.Generation())
	}
	if _, ok := table.Get(old); ok {
		t.Error("stale handle must not resolve to the reused slot")
	}
	if v, ok := table.Get(reused); !ok || v != "b" {
		t.Errorf("Get(reused) = %q, %v", v, ok)
	}
}

func TestHandle_Encoding(t *testing.T) {
	tests := []struct {
		name      string
		slot, gen uint32
		want      string
	}{
		{"first", 1, 0, "1.0"},
		{"reused", 7, 3, "7.3"},
		{"max_slot", slotMask, genMask, "1048575.4095"},
		{"generation_wraps", 2, genMask + 1, "2.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := makeHandle(tt.slot, tt.gen)
			if h.String() != tt.want {
				t.Errorf("String() = %q, want %q", h.String(), tt.want)
			}
		})
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable[string]()
	obs := &testObserver{}
	sub := table.Subscribe(obs)

	h := table.Insert(1, "test")
	if len(obs.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(obs.events))
	}
	if obs.events[0].Type != EventCreated || obs.events[0].Handle != h || obs.events[0].Value != "test" {
		t.Fatalf("unexpected created event %+v", obs.events[0])
	}

	table.Notify(Event[string]{Type: EventReferenced, Handle: h, TypeID: 1, Refs: 1})
	if len(obs.events) != 2 || obs.events[1].Refs != 1 {
		t.Fatalf("Notify not delivered: %+v", obs.events)
	}

	table.Remove(h)
	if len(obs.events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(obs.events))
	}
	if obs.events[2].Type != EventDestroyed || obs.events[2].TypeID != 1 {
		t.Fatalf("unexpected destroyed event %+v", obs.events[2])
	}

	table.Unsubscribe(sub)
	table.Insert(1, "test2")
	if len(obs.events) != 3 {
		t.Fatal("Should not receive events after Unsubscribe")
	}
}

func TestTable_ObserverFunc(t *testing.T) {
	table := NewTable[string]()

	var seen []EventType
	record := ObserverFunc[string](func(e Event[string]) { seen = append(seen, e.Type) })
	first := table.Subscribe(record)
	table.Subscribe(record)

	table.Insert(1, "a")
	if len(seen) != 2 {
		t.Fatalf("expected both observers to run, got %v", seen)
	}

	table.Unsubscribe(first)
	table.Unsubscribe(Subscription(999))
	table.Insert(1, "b")
	if len(seen) != 3 {
		t.Fatalf("expected one observer after Unsubscribe, got %v", seen)
	}
}

func TestTable_Snapshot(t *testing.T) {
	table := NewTable[string]()

	a := table.Insert(1, "a")
	table.Insert(2, "b")
	table.Insert(1, "c")
	table.Remove(a)

	snap := table.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(snap))
	}
	if snap[0].Value != "b" || snap[0].TypeID != 2 {
		t.Fatalf("unexpected first entry %+v", snap[0])
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
}

func TestTable_Close(t *testing.T) {
	table := NewTable[string]()

	h := table.Insert(1, "a")
	table.Insert(1, "b")
	table.Close()

	if table.Len() != 0 {
		t.Fatal("Close should forget every entry")
	}
	if _, ok := table.Get(h); ok {
		t.Fatal("handles should not resolve after Close")
	}
	if h := table.Insert(1, "c"); h != 0 {
		t.Fatal("Expected Insert to fail after Close")
	}
}

func TestTable_Concurrent(t *testing.T) {
	table := NewTable[int]()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			h := table.Insert(uint32(n%3), n)
			if v, ok := table.Get(h); !ok || v != n {
				t.Errorf("Get(%s) = %d, %v", h, v, ok)
			}
			if n%2 == 0 {
				table.Remove(h)
			}
		}(i)
	}
	wg.Wait()

	if table.Len() != 50 {
		t.Errorf("expected 50 live entries, got %d", table.Len())
	}
}

func TestEventType_String(t *testing.T) {
	names := map[EventType]string{
		EventCreated:    "created",
		EventReferenced: "referenced",
		EventReleased:   "released",
		EventDestroyed:  "destroyed",
		EventType(42):   "unknown",
	}
	for et, want := range names {
		if et.String() != want {
			t.Errorf("%d.String() = %q, want %q", et, et.String(), want)
		}
	}
}
