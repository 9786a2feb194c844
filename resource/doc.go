// Package resource provides the live-instance handle table used by the type
// registry for lifecycle accounting.
//
// Every tracked value is stored under a handle together with the type ID it
// was created as. A handle packs a slot index with the slot's generation:
// slots are reused after Remove, but the generation is bumped, so stale
// handles stop resolving instead of aliasing a newer entry. Handle 0 is
// reserved and always invalid.
//
// # Handle Table
//
//	table := resource.NewTable[*Thing]()
//
//	// Track a value, get a handle
//	h := table.Insert(typeID, thing)
//
//	// Retrieve by handle, optionally checking the type
//	v, ok := table.Get(h)
//	v, ok = table.GetTyped(h, typeID)
//
//	// Stop tracking (emits EventDestroyed)
//	v, ok = table.Remove(h)
//
// # Observers
//
// Observers receive lifecycle events synchronously:
//
//	sub := table.Subscribe(resource.ObserverFunc[*Thing](func(e resource.Event[*Thing]) {
//	    log.Printf("%s %s (refs=%d)", e.Type, e.Handle, e.Refs)
//	}))
//	defer table.Unsubscribe(sub)
//
// The registry emits EventCreated and EventDestroyed through Insert/Remove
// and EventReferenced/EventReleased through Notify.
//
// # Teardown
//
// Values are never destroyed by the table. Close only stops accepting new
// entries and forgets existing ones; callers inspect Snapshot first if they
// need to report leaks.
package resource
