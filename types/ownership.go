package types

// Ownership selects how an instance's lifetime is managed.
type Ownership uint8

const (
	// Shared instances are reference counted. Destroy only frees once every
	// Ref has been matched.
	Shared Ownership = iota
	// Owned instances have a single owner. Ref is a no-op and the first
	// Destroy frees.
	Owned
)

func (o Ownership) String() string {
	switch o {
	case Shared:
		return "shared"
	case Owned:
		return "owned"
	default:
		return "unknown"
	}
}

// OwnershipOf maps registration flags to an ownership mode.
func OwnershipOf(f Flags) Ownership {
	if f.Has(NoRef) {
		return Owned
	}
	return Shared
}

// refPolicy is chosen once per type at registration.
type refPolicy interface {
	// ref records an extra reference and returns the new count.
	ref(a *allocation) int64
	// release drops one reference. It reports the remaining count and
	// whether the caller now owns teardown.
	release(a *allocation) (int64, bool)
}

func policyFor(o Ownership) refPolicy {
	if o == Owned {
		return ownedPolicy{}
	}
	return sharedPolicy{}
}

type sharedPolicy struct{}

func (sharedPolicy) ref(a *allocation) int64 {
	return a.refs.Add(1)
}

func (sharedPolicy) release(a *allocation) (int64, bool) {
	for {
		n := a.refs.Load()
		if n <= 0 {
			return 0, true
		}
		if a.refs.CompareAndSwap(n, n-1) {
			return n - 1, false
		}
	}
}

type ownedPolicy struct{}

func (ownedPolicy) ref(*allocation) int64 {
	return 0
}

func (ownedPolicy) release(*allocation) (int64, bool) {
	return 0, true
}
