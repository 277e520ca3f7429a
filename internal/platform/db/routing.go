package db

import "context"

// Mode selects which physical connection pool backs the current operation.
type Mode int

const (
	// ModeWrite is the default: anything not explicitly marked as a read
	// goes to the command pool.
	ModeWrite Mode = iota
	ModeRead
)

func (m Mode) String() string {
	if m == ModeRead {
		return "READ"
	}
	return "WRITE"
}

type modeKey struct{}

// WithMode returns a context routed to the given pool. The returned context
// scopes the decision to one call chain: a nested WithMode only affects the
// contexts derived from it, so the caller's routing survives the nested call
// returning, on every exit path.
func WithMode(ctx context.Context, mode Mode) context.Context {
	if mode != ModeRead && mode != ModeWrite {
		// Permissive fallback mirroring the default: unknown modes write.
		mode = ModeWrite
	}
	return context.WithValue(ctx, modeKey{}, mode)
}

// ModeOf returns the routing mode in effect, defaulting to WRITE when the
// context carries none.
func ModeOf(ctx context.Context) Mode {
	if mode, ok := ctx.Value(modeKey{}).(Mode); ok {
		if mode == ModeRead {
			return ModeRead
		}
	}
	return ModeWrite
}
