// Package signal provides callback lists whose connections can be revoked.
//
// A Connection returned by Connect stays valid until Disconnect is called
// on it or on the Signal. After that the callback is never invoked again,
// including from an Emit that is already iterating.
package signal

// Signal is a list of callbacks taking a value of type T.
//
// Signals are not safe for concurrent use; they belong to the goroutine
// that drives the UI.
type Signal[T any] struct {
	slots []*slot[T]
}

type slot[T any] struct {
	fn     func(T)
	active bool
}

// Connection is a revocable handle for a connected callback.
type Connection struct {
	revoke func()
	live   func() bool
}

// Connect adds fn to the signal and returns its connection.
func (s *Signal[T]) Connect(fn func(T)) *Connection {
	sl := &slot[T]{fn: fn, active: true}
	s.slots = append(s.slots, sl)
	return &Connection{
		revoke: func() {
			sl.active = false
			s.compact()
		},
		live: func() bool { return sl.active },
	}
}

// Emit calls every active callback with v in connection order.
func (s *Signal[T]) Emit(v T) {
	// Iterate over a snapshot so callbacks may connect or disconnect.
	slots := append([]*slot[T](nil), s.slots...)
	for _, sl := range slots {
		if sl.active {
			sl.fn(v)
		}
	}
}

// Len returns the number of active connections.
func (s *Signal[T]) Len() int {
	n := 0
	for _, sl := range s.slots {
		if sl.active {
			n++
		}
	}
	return n
}

func (s *Signal[T]) compact() {
	live := s.slots[:0]
	for _, sl := range s.slots {
		if sl.active {
			live = append(live, sl)
		}
	}
	for i := len(live); i < len(s.slots); i++ {
		s.slots[i] = nil
	}
	s.slots = live
}

// Disconnect revokes the connection. It is safe to call on a nil
// Connection and more than once.
func (c *Connection) Disconnect() {
	if c == nil || c.revoke == nil {
		return
	}
	c.revoke()
	c.revoke = nil
}

// Connected reports whether the connection has not been revoked.
func (c *Connection) Connected() bool {
	return c != nil && c.revoke != nil && c.live()
}
