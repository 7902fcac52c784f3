package ws

import "sync/atomic"

// ConnState represents the current connection state of a websocket.
type ConnState int32

// Connection states for websocket lifecycle management.
const (
	// StateDisconnected indicates the websocket is not connected.
	StateDisconnected ConnState = iota
	// StateConnecting indicates the socket is dialing or running its connect hook.
	StateConnecting
	// StateAuthenticated indicates the server accepted the auth frame.
	StateAuthenticated
	// StateSubscribed indicates at least one subscription was acknowledged.
	StateSubscribed
	// StateStreaming indicates data frames are flowing.
	StateStreaming
	// StateClosed indicates the websocket has been permanently closed.
	StateClosed
)

// String returns the string representation of the connection state.
func (s ConnState) String() string {
	if s < StateDisconnected || s > StateClosed {
		return "unknown"
	}
	return [...]string{
		"disconnected",
		"connecting",
		"authenticated",
		"subscribed",
		"streaming",
		"closed",
	}[s]
}

// Live reports whether the state has an open socket.
func (s ConnState) Live() bool {
	return s >= StateConnecting && s < StateClosed
}

// State provides thread-safe atomic access to a ConnState value.
type State struct {
	state atomic.Int32
}

// Load returns the current connection state.
func (s *State) Load() ConnState {
	return ConnState(s.state.Load())
}

// Store sets the connection state to the given value.
func (s *State) Store(state ConnState) {
	s.state.Store(int32(state))
}

// CompareAndSwap atomically compares the current state with old and swaps to new if equal.
// It returns true if the swap was performed.
func (s *State) CompareAndSwap(old, new ConnState) bool {
	return s.state.CompareAndSwap(int32(old), int32(new))
}

// Advance moves forward to next only if the socket is live and behind next.
func (s *State) Advance(next ConnState) bool {
	for {
		cur := s.Load()
		if !cur.Live() || cur >= next {
			return false
		}
		if s.CompareAndSwap(cur, next) {
			return true
		}
	}
}
