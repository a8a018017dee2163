package h2

// StreamState is one node of the RFC 7540 §5.1 per-stream state machine.
type StreamState int

const (
	StreamIdle StreamState = iota
	StreamReservedLocal
	StreamReservedRemote
	StreamOpen
	StreamHalfClosedLocal
	StreamHalfClosedRemote
	StreamClosed
)

func (s StreamState) String() string {
	switch s {
	case StreamIdle:
		return "idle"
	case StreamReservedLocal:
		return "reserved (local)"
	case StreamReservedRemote:
		return "reserved (remote)"
	case StreamOpen:
		return "open"
	case StreamHalfClosedLocal:
		return "half-closed (local)"
	case StreamHalfClosedRemote:
		return "half-closed (remote)"
	case StreamClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stream is one HTTP/2 stream's state and flow-control accounting. It
// has no goroutine or lock of its own: the connection orchestrator that
// owns it drives every transition from its own single-threaded loop.
type Stream struct {
	id    uint32
	state StreamState

	// sendWindow/recvWindow are signed per RFC 7540 §6.9.1: a SETTINGS
	// change applied after data has already been counted against the
	// old window can legitimately drive either side negative, and no
	// further DATA may be sent until enough WINDOW_UPDATEs bring it back
	// above zero.
	sendWindow int32
	recvWindow int32

	weight    uint8
	streamDep uint32
	exclusive bool

	resetByPeer bool
	resetCode   ErrCode
}

// newStream creates a stream in the idle state with both windows seeded
// from the connection's current initial-window settings.
func newStream(id uint32, initialSendWindow, initialRecvWindow int32) *Stream {
	return &Stream{id: id, state: StreamIdle, sendWindow: initialSendWindow, recvWindow: initialRecvWindow}
}

func (s *Stream) ID() uint32          { return s.id }
func (s *Stream) State() StreamState  { return s.state }
func (s *Stream) SendWindow() int32   { return s.sendWindow }
func (s *Stream) RecvWindow() int32   { return s.recvWindow }

// adjustSendWindow applies a signed delta (positive for WINDOW_UPDATE,
// positive or negative for a change in SETTINGS_INITIAL_WINDOW_SIZE) and
// reports a StreamError if it overflows the RFC 7540 §6.9.1 31-bit
// signed range.
func (s *Stream) adjustSendWindow(delta int32) error {
	next := int64(s.sendWindow) + int64(delta)
	if next > (1<<31 - 1) {
		return StreamError{StreamID: s.id, Code: ErrCodeFlowControl, Reason: "send window overflowed 2^31-1"}
	}
	s.sendWindow = int32(next)
	return nil
}

// adjustRecvWindow mirrors adjustSendWindow for the receive side,
// applied when this endpoint sends a WINDOW_UPDATE or consumes DATA.
func (s *Stream) adjustRecvWindow(delta int32) error {
	next := int64(s.recvWindow) + int64(delta)
	if next > (1<<31 - 1) {
		return StreamError{StreamID: s.id, Code: ErrCodeFlowControl, Reason: "receive window overflowed 2^31-1"}
	}
	s.recvWindow = int32(next)
	return nil
}

// transition validates and applies one state machine edge. Every public
// event method below funnels through this so the table of legal moves
// lives in exactly one place.
func (s *Stream) transition(to StreamState, event string) error {
	if !streamTransitionAllowed(s.state, to) {
		return StreamError{
			StreamID: s.id,
			Code:     ErrCodeStreamClosed,
			Reason:   "illegal " + event + " while stream is " + s.state.String(),
		}
	}
	s.state = to
	return nil
}

func streamTransitionAllowed(from, to StreamState) bool {
	if from == to {
		// PRIORITY, WINDOW_UPDATE, and interim DATA/HEADERS frames that
		// don't carry END_STREAM all re-enter the same state.
		return true
	}
	switch from {
	case StreamIdle:
		return to == StreamOpen || to == StreamReservedLocal || to == StreamReservedRemote || to == StreamClosed
	case StreamReservedLocal:
		return to == StreamHalfClosedRemote || to == StreamClosed
	case StreamReservedRemote:
		return to == StreamHalfClosedLocal || to == StreamClosed
	case StreamOpen:
		return to == StreamHalfClosedLocal || to == StreamHalfClosedRemote || to == StreamClosed
	case StreamHalfClosedLocal:
		return to == StreamClosed
	case StreamHalfClosedRemote:
		return to == StreamClosed
	case StreamClosed:
		return false
	default:
		return false
	}
}

// RecvHeaders applies the effect of receiving a HEADERS frame that opens
// or continues the request/response exchange. endStream reports whether
// that HEADERS frame (or the CONTINUATION sequence it started) carried
// END_STREAM.
func (s *Stream) RecvHeaders(endStream bool) error {
	switch s.state {
	case StreamIdle:
		if err := s.transition(StreamOpen, "recv HEADERS"); err != nil {
			return err
		}
	case StreamReservedRemote:
		if err := s.transition(StreamHalfClosedLocal, "recv HEADERS"); err != nil {
			return err
		}
	case StreamOpen, StreamHalfClosedLocal:
		// trailers on an already-open stream; state only moves on
		// END_STREAM, handled below.
	default:
		return StreamError{StreamID: s.id, Code: ErrCodeStreamClosed, Reason: "unexpected HEADERS while stream is " + s.state.String()}
	}
	if endStream {
		return s.recvEndStream()
	}
	return nil
}

// SendHeaders is RecvHeaders' mirror for the sending side.
func (s *Stream) SendHeaders(endStream bool) error {
	switch s.state {
	case StreamIdle:
		if err := s.transition(StreamOpen, "send HEADERS"); err != nil {
			return err
		}
	case StreamReservedLocal:
		if err := s.transition(StreamHalfClosedRemote, "send HEADERS"); err != nil {
			return err
		}
	case StreamOpen, StreamHalfClosedRemote:
	default:
		return StreamError{StreamID: s.id, Code: ErrCodeStreamClosed, Reason: "unexpected HEADERS send while stream is " + s.state.String()}
	}
	if endStream {
		return s.sendEndStream()
	}
	return nil
}

// RecvData applies receiving a DATA frame; endStream is its END_STREAM
// flag.
func (s *Stream) RecvData(endStream bool) error {
	switch s.state {
	case StreamOpen, StreamHalfClosedLocal:
	default:
		return StreamError{StreamID: s.id, Code: ErrCodeStreamClosed, Reason: "unexpected DATA while stream is " + s.state.String()}
	}
	if endStream {
		return s.recvEndStream()
	}
	return nil
}

// SendData is RecvData's mirror for the sending side.
func (s *Stream) SendData(endStream bool) error {
	switch s.state {
	case StreamOpen, StreamHalfClosedRemote:
	default:
		return StreamError{StreamID: s.id, Code: ErrCodeStreamClosed, Reason: "unexpected DATA send while stream is " + s.state.String()}
	}
	if endStream {
		return s.sendEndStream()
	}
	return nil
}

func (s *Stream) recvEndStream() error {
	switch s.state {
	case StreamOpen:
		return s.transition(StreamHalfClosedRemote, "recv END_STREAM")
	case StreamHalfClosedLocal:
		return s.transition(StreamClosed, "recv END_STREAM")
	default:
		return StreamError{StreamID: s.id, Code: ErrCodeStreamClosed, Reason: "unexpected END_STREAM while stream is " + s.state.String()}
	}
}

func (s *Stream) sendEndStream() error {
	switch s.state {
	case StreamOpen:
		return s.transition(StreamHalfClosedLocal, "send END_STREAM")
	case StreamHalfClosedRemote:
		return s.transition(StreamClosed, "send END_STREAM")
	default:
		return StreamError{StreamID: s.id, Code: ErrCodeStreamClosed, Reason: "unexpected END_STREAM send while stream is " + s.state.String()}
	}
}

// ReserveLocal moves an idle stream to reserved (local), the effect of
// this endpoint sending a PUSH_PROMISE.
func (s *Stream) ReserveLocal() error { return s.transition(StreamReservedLocal, "send PUSH_PROMISE") }

// ReserveRemote moves an idle stream to reserved (remote), the effect of
// receiving a PUSH_PROMISE naming it.
func (s *Stream) ReserveRemote() error {
	return s.transition(StreamReservedRemote, "recv PUSH_PROMISE")
}

// Reset moves the stream straight to closed, regardless of its current
// state, recording who asked for it and why. RST_STREAM is legal from
// any non-idle state per RFC 7540 §6.4.
func (s *Stream) Reset(byPeer bool, code ErrCode) {
	s.state = StreamClosed
	s.resetByPeer = byPeer
	s.resetCode = code
}

func (s *Stream) ResetByPeer() (bool, ErrCode) { return s.resetByPeer, s.resetCode }
