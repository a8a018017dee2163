package h2

import (
	"io"
	"sort"

	"github.com/gospider007/tools"
	"github.com/nilcore/h2/hpack"
)

// EventType identifies what happened on a Conn during one Next call.
type EventType int

const (
	EventRequestHeaders EventType = iota
	EventResponseHeaders
	EventData
	EventStreamEnded
	EventStreamReset
	EventPriority
	EventSettingsChanged
	EventPing
	EventGoAway
	EventPushPromise
)

// Event is the single application-visible result of processing incoming
// frames until something worth reporting happened. Frames that are
// entirely protocol bookkeeping (a SETTINGS ack, a WINDOW_UPDATE that
// only unblocks future sends, an unknown frame type) are handled inside
// Next and never surface as an Event.
type Event struct {
	Type         EventType
	StreamID     uint32
	Fields       []hpack.HeaderField
	Data         []byte
	EndStream    bool
	Priority     PriorityParam
	ErrCode      ErrCode
	LastStreamID uint32
	DebugData    []byte
	PingData     [8]byte
	PingAck      bool
	Settings     Settings
	PromiseID    uint32
}

// Conn is one HTTP/2 connection's orchestrator: the frame-parsing loop,
// HPACK codec pair, per-stream state machines, and connection-level flow
// control all live here. It is single-threaded and cooperative by
// design — one Conn has no internal goroutines, channels, or mutexes;
// callers drive it entirely by calling Next to receive and the Send*
// methods to emit, all from one goroutine. Running many Conns
// concurrently just means running many goroutines, each with its own
// Conn, never sharing one.
type Conn struct {
	framer *Framer
	isServer bool

	enc *hpack.Encoder
	dec *hpack.Decoder

	local  Settings
	peer   Settings
	pendingLocal []pendingSettings

	connSendWindow int32
	connRecvWindow int32

	streams        map[uint32]*Stream
	nextStreamID   uint32 // next ID this endpoint will allocate
	maxPeerStreamID uint32 // highest peer-initiated stream ID admitted so far
	peerStreamSeen bool

	goAwaySent     bool
	goAwayReceived bool
	lastProcessedStreamID uint32
}

// NewConn wraps rw with HTTP/2 connection-level state. isServer selects
// which stream-ID parity this endpoint allocates (even for servers, odd
// for clients, per RFC 7540 §5.1.1).
func NewConn(rw io.ReadWriter, isServer bool) *Conn {
	local := DefaultSettings()
	peer := DefaultSettings()
	c := &Conn{
		framer:         NewFramer(rw, rw),
		isServer:       isServer,
		local:          local,
		peer:           peer,
		connSendWindow: int32(peer.InitialWindowSize),
		connRecvWindow: int32(local.InitialWindowSize),
		streams:        make(map[uint32]*Stream),
		enc:            hpack.NewEncoder(peer.HeaderTableSize),
		dec:            hpack.NewDecoder(local.HeaderTableSize),
	}
	if isServer {
		c.nextStreamID = 2
	} else {
		c.nextStreamID = 1
	}
	return c
}

// Settings returns the local settings this Conn will advertise (or has
// already advertised) to the peer; mutate the returned value's fields
// and pass it to SendSettings to change them.
func (c *Conn) Settings() Settings { return c.local }

// PeerSettings returns the most recently applied settings received from
// the peer.
func (c *Conn) PeerSettings() Settings { return c.peer }

// NextLocalStreamID reports the stream ID OpenStream will hand out the
// next time it's called, without allocating it.
func (c *Conn) NextLocalStreamID() uint32 { return c.nextStreamID }

// SendSettings writes a SETTINGS frame advertising the values in next
// that differ from the current local settings, queuing next as pending
// until the peer's SETTINGS ack arrives. c.local is updated as soon as
// the frame is written; the new HeaderTableSize reaches the HPACK decoder
// only when the matching ack is processed, since until then the peer's
// encoder may still be working to the old table size.
func (c *Conn) SendSettings(next Settings) error {
	var toSend []Setting
	if next.HeaderTableSize != c.local.HeaderTableSize {
		toSend = append(toSend, Setting{ID: SettingHeaderTableSize, Val: next.HeaderTableSize})
	}
	if next.EnablePush != c.local.EnablePush {
		v := uint32(0)
		if next.EnablePush {
			v = 1
		}
		toSend = append(toSend, Setting{ID: SettingEnablePush, Val: v})
	}
	if next.MaxConcurrentStreams != c.local.MaxConcurrentStreams {
		toSend = append(toSend, Setting{ID: SettingMaxConcurrentStreams, Val: next.MaxConcurrentStreams})
	}
	if next.InitialWindowSize != c.local.InitialWindowSize {
		toSend = append(toSend, Setting{ID: SettingInitialWindowSize, Val: next.InitialWindowSize})
	}
	if next.MaxFrameSize != c.local.MaxFrameSize {
		toSend = append(toSend, Setting{ID: SettingMaxFrameSize, Val: next.MaxFrameSize})
	}
	if next.MaxHeaderListSize != c.local.MaxHeaderListSize {
		toSend = append(toSend, Setting{ID: SettingMaxHeaderListSize, Val: next.MaxHeaderListSize})
	}
	if len(toSend) == 0 {
		return nil
	}
	if err := c.framer.WriteSettings(toSend...); err != nil {
		return err
	}
	c.pendingLocal = append(c.pendingLocal, pendingSettings{values: next})
	c.local = next
	return nil
}

// Next reads and processes incoming frames until one produces an
// application-visible Event, or an error (always a ConnectionError or
// StreamError, or an underlying I/O error from the transport) occurs.
func (c *Conn) Next() (Event, error) {
	for {
		f, err := c.framer.ReadFrame()
		if err != nil {
			return Event{}, err
		}
		ev, ok, err := c.dispatch(f)
		if err != nil {
			return Event{}, err
		}
		if ok {
			return ev, nil
		}
	}
}

func (c *Conn) dispatch(f Frame) (Event, bool, error) {
	switch fr := f.(type) {
	case *SettingsFrame:
		return c.handleSettings(fr)
	case *PingFrame:
		return c.handlePing(fr)
	case *WindowUpdateFrame:
		return c.handleWindowUpdate(fr)
	case *HeadersFrame:
		return c.handleHeaders(fr)
	case *DataFrame:
		return c.handleData(fr)
	case *RSTStreamFrame:
		return c.handleRSTStream(fr)
	case *PriorityFrame:
		return c.handlePriority(fr)
	case *GoAwayFrame:
		return c.handleGoAway(fr)
	case *PushPromiseFrame:
		return c.handlePushPromise(fr)
	case *ContinuationFrame:
		return Event{}, false, ConnectionError{Code: ErrCodeProtocol, Reason: "unexpected standalone CONTINUATION frame"}
	default: // UnknownFrame and anything else: RFC 7540 §4.1 says ignore
		return Event{}, false, nil
	}
}

func (c *Conn) handleSettings(fr *SettingsFrame) (Event, bool, error) {
	if fr.IsAck() {
		if len(c.pendingLocal) == 0 {
			return Event{}, false, ConnectionError{Code: ErrCodeProtocol, Reason: "unexpected SETTINGS ack"}
		}
		c.dec.SetMaxDynamicTableSize(c.pendingLocal[0].values.HeaderTableSize)
		c.pendingLocal = c.pendingLocal[1:]
		return Event{}, false, nil
	}
	next := c.peer
	changed := false
	err := fr.ForeachSetting(func(s Setting) error {
		before := next
		if err := next.applySetting(s.ID, s.Val); err != nil {
			return err
		}
		if before != next {
			changed = true
		}
		return nil
	})
	if err != nil {
		return Event{}, false, err
	}
	oldInitialWindow := c.peer.InitialWindowSize
	c.peer = next
	if next.InitialWindowSize != oldInitialWindow {
		delta := int64(next.InitialWindowSize) - int64(oldInitialWindow)
		for _, s := range c.streams {
			if err := s.adjustSendWindow(int32(delta)); err != nil {
				return Event{}, false, err
			}
		}
	}
	c.enc.SetMaxDynamicTableSize(next.HeaderTableSize)
	c.framer.SetMaxWriteFrameSize(next.MaxFrameSize)
	if err := c.framer.WriteSettingsAck(); err != nil {
		return Event{}, false, err
	}
	if !changed {
		return Event{}, false, nil
	}
	return Event{Type: EventSettingsChanged, Settings: c.peer}, true, nil
}

func (c *Conn) handlePing(fr *PingFrame) (Event, bool, error) {
	if fr.IsAck() {
		return Event{Type: EventPing, PingData: fr.Data, PingAck: true}, true, nil
	}
	if err := c.framer.WritePing(true, fr.Data); err != nil {
		return Event{}, false, err
	}
	return Event{}, false, nil
}

func (c *Conn) handleWindowUpdate(fr *WindowUpdateFrame) (Event, bool, error) {
	if fr.Increment == 0 {
		// spec resolution: a zero increment is a PROTOCOL_ERROR at the
		// connection level even when targeting an idle stream, since an
		// idle stream has no window to speak of yet and the frame is
		// therefore malformed rather than merely inapplicable.
		if fr.StreamID == 0 {
			return Event{}, false, ConnectionError{Code: ErrCodeProtocol, Reason: "WINDOW_UPDATE with zero increment on connection"}
		}
		s, ok := c.streams[fr.StreamID]
		if !ok || s.state == StreamIdle {
			return Event{}, false, ConnectionError{Code: ErrCodeProtocol, Reason: "WINDOW_UPDATE with zero increment on idle stream"}
		}
		return Event{}, false, StreamError{StreamID: fr.StreamID, Code: ErrCodeProtocol, Reason: "zero increment"}
	}
	if fr.StreamID == 0 {
		next := int64(c.connSendWindow) + int64(fr.Increment)
		if next > 1<<31-1 {
			return Event{}, false, ConnectionError{Code: ErrCodeFlowControl, Reason: "connection send window overflow"}
		}
		c.connSendWindow = int32(next)
		return Event{}, false, nil
	}
	s, ok := c.streams[fr.StreamID]
	if !ok || s.state == StreamIdle {
		// Streams are never removed from c.streams, so a missing one is idle.
		return Event{}, false, ConnectionError{Code: ErrCodeProtocol, Reason: "WINDOW_UPDATE on idle stream"}
	}
	if err := s.adjustSendWindow(int32(fr.Increment)); err != nil {
		return Event{}, false, err
	}
	return Event{}, false, nil
}

func (c *Conn) handlePriority(fr *PriorityFrame) (Event, bool, error) {
	return Event{Type: EventPriority, StreamID: fr.StreamID, Priority: fr.PriorityParam}, true, nil
}

func (c *Conn) handleGoAway(fr *GoAwayFrame) (Event, bool, error) {
	c.goAwayReceived = true
	return Event{
		Type:         EventGoAway,
		ErrCode:      fr.ErrCode,
		LastStreamID: fr.LastStreamID,
		DebugData:    fr.DebugData(),
	}, true, nil
}

func (c *Conn) handleRSTStream(fr *RSTStreamFrame) (Event, bool, error) {
	s := c.streams[fr.StreamID]
	if s == nil {
		s = newStream(fr.StreamID, int32(c.peer.InitialWindowSize), int32(c.local.InitialWindowSize))
		c.streams[fr.StreamID] = s
	}
	s.Reset(true, fr.ErrCode)
	return Event{Type: EventStreamReset, StreamID: fr.StreamID, ErrCode: fr.ErrCode}, true, nil
}

func (c *Conn) handleHeaders(fr *HeadersFrame) (Event, bool, error) {
	block, err := c.framer.ReadHeaderBlock(fr)
	if err != nil {
		return Event{}, false, err
	}
	fields, err := c.dec.DecodeFull(block)
	if err != nil {
		// Any HPACK failure invalidates the whole connection: the two
		// dynamic tables have now diverged and nothing further on this
		// connection can be trusted.
		return Event{}, false, ConnectionError{Code: ErrCodeCompression, Reason: tools.WrapError(err, "HPACK decode failed").Error()}
	}

	// A HEADERS frame either continues a stream this endpoint already
	// opened (a response, or trailers on either side of an exchange we
	// already know about) or opens a fresh peer-initiated stream (a
	// request). Only the latter goes through parity/monotonicity
	// gatekeeping — this endpoint's own stream IDs never need it.
	s, existed := c.streams[fr.StreamID]
	pseudo := responsePseudoHeaders
	evType := EventResponseHeaders
	if !existed {
		var err error
		s, err = c.admitPeerStream(fr.StreamID)
		if err != nil {
			return Event{}, false, err
		}
		pseudo = requestPseudoHeaders
		evType = EventRequestHeaders
	}
	endStream := fr.StreamEnded()
	if err := s.RecvHeaders(endStream); err != nil {
		return Event{}, false, err
	}
	if peerInitiated := (fr.StreamID%2 == 1) == c.isServer; peerInitiated && fr.StreamID > c.lastProcessedStreamID {
		c.lastProcessedStreamID = fr.StreamID
	}
	if err := ValidateHeaderBlock(fr.StreamID, fields, pseudo); err != nil {
		return Event{}, false, err
	}

	return Event{Type: evType, StreamID: fr.StreamID, Fields: fields, EndStream: endStream}, true, nil
}

// handlePushPromise implements spec.md §4.7's acceptance rules: a
// PUSH_PROMISE is only ever legal arriving at a client (never a server),
// only while the client's own local ENABLE_PUSH is 1, only naming a
// parent stream that is open or half-closed (remote), and only a
// promised stream ID that is still idle. The header block is decoded
// unconditionally first regardless of how those checks come out — it
// advances the shared HPACK dynamic table, and skipping that on a
// frame we're about to reject would desynchronize it from the peer's
// encoder for every subsequent frame on the connection.
func (c *Conn) handlePushPromise(fr *PushPromiseFrame) (Event, bool, error) {
	block, err := c.framer.ReadHeaderBlock(fr)
	if err != nil {
		return Event{}, false, err
	}
	fields, err := c.dec.DecodeFull(block)
	if err != nil {
		return Event{}, false, ConnectionError{Code: ErrCodeCompression, Reason: tools.WrapError(err, "HPACK decode failed").Error()}
	}

	if c.isServer {
		return Event{}, false, ConnectionError{Code: ErrCodeProtocol, Reason: "server received a PUSH_PROMISE"}
	}
	if !c.local.EnablePush {
		return Event{}, false, ConnectionError{Code: ErrCodeProtocol, Reason: "PUSH_PROMISE received with local ENABLE_PUSH=0"}
	}
	parent, ok := c.streams[fr.StreamID]
	if !ok || (parent.State() != StreamOpen && parent.State() != StreamHalfClosedRemote) {
		return Event{}, false, ConnectionError{Code: ErrCodeProtocol, Reason: "PUSH_PROMISE on a stream that is not open or half-closed (remote)"}
	}
	if existing, ok := c.streams[fr.PromiseID]; ok && existing.State() != StreamIdle {
		return Event{}, false, ConnectionError{Code: ErrCodeProtocol, Reason: "PUSH_PROMISE named a promised stream that is not idle"}
	}

	promised := newStream(fr.PromiseID, int32(c.peer.InitialWindowSize), int32(c.local.InitialWindowSize))
	if err := promised.ReserveRemote(); err != nil {
		return Event{}, false, err
	}
	c.streams[fr.PromiseID] = promised
	if err := ValidateHeaderBlock(fr.PromiseID, fields, requestPseudoHeaders); err != nil {
		return Event{}, false, err
	}
	return Event{Type: EventPushPromise, StreamID: fr.StreamID, PromiseID: fr.PromiseID, Fields: fields}, true, nil
}

func (c *Conn) handleData(fr *DataFrame) (Event, bool, error) {
	s, ok := c.streams[fr.StreamID]
	if !ok {
		return Event{}, false, ConnectionError{Code: ErrCodeProtocol, Reason: "DATA frame on unopened stream"}
	}
	n := int32(len(fr.Data()))
	if n > c.connRecvWindow || n > s.recvWindow {
		return Event{}, false, ConnectionError{Code: ErrCodeFlowControl, Reason: "DATA frame exceeds advertised receive window"}
	}
	c.connRecvWindow -= n
	s.recvWindow -= n
	endStream := fr.StreamEnded()
	if err := s.RecvData(endStream); err != nil {
		return Event{}, false, err
	}
	return Event{Type: EventData, StreamID: fr.StreamID, Data: fr.Data(), EndStream: endStream}, true, nil
}

// admitPeerStream validates stream-ID gatekeeping (RFC 7540 §5.1.1:
// peer-initiated IDs must use the parity opposite this endpoint's own
// allocations and must strictly increase) and returns the Stream,
// creating it in the idle state on first sight.
func (c *Conn) admitPeerStream(id uint32) (*Stream, error) {
	wantOdd := c.isServer // server's peer (client) uses odd IDs
	isOdd := id%2 == 1
	if isOdd != wantOdd {
		return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "peer used a stream ID of the wrong parity"}
	}
	if s, ok := c.streams[id]; ok {
		return s, nil
	}
	if c.peerStreamSeen && id <= c.maxPeerStreamID {
		return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "peer reused or decreased a stream ID"}
	}
	c.peerStreamSeen = true
	c.maxPeerStreamID = id
	s := newStream(id, int32(c.peer.InitialWindowSize), int32(c.local.InitialWindowSize))
	c.streams[id] = s
	return s, nil
}

// OpenStream allocates the next stream ID this endpoint controls (odd
// for a client, even for a server) and returns it in the idle state.
func (c *Conn) OpenStream() (*Stream, error) {
	if c.goAwaySent {
		return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "cannot open a stream after sending GOAWAY"}
	}
	id := c.nextStreamID
	c.nextStreamID += 2
	s := newStream(id, int32(c.peer.InitialWindowSize), int32(c.local.InitialWindowSize))
	c.streams[id] = s
	return s, nil
}

// SendHeaders HPACK-encodes fields and writes them as a HEADERS frame,
// followed by as many CONTINUATION frames as needed to stay within the
// peer's advertised MaxFrameSize.
func (c *Conn) SendHeaders(streamID uint32, fields []hpack.HeaderField, endStream bool) error {
	s, ok := c.streams[streamID]
	if !ok {
		return ConnectionError{Code: ErrCodeInternal, Reason: "SendHeaders on an unknown stream"}
	}
	if err := s.SendHeaders(endStream); err != nil {
		return err
	}
	block := c.enc.WriteFields(nil, fields)
	return c.writeHeaderBlock(streamID, block, endStream)
}

func (c *Conn) writeHeaderBlock(streamID uint32, block []byte, endStream bool) error {
	maxSize := int(c.framer.MaxWriteFrameSize())
	first := block
	rest := []byte(nil)
	if len(first) > maxSize {
		first, rest = block[:maxSize], block[maxSize:]
	}
	if err := c.framer.WriteHeaders(HeadersFrameParam{
		StreamID:      streamID,
		BlockFragment: first,
		EndStream:     endStream,
		EndHeaders:    len(rest) == 0,
	}); err != nil {
		return err
	}
	for len(rest) > 0 {
		chunk := rest
		if len(chunk) > maxSize {
			chunk = rest[:maxSize]
		}
		rest = rest[len(chunk):]
		if err := c.framer.WriteContinuation(streamID, len(rest) == 0, chunk); err != nil {
			return err
		}
	}
	return nil
}

// SendData writes data as one or more DATA frames, splitting to respect
// both MaxWriteFrameSize and the smaller of the connection's and the
// stream's available send window. It never sends a partial amount and
// calls it done: if the window can't cover all of data right now, it
// sends nothing and returns ErrBlocked, leaving the caller to retry
// after a WINDOW_UPDATE is observed via Next.
func (c *Conn) SendData(streamID uint32, data []byte, endStream bool) error {
	s, ok := c.streams[streamID]
	if !ok {
		return ConnectionError{Code: ErrCodeInternal, Reason: "SendData on an unknown stream"}
	}
	need := int32(len(data))
	if need > c.connSendWindow || need > s.sendWindow {
		return ErrBlocked
	}
	if err := s.SendData(endStream); err != nil {
		return err
	}
	maxSize := int(c.framer.MaxWriteFrameSize())
	remaining := data
	for {
		chunk := remaining
		last := true
		if len(chunk) > maxSize {
			chunk = remaining[:maxSize]
			last = false
		}
		if err := c.framer.WriteData(streamID, last && endStream, chunk); err != nil {
			return err
		}
		c.connSendWindow -= int32(len(chunk))
		s.sendWindow -= int32(len(chunk))
		remaining = remaining[len(chunk):]
		if last {
			break
		}
	}
	return nil
}

// SendPriority advises the peer of a stream's relative priority. It
// records the dependency/weight on the local Stream too (when one
// exists), purely as a bookkeeping echo — spec.md's stream model does
// not implement a priority tree, so nothing reads these fields back to
// change scheduling.
func (c *Conn) SendPriority(streamID uint32, p PriorityParam) error {
	if s, ok := c.streams[streamID]; ok {
		s.weight = p.Weight
		s.streamDep = p.StreamDep
		s.exclusive = p.Exclusive
	}
	return c.framer.WritePriority(streamID, p)
}

// SendPushPromise reserves a new server-initiated stream for a response
// this connection intends to push, and sends PUSH_PROMISE announcing it
// on associatedStreamID. Only a server may call this, and only while the
// peer has advertised ENABLE_PUSH=1; associatedStreamID must currently be
// open or half-closed (remote), mirroring the acceptance rules
// handlePushPromise enforces on the receiving end.
func (c *Conn) SendPushPromise(associatedStreamID uint32, fields []hpack.HeaderField) (*Stream, error) {
	if !c.isServer {
		return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "only a server may send PUSH_PROMISE"}
	}
	if !c.peer.EnablePush {
		return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "peer has disabled push via ENABLE_PUSH=0"}
	}
	parent, ok := c.streams[associatedStreamID]
	if !ok || (parent.State() != StreamOpen && parent.State() != StreamHalfClosedRemote) {
		return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "PUSH_PROMISE on a stream that is not open or half-closed (remote)"}
	}

	promised, err := c.OpenStream()
	if err != nil {
		return nil, err
	}
	if err := promised.ReserveLocal(); err != nil {
		return nil, err
	}
	block := c.enc.WriteFields(nil, fields)
	if err := c.writePushPromiseBlock(associatedStreamID, promised.ID(), block); err != nil {
		return nil, err
	}
	return promised, nil
}

func (c *Conn) writePushPromiseBlock(associatedStreamID, promisedID uint32, block []byte) error {
	maxSize := int(c.framer.MaxWriteFrameSize())
	first := block
	rest := []byte(nil)
	if len(first) > maxSize {
		first, rest = block[:maxSize], block[maxSize:]
	}
	if err := c.framer.WritePushPromise(PushPromiseParam{
		StreamID:      associatedStreamID,
		PromiseID:     promisedID,
		BlockFragment: first,
		EndHeaders:    len(rest) == 0,
	}); err != nil {
		return err
	}
	for len(rest) > 0 {
		chunk := rest
		if len(chunk) > maxSize {
			chunk = rest[:maxSize]
		}
		rest = rest[len(chunk):]
		if err := c.framer.WriteContinuation(associatedStreamID, len(rest) == 0, chunk); err != nil {
			return err
		}
	}
	return nil
}

// SendWindowUpdate grants the peer additional room to send, on the
// connection (streamID 0) or on one stream.
func (c *Conn) SendWindowUpdate(streamID, increment uint32) error {
	if streamID == 0 {
		c.connRecvWindow += int32(increment)
	} else if s, ok := c.streams[streamID]; ok {
		if err := s.adjustRecvWindow(int32(increment)); err != nil {
			return err
		}
	}
	return c.framer.WriteWindowUpdate(streamID, increment)
}

// CancelStream sends RST_STREAM and moves the stream to closed.
func (c *Conn) CancelStream(streamID uint32, code ErrCode) error {
	s, ok := c.streams[streamID]
	if !ok {
		return ConnectionError{Code: ErrCodeInternal, Reason: "CancelStream on an unknown stream"}
	}
	s.Reset(false, code)
	return c.framer.WriteRSTStream(streamID, code)
}

// Ping sends a PING frame carrying data; the peer's echoed PingAck
// Event will carry the same 8 bytes.
func (c *Conn) Ping(data [8]byte) error {
	return c.framer.WritePing(false, data)
}

// Shutdown sends GOAWAY advertising the highest peer-initiated stream ID
// whose HEADERS were already processed, giving the peer a graceful boundary for in-flight streams
// instead of an abrupt disconnect.
func (c *Conn) Shutdown(code ErrCode, debugData []byte) error {
	c.goAwaySent = true
	return c.framer.WriteGoAway(c.lastProcessedStreamID, code, debugData)
}

// openStreamIDs returns the IDs of all streams not yet closed, sorted,
// primarily useful for tests and diagnostics.
func (c *Conn) openStreamIDs() []uint32 {
	var ids []uint32
	for id, s := range c.streams {
		if s.state != StreamClosed {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
