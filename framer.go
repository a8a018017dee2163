package h2

import (
	"errors"
	"io"

	"github.com/gospider007/tools"
)

// Framer reads and writes raw HTTP/2 frames on one connection. It knows
// nothing about HPACK or stream state: decoding a header block's bytes
// into HeaderFields, and deciding what counts as a protocol violation
// above the frame-syntax level, are the connection orchestrator's job.
type Framer struct {
	r io.Reader
	w io.Writer

	maxReadFrameSize  uint32
	maxWriteFrameSize uint32

	getReadBuf func(size uint32) []byte
	readBuf    []byte
	headerBuf  [FrameHeaderLen]byte
	wbuf       []byte
}

// NewFramer wraps r/w with HTTP/2 frame encoding and decoding, starting
// both directions at the protocol default MaxFrameSize.
func NewFramer(w io.Writer, r io.Reader) *Framer {
	fr := &Framer{
		r:                 r,
		w:                 w,
		maxReadFrameSize:  MaxFrameSize,
		maxWriteFrameSize: MaxFrameSize,
	}
	fr.getReadBuf = func(size uint32) []byte {
		if cap(fr.readBuf) >= int(size) {
			return fr.readBuf[:size]
		}
		fr.readBuf = make([]byte, size)
		return fr.readBuf
	}
	return fr
}

// SetMaxReadFrameSize changes the largest payload this Framer will
// accept from the peer, mirroring a locally-advertised
// SETTINGS_MAX_FRAME_SIZE.
func (fr *Framer) SetMaxReadFrameSize(n uint32) { fr.maxReadFrameSize = n }

// SetMaxWriteFrameSize changes the largest payload this Framer will
// emit in a single frame, mirroring the peer's advertised
// SETTINGS_MAX_FRAME_SIZE.
func (fr *Framer) SetMaxWriteFrameSize(n uint32) { fr.maxWriteFrameSize = n }

// MaxWriteFrameSize reports the current per-frame payload cap for
// writes, so callers segmenting DATA/HEADERS know where to split.
func (fr *Framer) MaxWriteFrameSize() uint32 { return fr.maxWriteFrameSize }

// ReadFrame reads and decodes exactly one frame. It does not follow
// CONTINUATION frames itself; call ReadHeaderBlock for that.
func (fr *Framer) ReadFrame() (Frame, error) {
	fh, err := readFrameHeader(fr.headerBuf[:], fr.r)
	if err != nil {
		return nil, err
	}
	if fh.Length > fr.maxReadFrameSize {
		return nil, ConnectionError{Code: ErrCodeFrameSize, Reason: "frame length exceeds configured maximum"}
	}
	payload := fr.getReadBuf(fh.Length)
	if _, err := io.ReadFull(fr.r, payload); err != nil {
		return nil, tools.WrapError(err, "h2: reading frame payload")
	}
	return typeFrameParser(fh.Type)(fh, payload)
}

// headerBlockFragment is satisfied by HeadersFrame, PushPromiseFrame,
// and ContinuationFrame: anything that can carry a piece of one header
// block.
type headerBlockFragment interface {
	Frame
	HeaderBlockFragment() []byte
	HeadersEnded() bool
}

// ReadHeaderBlock concatenates first's fragment with as many
// CONTINUATION frames as needed until END_HEADERS is set, enforcing
// that every CONTINUATION belongs to the same stream and that nothing
// else arrives in between (RFC 7540 §6.10: "a HEADERS frame without the
// END_HEADERS flag set MUST be followed by a CONTINUATION frame").
// The returned byte slice is the exact header block to hand to an
// hpack.Decoder in one DecodeFull call.
func (fr *Framer) ReadHeaderBlock(first headerBlockFragment) ([]byte, error) {
	streamID := first.Header().StreamID
	block := append([]byte(nil), first.HeaderBlockFragment()...)
	for !first.HeadersEnded() {
		f, err := fr.ReadFrame()
		if err != nil {
			return nil, err
		}
		cf, ok := f.(*ContinuationFrame)
		if !ok {
			return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "expected CONTINUATION frame"}
		}
		if cf.StreamID != streamID {
			return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "CONTINUATION frame on wrong stream"}
		}
		block = append(block, cf.HeaderBlockFragment()...)
		first = cf
	}
	return block, nil
}

func (fr *Framer) startWrite(ftype FrameType, flags Flags, streamID uint32) {
	fr.wbuf = append(fr.wbuf[:0],
		0, 0, 0,
		byte(ftype),
		byte(flags),
		byte(streamID>>24), byte(streamID>>16), byte(streamID>>8), byte(streamID),
	)
}

func (fr *Framer) endWrite() error {
	length := len(fr.wbuf) - FrameHeaderLen
	if length > maxFrameSizeLimit {
		return errors.New("h2: frame payload too large to encode in a 24-bit length")
	}
	fr.wbuf[0] = byte(length >> 16)
	fr.wbuf[1] = byte(length >> 8)
	fr.wbuf[2] = byte(length)
	n, err := fr.w.Write(fr.wbuf)
	if err == nil && n != len(fr.wbuf) {
		err = io.ErrShortWrite
	}
	return tools.WrapError(err, "h2: writing frame")
}

func (fr *Framer) writeByte(v byte)       { fr.wbuf = append(fr.wbuf, v) }
func (fr *Framer) writeBytes(v []byte)    { fr.wbuf = append(fr.wbuf, v...) }
func (fr *Framer) writeUint32(v uint32) {
	fr.wbuf = append(fr.wbuf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
func (fr *Framer) writeUint16(v uint16) { fr.wbuf = append(fr.wbuf, byte(v>>8), byte(v)) }

// WriteData writes a single DATA frame. Segmenting a body larger than
// MaxWriteFrameSize (or than the flow-control window) across multiple
// calls is the caller's responsibility (Conn.SendData does it), not this one.
func (fr *Framer) WriteData(streamID uint32, endStream bool, data []byte) error {
	return fr.WriteDataPadded(streamID, endStream, data, nil)
}

func (fr *Framer) WriteDataPadded(streamID uint32, endStream bool, data, pad []byte) error {
	if len(pad) > 255 {
		return errors.New("h2: pad length too large")
	}
	var flags Flags
	if endStream {
		flags |= FlagDataEndStream
	}
	if pad != nil {
		flags |= FlagDataPadded
	}
	fr.startWrite(FrameData, flags, streamID)
	if pad != nil {
		fr.writeByte(byte(len(pad)))
	}
	fr.writeBytes(data)
	fr.writeBytes(pad)
	return fr.endWrite()
}

// HeadersFrameParam is the input to WriteHeaders: a caller-assembled,
// already-HPACK-encoded block fragment plus framing metadata.
type HeadersFrameParam struct {
	StreamID      uint32
	BlockFragment []byte
	EndStream     bool
	EndHeaders    bool
	Priority      PriorityParam
	PadLength     uint8
}

func (fr *Framer) WriteHeaders(p HeadersFrameParam) error {
	var flags Flags
	if p.PadLength != 0 {
		flags |= FlagHeadersPadded
	}
	if p.EndStream {
		flags |= FlagHeadersEndStream
	}
	if p.EndHeaders {
		flags |= FlagHeadersEndHeaders
	}
	if !p.Priority.IsZero() {
		flags |= FlagHeadersPriority
	}
	fr.startWrite(FrameHeaders, flags, p.StreamID)
	if p.PadLength != 0 {
		fr.writeByte(p.PadLength)
	}
	if !p.Priority.IsZero() {
		v := p.Priority.StreamDep
		if p.Priority.Exclusive {
			v |= 1 << 31
		}
		fr.writeUint32(v)
		fr.writeByte(p.Priority.Weight)
	}
	fr.writeBytes(p.BlockFragment)
	fr.writeBytes(padZeros[:p.PadLength])
	return fr.endWrite()
}

func (fr *Framer) WriteContinuation(streamID uint32, endHeaders bool, blockFragment []byte) error {
	var flags Flags
	if endHeaders {
		flags |= FlagContinuationEndHeaders
	}
	fr.startWrite(FrameContinuation, flags, streamID)
	fr.writeBytes(blockFragment)
	return fr.endWrite()
}

// PushPromiseParam is the input to WritePushPromise.
type PushPromiseParam struct {
	StreamID      uint32
	PromiseID     uint32
	BlockFragment []byte
	EndHeaders    bool
	PadLength     uint8
}

func (fr *Framer) WritePushPromise(p PushPromiseParam) error {
	var flags Flags
	if p.PadLength != 0 {
		flags |= FlagPushPromisePadded
	}
	if p.EndHeaders {
		flags |= FlagPushPromiseEndHeaders
	}
	fr.startWrite(FramePushPromise, flags, p.StreamID)
	if p.PadLength != 0 {
		fr.writeByte(p.PadLength)
	}
	fr.writeUint32(p.PromiseID)
	fr.writeBytes(p.BlockFragment)
	fr.writeBytes(padZeros[:p.PadLength])
	return fr.endWrite()
}

func (fr *Framer) WritePriority(streamID uint32, p PriorityParam) error {
	fr.startWrite(FramePriority, 0, streamID)
	v := p.StreamDep
	if p.Exclusive {
		v |= 1 << 31
	}
	fr.writeUint32(v)
	fr.writeByte(p.Weight)
	return fr.endWrite()
}

func (fr *Framer) WriteRSTStream(streamID uint32, code ErrCode) error {
	fr.startWrite(FrameRSTStream, 0, streamID)
	fr.writeUint32(uint32(code))
	return fr.endWrite()
}

func (fr *Framer) WriteSettings(settings ...Setting) error {
	fr.startWrite(FrameSettings, 0, 0)
	for _, s := range settings {
		fr.writeUint16(uint16(s.ID))
		fr.writeUint32(s.Val)
	}
	return fr.endWrite()
}

func (fr *Framer) WriteSettingsAck() error {
	fr.startWrite(FrameSettings, FlagSettingsAck, 0)
	return fr.endWrite()
}

func (fr *Framer) WritePing(ack bool, data [8]byte) error {
	var flags Flags
	if ack {
		flags = FlagPingAck
	}
	fr.startWrite(FramePing, flags, 0)
	fr.writeBytes(data[:])
	return fr.endWrite()
}

func (fr *Framer) WriteGoAway(lastStreamID uint32, code ErrCode, debugData []byte) error {
	fr.startWrite(FrameGoAway, 0, 0)
	fr.writeUint32(lastStreamID & (1<<31 - 1))
	fr.writeUint32(uint32(code))
	fr.writeBytes(debugData)
	return fr.endWrite()
}

func (fr *Framer) WriteWindowUpdate(streamID, increment uint32) error {
	fr.startWrite(FrameWindowUpdate, 0, streamID)
	fr.writeUint32(increment)
	return fr.endWrite()
}
