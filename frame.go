package h2

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gospider007/tools"
)

// FrameHeaderLen is the fixed 9-byte frame header, RFC 7540 §4.1.
const FrameHeaderLen = 9

// MaxFrameSize is the largest payload length any HTTP/2 frame may carry
// without a peer having raised it via SETTINGS_MAX_FRAME_SIZE (RFC 7540
// §4.2's default and floor).
const MaxFrameSize = 1 << 14

// maxFrameSizeLimit is the protocol's hard ceiling: a 24-bit length
// field simply cannot express more than this, regardless of settings.
const maxFrameSizeLimit = 1<<24 - 1

var padZeros = make([]byte, 255)

// FrameType is the RFC 7540 §11.2 one-byte frame type tag.
type FrameType uint8

const (
	FrameData         FrameType = 0x0
	FrameHeaders      FrameType = 0x1
	FramePriority     FrameType = 0x2
	FrameRSTStream    FrameType = 0x3
	FrameSettings     FrameType = 0x4
	FramePushPromise  FrameType = 0x5
	FramePing         FrameType = 0x6
	FrameGoAway       FrameType = 0x7
	FrameWindowUpdate FrameType = 0x8
	FrameContinuation FrameType = 0x9
)

func (t FrameType) String() string {
	switch t {
	case FrameData:
		return "DATA"
	case FrameHeaders:
		return "HEADERS"
	case FramePriority:
		return "PRIORITY"
	case FrameRSTStream:
		return "RST_STREAM"
	case FrameSettings:
		return "SETTINGS"
	case FramePushPromise:
		return "PUSH_PROMISE"
	case FramePing:
		return "PING"
	case FrameGoAway:
		return "GOAWAY"
	case FrameWindowUpdate:
		return "WINDOW_UPDATE"
	case FrameContinuation:
		return "CONTINUATION"
	default:
		return fmt.Sprintf("UNKNOWN_FRAME_TYPE_%d", uint8(t))
	}
}

// Flags is the RFC 7540 §4.1 one-byte flags field; its bits mean
// different things per frame type.
type Flags uint8

func (f Flags) Has(v Flags) bool { return f&v == v }

const (
	FlagDataEndStream Flags = 0x1
	FlagDataPadded    Flags = 0x8

	FlagHeadersEndStream  Flags = 0x1
	FlagHeadersEndHeaders Flags = 0x4
	FlagHeadersPadded     Flags = 0x8
	FlagHeadersPriority   Flags = 0x20

	FlagSettingsAck Flags = 0x1

	FlagPingAck Flags = 0x1

	FlagContinuationEndHeaders Flags = 0x4

	FlagPushPromiseEndHeaders Flags = 0x4
	FlagPushPromisePadded     Flags = 0x8
)

// FrameHeader is the decoded form of a frame's fixed 9-byte header.
type FrameHeader struct {
	Length   uint32
	Type     FrameType
	Flags    Flags
	StreamID uint32
}

func readFrameHeader(buf []byte, r io.Reader) (FrameHeader, error) {
	if _, err := io.ReadFull(r, buf[:FrameHeaderLen]); err != nil {
		return FrameHeader{}, err
	}
	return FrameHeader{
		Length:   uint32(buf[0])<<16 | uint32(buf[1])<<8 | uint32(buf[2]),
		Type:     FrameType(buf[3]),
		Flags:    Flags(buf[4]),
		StreamID: binary.BigEndian.Uint32(buf[5:9]) & (1<<31 - 1),
	}, nil
}

// frameParser decodes a frame's payload (the header is already parsed)
// into its typed form.
type frameParser func(fh FrameHeader, payload []byte) (Frame, error)

var frameParsers = map[FrameType]frameParser{
	FrameData:         parseDataFrame,
	FrameHeaders:      parseHeadersFrame,
	FramePriority:     parsePriorityFrame,
	FrameRSTStream:    parseRSTStreamFrame,
	FrameSettings:     parseSettingsFrame,
	FramePushPromise:  parsePushPromiseFrame,
	FramePing:         parsePingFrame,
	FrameGoAway:       parseGoAwayFrame,
	FrameWindowUpdate: parseWindowUpdateFrame,
	FrameContinuation: parseContinuationFrame,
}

func typeFrameParser(t FrameType) frameParser {
	if p := frameParsers[t]; p != nil {
		return p
	}
	return parseUnknownFrame
}

// Frame is the common interface every decoded frame type satisfies.
type Frame interface {
	Header() FrameHeader
}

// DataFrame carries request or response body bytes, RFC 7540 §6.1.
type DataFrame struct {
	FrameHeader
	data []byte
}

func (f *DataFrame) Header() FrameHeader { return f.FrameHeader }
func (f *DataFrame) Data() []byte        { return f.data }
func (f *DataFrame) StreamEnded() bool   { return f.Flags.Has(FlagDataEndStream) }

func parseDataFrame(fh FrameHeader, payload []byte) (Frame, error) {
	if fh.StreamID == 0 {
		return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "DATA frame with stream ID 0"}
	}
	f := &DataFrame{FrameHeader: fh}
	var padLen byte
	if fh.Flags.Has(FlagDataPadded) {
		var err error
		payload, padLen, err = readPadLength(payload)
		if err != nil {
			return nil, err
		}
	}
	if int(padLen) > len(payload) {
		return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "DATA pad length exceeds payload"}
	}
	f.data = payload[:len(payload)-int(padLen)]
	return f, nil
}

// HeadersFrame opens a stream and carries the first fragment (possibly
// all) of a header block, RFC 7540 §6.2.
type HeadersFrame struct {
	FrameHeader
	Priority      PriorityParam
	headerFragBuf []byte
}

func (f *HeadersFrame) Header() FrameHeader        { return f.FrameHeader }
func (f *HeadersFrame) HeaderBlockFragment() []byte { return f.headerFragBuf }
func (f *HeadersFrame) HeadersEnded() bool          { return f.Flags.Has(FlagHeadersEndHeaders) }
func (f *HeadersFrame) StreamEnded() bool           { return f.Flags.Has(FlagHeadersEndStream) }

func parseHeadersFrame(fh FrameHeader, p []byte) (Frame, error) {
	if fh.StreamID == 0 {
		return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "HEADERS frame with stream ID 0"}
	}
	hf := &HeadersFrame{FrameHeader: fh}
	var err error
	var padLen byte
	if fh.Flags.Has(FlagHeadersPadded) {
		if p, padLen, err = readPadLength(p); err != nil {
			return nil, err
		}
	}
	if fh.Flags.Has(FlagHeadersPriority) {
		var v uint32
		if p, v, err = readUint32(p); err != nil {
			return nil, err
		}
		var weight byte
		if p, weight, err = readByte(p); err != nil {
			return nil, err
		}
		hf.Priority.StreamDep = v & 0x7fffffff
		hf.Priority.Exclusive = v != hf.Priority.StreamDep
		hf.Priority.Weight = weight
	}
	if int(padLen) > len(p) {
		return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "HEADERS pad length exceeds payload"}
	}
	hf.headerFragBuf = p[:len(p)-int(padLen)]
	return hf, nil
}

// ContinuationFrame carries a subsequent fragment of a header block
// begun by a HEADERS or PUSH_PROMISE frame, RFC 7540 §6.10.
type ContinuationFrame struct {
	FrameHeader
	headerFragBuf []byte
}

func (f *ContinuationFrame) Header() FrameHeader        { return f.FrameHeader }
func (f *ContinuationFrame) HeaderBlockFragment() []byte { return f.headerFragBuf }
func (f *ContinuationFrame) HeadersEnded() bool          { return f.Flags.Has(FlagContinuationEndHeaders) }

func parseContinuationFrame(fh FrameHeader, p []byte) (Frame, error) {
	if fh.StreamID == 0 {
		return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "CONTINUATION frame with stream ID 0"}
	}
	return &ContinuationFrame{FrameHeader: fh, headerFragBuf: p}, nil
}

// PriorityParam is RFC 7540 §6.3's stream-dependency weighting; it's
// accepted on HEADERS and PRIORITY frames but never acted on here
// (spec.md's stream model has no priority scheduling) beyond being
// echoed back to the application.
type PriorityParam struct {
	StreamDep uint32
	Exclusive bool
	Weight    uint8
}

func (p PriorityParam) IsZero() bool { return p == PriorityParam{} }

// PriorityFrame advises the server of a stream's relative priority,
// RFC 7540 §6.3.
type PriorityFrame struct {
	FrameHeader
	PriorityParam
}

func (f *PriorityFrame) Header() FrameHeader { return f.FrameHeader }

func parsePriorityFrame(fh FrameHeader, payload []byte) (Frame, error) {
	if fh.StreamID == 0 {
		return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "PRIORITY frame with stream ID 0"}
	}
	if len(payload) != 5 {
		return nil, ConnectionError{Code: ErrCodeFrameSize, Reason: "PRIORITY frame payload must be 5 bytes"}
	}
	v := binary.BigEndian.Uint32(payload[:4])
	streamDep := v & 0x7fffffff
	return &PriorityFrame{
		FrameHeader: fh,
		PriorityParam: PriorityParam{
			StreamDep: streamDep,
			Exclusive: streamDep != v,
			Weight:    payload[4],
		},
	}, nil
}

// RSTStreamFrame immediately terminates a stream, RFC 7540 §6.4.
type RSTStreamFrame struct {
	FrameHeader
	ErrCode ErrCode
}

func (f *RSTStreamFrame) Header() FrameHeader { return f.FrameHeader }

func parseRSTStreamFrame(fh FrameHeader, p []byte) (Frame, error) {
	if len(p) != 4 {
		return nil, ConnectionError{Code: ErrCodeFrameSize, Reason: "RST_STREAM frame payload must be 4 bytes"}
	}
	if fh.StreamID == 0 {
		return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "RST_STREAM frame with stream ID 0"}
	}
	return &RSTStreamFrame{FrameHeader: fh, ErrCode: ErrCode(binary.BigEndian.Uint32(p))}, nil
}

// Setting is one RFC 7540 §6.5.1 (identifier, value) pair.
type Setting struct {
	ID  SettingID
	Val uint32
}

// SettingID is a RFC 7540 §11.3 SETTINGS parameter identifier.
type SettingID uint16

const (
	SettingHeaderTableSize      SettingID = 0x1
	SettingEnablePush           SettingID = 0x2
	SettingMaxConcurrentStreams SettingID = 0x3
	SettingInitialWindowSize    SettingID = 0x4
	SettingMaxFrameSize         SettingID = 0x5
	SettingMaxHeaderListSize    SettingID = 0x6
)

// SettingsFrame carries connection-configuration parameters, RFC 7540
// §6.5.
type SettingsFrame struct {
	FrameHeader
	p []byte
}

func (f *SettingsFrame) Header() FrameHeader { return f.FrameHeader }
func (f *SettingsFrame) IsAck() bool         { return f.Flags.Has(FlagSettingsAck) }
func (f *SettingsFrame) NumSettings() int    { return len(f.p) / 6 }

func (f *SettingsFrame) Setting(i int) Setting {
	b := f.p[i*6 : i*6+6]
	return Setting{ID: SettingID(binary.BigEndian.Uint16(b[:2])), Val: binary.BigEndian.Uint32(b[2:6])}
}

func (f *SettingsFrame) Value(id SettingID) (v uint32, ok bool) {
	for i := 0; i < f.NumSettings(); i++ {
		if s := f.Setting(i); s.ID == id {
			return s.Val, true
		}
	}
	return 0, false
}

func (f *SettingsFrame) ForeachSetting(fn func(Setting) error) error {
	for i := 0; i < f.NumSettings(); i++ {
		if err := fn(f.Setting(i)); err != nil {
			return err
		}
	}
	return nil
}

func parseSettingsFrame(fh FrameHeader, p []byte) (Frame, error) {
	if fh.Flags.Has(FlagSettingsAck) && fh.Length > 0 {
		return nil, ConnectionError{Code: ErrCodeFrameSize, Reason: "SETTINGS ack must be empty"}
	}
	if fh.StreamID != 0 {
		return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "SETTINGS frame with nonzero stream ID"}
	}
	if len(p)%6 != 0 {
		return nil, ConnectionError{Code: ErrCodeFrameSize, Reason: "SETTINGS payload not a multiple of 6"}
	}
	f := &SettingsFrame{FrameHeader: fh, p: p}
	if v, ok := f.Value(SettingInitialWindowSize); ok && v > 1<<31-1 {
		return nil, ConnectionError{Code: ErrCodeFlowControl, Reason: "SETTINGS_INITIAL_WINDOW_SIZE exceeds maximum"}
	}
	return f, nil
}

// PushPromiseFrame reserves a stream the server intends to push a
// response on, RFC 7540 §6.6. The connection orchestrator sends one from
// Conn.SendPushPromise and handles a received one in handlePushPromise.
type PushPromiseFrame struct {
	FrameHeader
	PromiseID     uint32
	headerFragBuf []byte
}

func (f *PushPromiseFrame) Header() FrameHeader        { return f.FrameHeader }
func (f *PushPromiseFrame) HeaderBlockFragment() []byte { return f.headerFragBuf }
func (f *PushPromiseFrame) HeadersEnded() bool          { return f.Flags.Has(FlagPushPromiseEndHeaders) }

func parsePushPromiseFrame(fh FrameHeader, p []byte) (Frame, error) {
	if fh.StreamID == 0 {
		return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "PUSH_PROMISE frame with stream ID 0"}
	}
	pp := &PushPromiseFrame{FrameHeader: fh}
	var err error
	var padLen byte
	if fh.Flags.Has(FlagPushPromisePadded) {
		if p, padLen, err = readPadLength(p); err != nil {
			return nil, err
		}
	}
	var v uint32
	if p, v, err = readUint32(p); err != nil {
		return nil, err
	}
	promiseID := v & (1<<31 - 1)
	if promiseID == 0 || promiseID%2 != 0 {
		return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "PUSH_PROMISE promised stream ID must be nonzero and even"}
	}
	pp.PromiseID = promiseID
	if int(padLen) > len(p) {
		return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "PUSH_PROMISE pad length exceeds payload"}
	}
	pp.headerFragBuf = p[:len(p)-int(padLen)]
	return pp, nil
}

// PingFrame is a connection-level liveness probe, RFC 7540 §6.7.
type PingFrame struct {
	FrameHeader
	Data [8]byte
}

func (f *PingFrame) Header() FrameHeader { return f.FrameHeader }
func (f *PingFrame) IsAck() bool         { return f.Flags.Has(FlagPingAck) }

func parsePingFrame(fh FrameHeader, payload []byte) (Frame, error) {
	if fh.StreamID != 0 {
		return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "PING frame with nonzero stream ID"}
	}
	if len(payload) != 8 {
		return nil, ConnectionError{Code: ErrCodeFrameSize, Reason: "PING frame payload must be 8 bytes"}
	}
	f := &PingFrame{FrameHeader: fh}
	copy(f.Data[:], payload)
	return f, nil
}

// GoAwayFrame announces the peer is shutting the connection down, RFC
// 7540 §6.8.
type GoAwayFrame struct {
	FrameHeader
	LastStreamID uint32
	ErrCode      ErrCode
	debugData    []byte
}

func (f *GoAwayFrame) Header() FrameHeader { return f.FrameHeader }
func (f *GoAwayFrame) DebugData() []byte   { return f.debugData }

func parseGoAwayFrame(fh FrameHeader, p []byte) (Frame, error) {
	if fh.StreamID != 0 {
		return nil, ConnectionError{Code: ErrCodeProtocol, Reason: "GOAWAY frame with nonzero stream ID"}
	}
	if len(p) < 8 {
		return nil, ConnectionError{Code: ErrCodeFrameSize, Reason: "GOAWAY frame payload shorter than 8 bytes"}
	}
	return &GoAwayFrame{
		FrameHeader:  fh,
		LastStreamID: binary.BigEndian.Uint32(p[:4]) & (1<<31 - 1),
		ErrCode:      ErrCode(binary.BigEndian.Uint32(p[4:8])),
		debugData:    p[8:],
	}, nil
}

// WindowUpdateFrame adjusts a flow-control window, RFC 7540 §6.9.
type WindowUpdateFrame struct {
	FrameHeader
	Increment uint32
}

func (f *WindowUpdateFrame) Header() FrameHeader { return f.FrameHeader }

func parseWindowUpdateFrame(fh FrameHeader, p []byte) (Frame, error) {
	if len(p) != 4 {
		return nil, ConnectionError{Code: ErrCodeFrameSize, Reason: "WINDOW_UPDATE frame payload must be 4 bytes"}
	}
	return &WindowUpdateFrame{FrameHeader: fh, Increment: binary.BigEndian.Uint32(p) & 0x7fffffff}, nil
}

// UnknownFrame is any frame type this package doesn't recognize.
// RFC 7540 §4.1 requires unknown types to be ignored, not rejected.
type UnknownFrame struct {
	FrameHeader
	p []byte
}

func (f *UnknownFrame) Header() FrameHeader { return f.FrameHeader }
func (f *UnknownFrame) Payload() []byte     { return f.p }

func parseUnknownFrame(fh FrameHeader, p []byte) (Frame, error) {
	return &UnknownFrame{FrameHeader: fh, p: p}, nil
}

func readByte(p []byte) ([]byte, byte, error) {
	if len(p) == 0 {
		return nil, 0, tools.WrapError(io.ErrUnexpectedEOF, "h2: reading frame byte")
	}
	return p[1:], p[0], nil
}

func readPadLength(p []byte) ([]byte, byte, error) {
	rest, b, err := readByte(p)
	if err != nil {
		return nil, 0, ConnectionError{Code: ErrCodeFrameSize, Reason: "missing pad length octet"}
	}
	return rest, b, nil
}

func readUint32(p []byte) ([]byte, uint32, error) {
	if len(p) < 4 {
		return nil, 0, tools.WrapError(io.ErrUnexpectedEOF, "h2: reading frame uint32")
	}
	return p[4:], binary.BigEndian.Uint32(p[:4]), nil
}
