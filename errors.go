package h2

import "fmt"

// ErrCode is an RFC 7540 §7 error code, carried on RST_STREAM and
// GOAWAY frames.
type ErrCode uint32

const (
	ErrCodeNo                 ErrCode = 0x0
	ErrCodeProtocol           ErrCode = 0x1
	ErrCodeInternal           ErrCode = 0x2
	ErrCodeFlowControl        ErrCode = 0x3
	ErrCodeSettingsTimeout    ErrCode = 0x4
	ErrCodeStreamClosed       ErrCode = 0x5
	ErrCodeFrameSize          ErrCode = 0x6
	ErrCodeRefusedStream      ErrCode = 0x7
	ErrCodeCancel             ErrCode = 0x8
	ErrCodeCompression        ErrCode = 0x9
	ErrCodeConnect            ErrCode = 0xa
	ErrCodeEnhanceYourCalm    ErrCode = 0xb
	ErrCodeInadequateSecurity ErrCode = 0xc
	ErrCodeHTTP11Required     ErrCode = 0xd
)

func (e ErrCode) String() string {
	switch e {
	case ErrCodeNo:
		return "NO_ERROR"
	case ErrCodeProtocol:
		return "PROTOCOL_ERROR"
	case ErrCodeInternal:
		return "INTERNAL_ERROR"
	case ErrCodeFlowControl:
		return "FLOW_CONTROL_ERROR"
	case ErrCodeSettingsTimeout:
		return "SETTINGS_TIMEOUT"
	case ErrCodeStreamClosed:
		return "STREAM_CLOSED"
	case ErrCodeFrameSize:
		return "FRAME_SIZE_ERROR"
	case ErrCodeRefusedStream:
		return "REFUSED_STREAM"
	case ErrCodeCancel:
		return "CANCEL"
	case ErrCodeCompression:
		return "COMPRESSION_ERROR"
	case ErrCodeConnect:
		return "CONNECT_ERROR"
	case ErrCodeEnhanceYourCalm:
		return "ENHANCE_YOUR_CALM"
	case ErrCodeInadequateSecurity:
		return "INADEQUATE_SECURITY"
	case ErrCodeHTTP11Required:
		return "HTTP_1_1_REQUIRED"
	default:
		return fmt.Sprintf("UNKNOWN_ERROR_CODE_%d", uint32(e))
	}
}

// ConnectionError means the peer (or the local side) violated the
// protocol at the connection level. Conn.Next returns it to the caller;
// Conn does not write a GOAWAY frame or stop reading on its own (a GOAWAY
// carrying Code is sent by calling Conn.Shutdown). Any HPACK failure is always a ConnectionError, never a
// StreamError, because the two endpoints' dynamic tables have now
// diverged and nothing on the connection can be trusted afterward.
type ConnectionError struct {
	Code   ErrCode
	Reason string
}

func (e ConnectionError) Error() string {
	if e.Reason == "" {
		return "http2: connection error: " + e.Code.String()
	}
	return fmt.Sprintf("http2: connection error: %s: %s", e.Code.String(), e.Reason)
}

// StreamError means only one stream is affected. Conn.Next returns it to
// the caller; Conn does not write RST_STREAM or close the stream on its
// own (Conn.CancelStream does both for StreamID).
type StreamError struct {
	StreamID uint32
	Code     ErrCode
	Reason   string
}

func (e StreamError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("http2: stream error on stream %d: %s", e.StreamID, e.Code.String())
	}
	return fmt.Sprintf("http2: stream error on stream %d: %s: %s", e.StreamID, e.Code.String(), e.Reason)
}

// ErrBlocked is returned by a send operation that would have to wait for
// flow-control window to become available. Per the cooperative,
// non-blocking model, callers get this back immediately instead of the
// call stalling; no partial write is ever performed.
var ErrBlocked = fmt.Errorf("http2: send blocked on flow-control window")
