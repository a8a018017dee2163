package h2

import (
	"bytes"
	"io"

	"github.com/gospider007/tools"
)

// ClientPreface is the fixed 24-byte octet sequence RFC 7540 §3.5
// requires a client to send before anything else, confirming that both
// ends are actually speaking HTTP/2 and not some text-based protocol
// that happened to be listening on the same port.
const ClientPreface = "PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n"

// WriteClientPreface writes the preface octets to w.
func WriteClientPreface(w io.Writer) error {
	_, err := io.WriteString(w, ClientPreface)
	return tools.WrapError(err, "h2: writing client preface")
}

// ReadClientPreface reads and validates the preface octets from r,
// returning a ConnectionError if they don't match exactly.
func ReadClientPreface(r io.Reader) error {
	buf := make([]byte, len(ClientPreface))
	if _, err := io.ReadFull(r, buf); err != nil {
		return tools.WrapError(err, "h2: reading client preface")
	}
	if !bytes.Equal(buf, []byte(ClientPreface)) {
		return ConnectionError{Code: ErrCodeProtocol, Reason: "invalid client connection preface"}
	}
	return nil
}
