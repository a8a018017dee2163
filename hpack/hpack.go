// Package hpack implements RFC 7541 HPACK header compression: the static
// and dynamic tables, Huffman coding, and the prefix-integer/string wire
// primitives, plus a stateful Encoder and Decoder pair that keep their
// dynamic tables in lockstep across a connection.
package hpack

import "errors"

// A HeaderField is a name/value pair. Sensitive fields are never written
// to a dynamic table; the Encoder writes them as literal-never-indexed
// unless the identical (name, value) pair is already in a table, in which
// case it is indexed.
type HeaderField struct {
	Name, Value string
	Sensitive   bool
}

// Size is the RFC 7541 §4.1 entry size: name length + value length + 32
// bytes of accounting overhead.
func (f HeaderField) Size() uint32 {
	return uint32(len(f.Name) + len(f.Value) + 32)
}

// Errors returned by Decoder.DecodeFull (the Encoder never fails). All of them are
// connection-scoped per RFC 7540 §4.3: any HPACK failure invalidates the
// whole connection, never just one stream.
var (
	ErrIndexOutOfBounds    = errors.New("hpack: index out of bounds")
	ErrInvalidIndex        = errors.New("hpack: invalid index 0")
	ErrIntegerOverflow     = errors.New("hpack: integer overflow")
	ErrBufferTooSmall      = errors.New("hpack: buffer too small")
	ErrTableSizeTooLarge   = errors.New("hpack: table size update exceeds peer maximum")
	ErrTableUpdateNotFirst = errors.New("hpack: table size update must precede header fields")
	ErrStringTooLong       = errors.New("hpack: string literal exceeds configured maximum")
	ErrInvalidHuffman      = errors.New("hpack: invalid Huffman-coded string")
)

// maxIntShift bounds the continuation-byte loop of decodeInt: RFC 7541
// §5.1 integers have no inherent bound, but a wire value needing more than
// 63 bits of shift is definitely an attack or a bug, never legitimate.
const maxIntShift = 63
