package h2

import (
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/nilcore/h2/hpack"
)

// connectionSpecificHeaders are the HTTP/1-era fields RFC 7540 §8.1.2.2
// forbids outright: their semantics (hop-by-hop negotiation, connection
// lifecycle) have no meaning in HTTP/2's single persistent connection
// model and are either rendered by framing itself or simply nonsensical.
var connectionSpecificHeaders = map[string]bool{
	"connection":        true,
	"keep-alive":        true,
	"proxy-connection":  true,
	"transfer-encoding": true,
	"upgrade":           true,
}

// requestPseudoHeaders are the pseudo-header fields RFC 7540 §8.1.2.3
// allows on a request HEADERS block.
var requestPseudoHeaders = map[string]bool{
	":method":    true,
	":scheme":    true,
	":authority": true,
	":path":      true,
}

// responsePseudoHeaders are RFC 7540 §8.1.2.4's response equivalent.
var responsePseudoHeaders = map[string]bool{
	":status": true,
}

// ValidateHeaderBlock checks a decoded header list against RFC 7540
// §8.1.2's structural rules: pseudo-headers (from the pseudoHeaders set
// appropriate to the message direction) must all precede regular
// fields, no pseudo-header may repeat, field names must be lowercase
// and otherwise wire-legal, and no connection-specific field may appear.
// A violation here is a StreamError, not a ConnectionError: the HPACK
// decode itself already succeeded and the dynamic table is still
// trustworthy, so only the one malformed stream is affected.
func ValidateHeaderBlock(streamID uint32, fields []hpack.HeaderField, pseudoHeaders map[string]bool) error {
	seenPseudo := map[string]bool{}
	seenRegular := false
	for _, f := range fields {
		if strings.HasPrefix(f.Name, ":") {
			if seenRegular {
				return StreamError{StreamID: streamID, Code: ErrCodeProtocol, Reason: "pseudo-header field after regular field: " + f.Name}
			}
			if !pseudoHeaders[f.Name] {
				return StreamError{StreamID: streamID, Code: ErrCodeProtocol, Reason: "unknown or disallowed pseudo-header: " + f.Name}
			}
			if seenPseudo[f.Name] {
				return StreamError{StreamID: streamID, Code: ErrCodeProtocol, Reason: "duplicate pseudo-header: " + f.Name}
			}
			seenPseudo[f.Name] = true
			continue
		}
		seenRegular = true
		if err := validateRegularField(streamID, f); err != nil {
			return err
		}
	}
	return nil
}

func validateRegularField(streamID uint32, f hpack.HeaderField) error {
	lower := strings.ToLower(f.Name)
	if lower != f.Name {
		return StreamError{StreamID: streamID, Code: ErrCodeProtocol, Reason: "header field name not lowercase: " + f.Name}
	}
	if !httpguts.ValidHeaderFieldName(f.Name) {
		return StreamError{StreamID: streamID, Code: ErrCodeProtocol, Reason: "invalid header field name: " + f.Name}
	}
	if !httpguts.ValidHeaderFieldValue(f.Value) {
		return StreamError{StreamID: streamID, Code: ErrCodeProtocol, Reason: "invalid header field value for: " + f.Name}
	}
	if connectionSpecificHeaders[f.Name] {
		return StreamError{StreamID: streamID, Code: ErrCodeProtocol, Reason: "connection-specific header field not allowed: " + f.Name}
	}
	if f.Name == "te" && f.Value != "trailers" {
		return StreamError{StreamID: streamID, Code: ErrCodeProtocol, Reason: `"te" header field must be "trailers" or absent`}
	}
	return nil
}

// RequestMethod, RequestScheme, RequestAuthority, RequestPath extract
// the standard pseudo-headers from a validated request field list.
func RequestMethod(fields []hpack.HeaderField) string    { return pseudoValue(fields, ":method") }
func RequestScheme(fields []hpack.HeaderField) string    { return pseudoValue(fields, ":scheme") }
func RequestAuthority(fields []hpack.HeaderField) string { return pseudoValue(fields, ":authority") }
func RequestPath(fields []hpack.HeaderField) string      { return pseudoValue(fields, ":path") }
func ResponseStatus(fields []hpack.HeaderField) string    { return pseudoValue(fields, ":status") }

func pseudoValue(fields []hpack.HeaderField, name string) string {
	for _, f := range fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}
