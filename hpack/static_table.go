package hpack

// The static table, RFC 7541 Appendix A. Entries are frozen and indexed
// 1..61; index 0 never appears on the wire.
var staticTable = [...]HeaderField{
	{Name: ":authority"},
	{Name: ":method", Value: "GET"},
	{Name: ":method", Value: "POST"},
	{Name: ":path", Value: "/"},
	{Name: ":path", Value: "/index.html"},
	{Name: ":scheme", Value: "http"},
	{Name: ":scheme", Value: "https"},
	{Name: ":status", Value: "200"},
	{Name: ":status", Value: "204"},
	{Name: ":status", Value: "206"},
	{Name: ":status", Value: "304"},
	{Name: ":status", Value: "400"},
	{Name: ":status", Value: "404"},
	{Name: ":status", Value: "500"},
	{Name: "accept-charset"},
	{Name: "accept-encoding", Value: "gzip, deflate"},
	{Name: "accept-language"},
	{Name: "accept-ranges"},
	{Name: "accept"},
	{Name: "access-control-allow-origin"},
	{Name: "age"},
	{Name: "allow"},
	{Name: "authorization"},
	{Name: "cache-control"},
	{Name: "content-disposition"},
	{Name: "content-encoding"},
	{Name: "content-language"},
	{Name: "content-length"},
	{Name: "content-location"},
	{Name: "content-range"},
	{Name: "content-type"},
	{Name: "cookie"},
	{Name: "date"},
	{Name: "etag"},
	{Name: "expect"},
	{Name: "expires"},
	{Name: "from"},
	{Name: "host"},
	{Name: "if-match"},
	{Name: "if-modified-since"},
	{Name: "if-none-match"},
	{Name: "if-range"},
	{Name: "if-unmodified-since"},
	{Name: "last-modified"},
	{Name: "link"},
	{Name: "location"},
	{Name: "max-forwards"},
	{Name: "proxy-authenticate"},
	{Name: "proxy-authorization"},
	{Name: "range"},
	{Name: "referer"},
	{Name: "refresh"},
	{Name: "retry-after"},
	{Name: "server"},
	{Name: "set-cookie"},
	{Name: "strict-transport-security"},
	{Name: "transfer-encoding"},
	{Name: "user-agent"},
	{Name: "vary"},
	{Name: "via"},
	{Name: "www-authenticate"},
}

// staticTableSize is the RFC 7541 Appendix A entry count (61).
const staticTableSize = len(staticTable)

// staticNameIndex maps a header name to the lowest static index carrying
// that name, used when an encoder wants a name-only match.
var staticNameIndex = func() map[string]int {
	m := make(map[string]int, staticTableSize)
	for i, f := range staticTable {
		if _, ok := m[f.Name]; !ok {
			m[f.Name] = i + 1
		}
	}
	return m
}()

// getStaticEntry returns the 1-based static table entry, or false if index
// is out of [1, staticTableSize].
func getStaticEntry(index int) (HeaderField, bool) {
	if index < 1 || index > staticTableSize {
		return HeaderField{}, false
	}
	return staticTable[index-1], true
}

// findStatic returns the absolute static index for (name, value). exact
// reports whether the value matched too; index is 0 if name isn't present
// at all.
func findStatic(name, value string) (index int, exact bool) {
	nameIdx, ok := staticNameIndex[name]
	if !ok {
		return 0, false
	}
	for i, f := range staticTable {
		if f.Name == name && f.Value == value {
			return i + 1, true
		}
	}
	return nameIdx, false
}
