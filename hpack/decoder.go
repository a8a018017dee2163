package hpack

// Decoder turns an HPACK-encoded header block back into HeaderFields,
// maintaining the dynamic table that must stay in lockstep with its
// peer's Encoder across the lifetime of one connection.
type Decoder struct {
	dt            *dynamicTable
	maxStringLen  int // 0 = unbounded; guards against unbounded literal strings
	maxHeaderList int // 0 = unbounded; guards against unbounded field counts
}

// NewDecoder builds a Decoder whose dynamic table starts empty with the
// given maximum size — the value this endpoint advertised (or will
// advertise) via SETTINGS_HEADER_TABLE_SIZE.
func NewDecoder(maxTableSize uint32) *Decoder {
	dt := newDynamicTable()
	dt.maxSize = maxTableSize
	dt.peerMax = maxTableSize
	return &Decoder{dt: dt}
}

// SetMaxStringLength bounds any single decoded literal; 0 removes the
// bound. Guards against a peer sending a multi-gigabyte string length
// prefix to force an enormous allocation.
func (d *Decoder) SetMaxStringLength(n int) { d.maxStringLen = n }

// SetMaxHeaderListLength bounds the number of fields a single DecodeFull
// call will produce; 0 removes the bound.
func (d *Decoder) SetMaxHeaderListLength(n int) { d.maxHeaderList = n }

// SetMaxDynamicTableSize changes the maximum this endpoint will allow its
// own dynamic table to grow to (I4), independent of anything the peer
// sends on the wire. It's how a local SETTINGS_HEADER_TABLE_SIZE change
// propagates into the table actually used for decoding.
func (d *Decoder) SetMaxDynamicTableSize(n uint32) {
	d.dt.peerMax = n
	if d.dt.maxSize > n {
		d.dt.setMaxSize(n)
	}
}

// DecodeFull parses one complete header block (the concatenation of a
// HEADERS frame and any CONTINUATION frames that followed it) into an
// ordered list of HeaderFields. A decode failure is always
// connection-fatal per RFC 7540 §4.3: the dynamic table state is left
// exactly as it was after the last fully-applied representation, which
// the caller must treat as unusable since the two endpoints' tables have
// now diverged.
func (d *Decoder) DecodeFull(data []byte) ([]HeaderField, error) {
	var fields []HeaderField
	sawField := false
	for len(data) > 0 {
		b := data[0]
		switch {
		case b&0x80 != 0: // Indexed Header Field
			idx, n, err := decodeInt(data, 7)
			if err != nil {
				return nil, err
			}
			if idx == 0 {
				return nil, ErrInvalidIndex
			}
			f, ok := getIndexed(d.dt, int(idx))
			if !ok {
				return nil, ErrIndexOutOfBounds
			}
			fields = append(fields, f)
			sawField = true
			data = data[n:]

		case b&0x40 != 0: // Literal Header Field with Incremental Indexing
			f, n, err := d.decodeLiteral(data, 6)
			if err != nil {
				return nil, err
			}
			d.dt.add(f)
			fields = append(fields, f)
			sawField = true
			data = data[n:]

		case b&0x20 != 0: // Dynamic Table Size Update
			if sawField {
				return nil, ErrTableUpdateNotFirst
			}
			size, n, err := decodeInt(data, 5)
			if err != nil {
				return nil, err
			}
			if uint32(size) > d.dt.peerMax {
				return nil, ErrTableSizeTooLarge
			}
			d.dt.setMaxSize(uint32(size))
			data = data[n:]

		case b&0x10 != 0: // Literal Header Field Never Indexed
			f, n, err := d.decodeLiteral(data, 4)
			if err != nil {
				return nil, err
			}
			f.Sensitive = true
			fields = append(fields, f)
			sawField = true
			data = data[n:]

		default: // Literal Header Field without Indexing
			f, n, err := d.decodeLiteral(data, 4)
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
			sawField = true
			data = data[n:]
		}
		if d.maxHeaderList > 0 && len(fields) > d.maxHeaderList {
			return nil, ErrStringTooLong
		}
	}
	return fields, nil
}

// decodeLiteral decodes a literal header field representation (any of the
// three non-indexed forms share this shape) whose index/name prefix uses
// prefixBits bits of the first octet.
func (d *Decoder) decodeLiteral(data []byte, prefixBits uint8) (HeaderField, int, error) {
	idx, n, err := decodeInt(data, prefixBits)
	if err != nil {
		return HeaderField{}, 0, err
	}
	var name string
	consumed := n
	if idx == 0 {
		s, sn, err := decodeString(data[consumed:], d.maxStringLen)
		if err != nil {
			return HeaderField{}, 0, err
		}
		name = s
		consumed += sn
	} else {
		f, ok := getIndexed(d.dt, int(idx))
		if !ok {
			return HeaderField{}, 0, ErrIndexOutOfBounds
		}
		name = f.Name
	}
	value, vn, err := decodeString(data[consumed:], d.maxStringLen)
	if err != nil {
		return HeaderField{}, 0, err
	}
	consumed += vn
	return HeaderField{Name: name, Value: value}, consumed, nil
}
