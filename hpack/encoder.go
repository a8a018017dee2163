package hpack

// Encoder turns HeaderFields into an HPACK-encoded header block, owning
// the dynamic table that must stay in lockstep with the peer Decoder's.
type Encoder struct {
	dt *dynamicTable

	// pendingTableSize/havePending hold a maximum size change (e.g. the
	// peer changing its advertised SETTINGS_HEADER_TABLE_SIZE) that hasn't
	// been emitted as a Dynamic Table Size Update yet. It's flushed as the first thing written by
	// the next WriteField/WriteFields call.
	pendingTableSize uint32
	havePending      bool
}

// NewEncoder builds an Encoder whose dynamic table starts empty, capped
// at maxTableSize — the maximum the peer has advertised it will accept.
func NewEncoder(maxTableSize uint32) *Encoder {
	dt := newDynamicTable()
	dt.maxSize = maxTableSize
	dt.peerMax = maxTableSize
	return &Encoder{dt: dt}
}

// SetMaxDynamicTableSize changes the cap this Encoder will keep its own
// table within. Any change is queued and emitted as a Dynamic Table Size
// Update ahead of the next encoded field, per RFC 7541 §6.3, and the
// Encoder's own table only switches to the new cap at that point: the
// peer's Decoder changes its table size only on seeing that update.
func (e *Encoder) SetMaxDynamicTableSize(n uint32) {
	e.dt.peerMax = n
	if n != e.dt.maxSize || e.havePending {
		e.pendingTableSize = n
		e.havePending = true
	}
}

// WriteField appends the HPACK encoding of one HeaderField to dst,
// applying spec.md's representation policy in order: an exact
// static-or-dynamic (name, value) match is always indexed, even for a
// Sensitive field — the pair is already sitting in a table either side
// can read, so there's nothing left to protect by spelling it out as a
// literal; otherwise a Sensitive field is literal-never-indexed;
// otherwise a field whose entry size exceeds the table's maximum is
// written as a literal without indexing (reusing a name-only match as the
// name index); otherwise a name-only match saves the name as an index and
// indexes the new value incrementally; otherwise both name and value are
// written as fresh literals and indexed incrementally.
func (e *Encoder) WriteField(dst []byte, f HeaderField) []byte {
	if e.havePending {
		dst = appendInt(dst, 5, 0x20, uint64(e.pendingTableSize))
		e.dt.setMaxSize(e.pendingTableSize)
		e.havePending = false
	}

	idx, exact := findIndexed(e.dt, f.Name, f.Value)
	if exact {
		return appendInt(dst, 7, 0x80, uint64(idx))
	}
	if f.Sensitive {
		return e.writeLiteral(dst, f, 4, 0x10, false)
	}
	if f.Size() > e.dt.maxSize {
		if idx > 0 {
			dst = appendInt(dst, 4, 0x00, uint64(idx))
			return appendString(dst, f.Value)
		}
		return e.writeLiteral(dst, f, 4, 0x00, false)
	}
	if idx > 0 {
		return e.writeLiteralIndexedName(dst, f, idx)
	}
	return e.writeLiteral(dst, f, 6, 0x40, true)
}

// WriteFields encodes a whole ordered list in one call, the shape every
// caller actually wants (one HEADERS+CONTINUATION sequence per message).
func (e *Encoder) WriteFields(dst []byte, fields []HeaderField) []byte {
	for _, f := range fields {
		dst = e.WriteField(dst, f)
	}
	return dst
}

// writeLiteral writes a literal-name, literal-value representation using
// the given prefix shape, indexing the result afterward if indexed is
// true (the incremental-indexing form).
func (e *Encoder) writeLiteral(dst []byte, f HeaderField, prefixBits uint8, firstByteHigh byte, indexed bool) []byte {
	dst = appendInt(dst, prefixBits, firstByteHigh, 0)
	dst = appendString(dst, f.Name)
	dst = appendString(dst, f.Value)
	if indexed {
		e.dt.add(f)
	}
	return dst
}

// writeLiteralIndexedName writes a literal-incremental representation
// whose name is an index into static-or-dynamic (idx) and whose value is
// a fresh literal, then indexes the combined field.
func (e *Encoder) writeLiteralIndexedName(dst []byte, f HeaderField, idx int) []byte {
	dst = appendInt(dst, 6, 0x40, uint64(idx))
	dst = appendString(dst, f.Value)
	e.dt.add(f)
	return dst
}
