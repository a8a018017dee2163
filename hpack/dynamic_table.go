package hpack

// dynamicTable is the mutable half of the HPACK indexing space (RFC 7541
// §2.3.2), connection-scoped and direction-scoped: the encoder and decoder
// each own one, and they must evolve identically entry-for-entry for the
// connection to remain valid (spec invariant: "in exact lockstep").
//
// Implemented as a ring buffer of owned HeaderFields, newest entry at
// index 1 (dynamic-table-local), growing the backing array on overflow
// rather than ever copying out to a slice per insert.
type dynamicTable struct {
	entries []HeaderField // ring buffer
	head    int           // buffer position of the newest entry
	count   int
	size    uint32 // sum of entries[i].Size()
	maxSize uint32 // current maximum (I1)

	// peerMax is the SETTINGS_HEADER_TABLE_SIZE currently in force for
	// this direction: the value this endpoint advertised (decoder) or the
	// value the peer advertised and we acknowledged (encoder). A Table
	// Size Update may lower maxSize freely but may
	// never raise it past peerMax — see spec.md §9 Open Question 1.
	peerMax uint32
}

func newDynamicTable() *dynamicTable {
	return &dynamicTable{entries: make([]HeaderField, 8)}
}

// add inserts a new entry at the head, evicting from the tail first (I2)
// until it fits, per I3 dropping the insert entirely (after having
// cleared the table) if even an empty table can't hold it.
func (dt *dynamicTable) add(f HeaderField) {
	sz := f.Size()
	for dt.size+sz > dt.maxSize && dt.count > 0 {
		dt.evictOldest()
	}
	if sz > dt.maxSize {
		// I3: oversized entry clears the table and inserts nothing.
		return
	}
	if dt.count == len(dt.entries) {
		dt.grow()
	}
	dt.head = (dt.head - 1 + len(dt.entries)) % len(dt.entries)
	f.Sensitive = false // never-indexed fields are never inserted by callers, but be defensive
	dt.entries[dt.head] = f
	dt.count++
	dt.size += sz
}

// get returns the entry at 1-based dynamic-table-local index (1 = newest).
func (dt *dynamicTable) get(index int) (HeaderField, bool) {
	if index < 1 || index > dt.count {
		return HeaderField{}, false
	}
	pos := (dt.head + index - 1) % len(dt.entries)
	return dt.entries[pos], true
}

// find looks for (name, value); exact reports a full match, and index (if
// nonzero) is the lowest-position name-only match otherwise.
func (dt *dynamicTable) find(name, value string) (index int, exact bool) {
	for i := 0; i < dt.count; i++ {
		pos := (dt.head + i) % len(dt.entries)
		e := dt.entries[pos]
		if e.Name != name {
			continue
		}
		if e.Value == value {
			return i + 1, true
		}
		if index == 0 {
			index = i + 1
		}
	}
	return index, false
}

// setMaxSize applies I4: lowering evicts immediately to restore I1.
func (dt *dynamicTable) setMaxSize(maxSize uint32) {
	dt.maxSize = maxSize
	for dt.size > dt.maxSize && dt.count > 0 {
		dt.evictOldest()
	}
}

func (dt *dynamicTable) evictOldest() {
	tail := (dt.head + dt.count - 1) % len(dt.entries)
	dt.size -= dt.entries[tail].Size()
	dt.entries[tail] = HeaderField{}
	dt.count--
}

func (dt *dynamicTable) grow() {
	grown := make([]HeaderField, len(dt.entries)*2)
	for i := 0; i < dt.count; i++ {
		grown[i] = dt.entries[(dt.head+i)%len(dt.entries)]
	}
	dt.entries = grown
	dt.head = 0
}

func (dt *dynamicTable) len() int    { return dt.count }
func (dt *dynamicTable) Size() uint32 { return dt.size }
