package hpack

// getIndexed resolves an absolute HPACK index (1..61 static, 62+ dynamic,
// where dynamic entry k has absolute index 61+k per spec.md §3) against a
// decoder's or encoder's own dynamic table.
func getIndexed(dt *dynamicTable, index int) (HeaderField, bool) {
	if index <= staticTableSize {
		return getStaticEntry(index)
	}
	return dt.get(index - staticTableSize)
}

// findIndexed searches static-then-dynamic for the lowest absolute index,
// preferring an exact match in either table over a name-only match,
// and preferring the static table over the dynamic one for a name-only
// match (spec.md §4.4: "Name-match indexing prefers the lowest absolute
// index (static before dynamic)").
func findIndexed(dt *dynamicTable, name, value string) (index int, exact bool) {
	staticIdx, staticExact := findStatic(name, value)
	if staticExact {
		return staticIdx, true
	}
	dynIdx, dynExact := dt.find(name, value)
	if dynExact {
		return staticTableSize + dynIdx, true
	}
	if staticIdx > 0 {
		return staticIdx, false
	}
	if dynIdx > 0 {
		return staticTableSize + dynIdx, false
	}
	return 0, false
}
