package hpack

import "testing"

func TestStaticTableSize(t *testing.T) {
	if staticTableSize != 61 {
		t.Fatalf("got %d entries, want 61", staticTableSize)
	}
}

func TestStaticTableSpotChecks(t *testing.T) {
	cases := []struct {
		index int
		name  string
		value string
	}{
		{1, ":authority", ""},
		{2, ":method", "GET"},
		{8, ":status", "200"},
		{16, "accept-encoding", "gzip, deflate"},
		{61, "www-authenticate", ""},
	}
	for _, c := range cases {
		f, ok := getStaticEntry(c.index)
		if !ok {
			t.Fatalf("index %d: not found", c.index)
		}
		if f.Name != c.name || f.Value != c.value {
			t.Fatalf("index %d: got (%q,%q), want (%q,%q)", c.index, f.Name, f.Value, c.name, c.value)
		}
	}
}

func TestStaticTableBounds(t *testing.T) {
	if _, ok := getStaticEntry(0); ok {
		t.Fatalf("index 0 must not resolve")
	}
	if _, ok := getStaticEntry(62); ok {
		t.Fatalf("index 62 must not resolve in the static table alone")
	}
}

func TestFindStaticExactAndNameOnly(t *testing.T) {
	idx, exact := findStatic(":method", "GET")
	if !exact || idx != 2 {
		t.Fatalf("got (%d,%v), want (2,true)", idx, exact)
	}
	idx, exact = findStatic(":method", "PATCH")
	if exact || idx != 2 {
		t.Fatalf("name-only match got (%d,%v), want (2,false)", idx, exact)
	}
	idx, exact = findStatic("x-unknown", "")
	if exact || idx != 0 {
		t.Fatalf("unknown name got (%d,%v), want (0,false)", idx, exact)
	}
}
