package hpack

import "testing"

func TestDynamicTableAddAndGet(t *testing.T) {
	dt := newDynamicTable()
	dt.setMaxSize(4096)
	dt.add(HeaderField{Name: "custom-key", Value: "custom-value"})
	f, ok := dt.get(1)
	if !ok || f.Name != "custom-key" || f.Value != "custom-value" {
		t.Fatalf("got (%v,%v)", f, ok)
	}
	if dt.len() != 1 {
		t.Fatalf("len=%d, want 1", dt.len())
	}
}

func TestDynamicTableEvictionOnOverflow(t *testing.T) {
	dt := newDynamicTable()
	dt.setMaxSize(100) // enough for "a" and "b" (96 bytes), not all three
	dt.add(HeaderField{Name: "a", Value: "1111111111111111111111111111"}) // 1+28+32=61
	dt.add(HeaderField{Name: "b", Value: "22"})                           // 1+2+32=35, total 96
	if dt.len() != 2 {
		t.Fatalf("len=%d, want 2", dt.len())
	}
	dt.add(HeaderField{Name: "c", Value: "3"}) // 1+1+32=34, forces eviction of "a"
	if dt.len() != 2 {
		t.Fatalf("len=%d after eviction, want 2", dt.len())
	}
	newest, _ := dt.get(1)
	if newest.Name != "c" {
		t.Fatalf("newest entry got %q, want %q", newest.Name, "c")
	}
	oldest, _ := dt.get(2)
	if oldest.Name != "b" {
		t.Fatalf("surviving old entry got %q, want %q (entry %q should have been evicted)", oldest.Name, "b", "a")
	}
}

func TestDynamicTableOversizeEntryClearsTable(t *testing.T) {
	dt := newDynamicTable()
	dt.setMaxSize(100)
	dt.add(HeaderField{Name: "a", Value: "b"})
	if dt.len() != 1 {
		t.Fatalf("setup: len=%d, want 1", dt.len())
	}
	dt.add(HeaderField{Name: "too-big", Value: string(make([]byte, 200))})
	if dt.len() != 0 {
		t.Fatalf("oversize insert left %d entries, want 0", dt.len())
	}
	if dt.Size() != 0 {
		t.Fatalf("oversize insert left size=%d, want 0", dt.Size())
	}
}

func TestDynamicTableSetMaxSizeEvicts(t *testing.T) {
	dt := newDynamicTable()
	dt.setMaxSize(1000)
	dt.add(HeaderField{Name: "a", Value: "1"})
	dt.add(HeaderField{Name: "b", Value: "2"})
	dt.setMaxSize(34) // room for exactly one of these 34-byte entries
	if dt.len() != 1 {
		t.Fatalf("len=%d after shrink, want 1", dt.len())
	}
	newest, _ := dt.get(1)
	if newest.Name != "b" {
		t.Fatalf("got %q, want %q (most recent should survive)", newest.Name, "b")
	}
}

func TestDynamicTableGrowsPastInitialCapacity(t *testing.T) {
	dt := newDynamicTable() // starts with backing array of 8
	dt.setMaxSize(1 << 20)
	for i := 0; i < 20; i++ {
		dt.add(HeaderField{Name: "k", Value: "v"})
	}
	if dt.len() != 20 {
		t.Fatalf("len=%d, want 20", dt.len())
	}
	for i := 1; i <= 20; i++ {
		if _, ok := dt.get(i); !ok {
			t.Fatalf("entry %d missing after growth", i)
		}
	}
}

func TestDynamicTableFind(t *testing.T) {
	dt := newDynamicTable()
	dt.setMaxSize(1000)
	dt.add(HeaderField{Name: "x-custom", Value: "v1"})
	dt.add(HeaderField{Name: "x-custom", Value: "v2"})

	idx, exact := dt.find("x-custom", "v2")
	if !exact || idx != 1 {
		t.Fatalf("got (%d,%v), want (1,true)", idx, exact)
	}
	idx, exact = dt.find("x-custom", "v1")
	if !exact || idx != 2 {
		t.Fatalf("got (%d,%v), want (2,true)", idx, exact)
	}
	idx, exact = dt.find("x-custom", "v3")
	if exact || idx == 0 {
		t.Fatalf("name-only lookup got (%d,%v)", idx, exact)
	}
}
