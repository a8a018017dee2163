package hpack

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	e := NewEncoder(4096)
	d := NewDecoder(4096)

	requests := [][]HeaderField{
		{
			{Name: ":method", Value: "GET"},
			{Name: ":scheme", Value: "https"},
			{Name: ":path", Value: "/"},
			{Name: ":authority", Value: "example.com"},
		},
		{
			{Name: ":method", Value: "GET"},
			{Name: ":scheme", Value: "https"},
			{Name: ":path", Value: "/"},
			{Name: ":authority", Value: "example.com"},
			{Name: "cache-control", Value: "no-cache"},
		},
		{
			{Name: ":method", Value: "GET"},
			{Name: ":scheme", Value: "https"},
			{Name: ":path", Value: "/other"},
			{Name: ":authority", Value: "example.com"},
			{Name: "custom-key", Value: "custom-value"},
			{Name: "authorization", Value: "secret-token", Sensitive: true},
		},
	}

	for i, fields := range requests {
		wire := e.WriteFields(nil, fields)
		got, err := d.DecodeFull(wire)
		if err != nil {
			t.Fatalf("request %d: decode failed: %v", i, err)
		}
		if !headerFieldsEqual(got, fields) {
			t.Fatalf("request %d: got %+v, want %+v", i, got, fields)
		}
	}
}

func TestEncodeSensitiveFieldNeverIndexed(t *testing.T) {
	e := NewEncoder(4096)
	wire := e.WriteField(nil, HeaderField{Name: "authorization", Value: "secret", Sensitive: true})
	if wire[0]&0xf0 != 0x10 {
		t.Fatalf("first byte %08b, want literal-never-indexed pattern 0001xxxx", wire[0])
	}
	if e.dt.len() != 0 {
		t.Fatalf("sensitive field must not be inserted into the dynamic table")
	}
}

func TestEncodeSensitiveFieldWithExistingExactMatchIsIndexed(t *testing.T) {
	e := NewEncoder(4096)
	e.WriteField(nil, HeaderField{Name: "authorization", Value: "secret"})
	wire := e.WriteField(nil, HeaderField{Name: "authorization", Value: "secret", Sensitive: true})
	if len(wire) != 1 || wire[0]&0x80 == 0 {
		t.Fatalf("got %x, want a single indexed byte: an exact match takes priority over Sensitive", wire)
	}
}

func TestEncodeRepeatedFieldUsesIndexedRepresentation(t *testing.T) {
	e := NewEncoder(4096)
	first := e.WriteField(nil, HeaderField{Name: "x-custom", Value: "v"})
	second := e.WriteField(nil, HeaderField{Name: "x-custom", Value: "v"})
	if len(second) != 1 || second[0]&0x80 == 0 {
		t.Fatalf("repeated field got %x, want a single indexed byte", second)
	}
	if len(first) <= len(second) {
		t.Fatalf("first occurrence (%x) should be longer than the indexed repeat (%x)", first, second)
	}
}

func TestEncoderShrinkingTableEmitsSizeUpdate(t *testing.T) {
	e := NewEncoder(4096)
	e.WriteField(nil, HeaderField{Name: "x-custom", Value: "v"})
	e.SetMaxDynamicTableSize(0)

	wire := e.WriteField(nil, HeaderField{Name: "x-custom", Value: "v2"})
	if wire[0]&0xe0 != 0x20 {
		t.Fatalf("first byte %08b, want a dynamic table size update 001xxxxx", wire[0])
	}

	d := NewDecoder(4096)
	fields, err := d.DecodeFull(wire)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !headerFieldsEqual(fields, []HeaderField{{Name: "x-custom", Value: "v2"}}) {
		t.Fatalf("got %+v", fields)
	}
	if d.dt.len() != 0 {
		t.Fatalf("table size update to 0 should leave the decoder's table empty, got len=%d", d.dt.len())
	}
}

func TestEncodeDecodeLargeDynamicTable(t *testing.T) {
	e := NewEncoder(1 << 16)
	d := NewDecoder(1 << 16)
	for i := 0; i < 200; i++ {
		fields := []HeaderField{
			{Name: ":method", Value: "GET"},
			{Name: "x-seq", Value: string(rune('a' + i%26))},
		}
		wire := e.WriteFields(nil, fields)
		got, err := d.DecodeFull(wire)
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		if !headerFieldsEqual(got, fields) {
			t.Fatalf("iteration %d: got %+v, want %+v", i, got, fields)
		}
	}
}
