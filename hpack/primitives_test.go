package hpack

import "testing"

func TestAppendIntRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 30, 31, 32, 127, 128, 129, 1337, 1 << 20, 1 << 40}
	for _, prefix := range []uint8{4, 5, 6, 7} {
		for _, n := range cases {
			buf := appendInt(nil, prefix, 0, n)
			got, consumed, err := decodeInt(buf, prefix)
			if err != nil {
				t.Fatalf("prefix=%d n=%d: decodeInt error: %v", prefix, n, err)
			}
			if got != n {
				t.Fatalf("prefix=%d n=%d: got %d", prefix, n, got)
			}
			if consumed != len(buf) {
				t.Fatalf("prefix=%d n=%d: consumed %d, want %d", prefix, n, consumed, len(buf))
			}
		}
	}
}

func TestDecodeIntTruncated(t *testing.T) {
	buf := appendInt(nil, 5, 0, 1000)
	for i := 0; i < len(buf); i++ {
		if _, _, err := decodeInt(buf[:i], 5); err == nil {
			t.Fatalf("decodeInt(%d bytes) of truncated input succeeded", i)
		}
	}
}

func TestDecodeIntOverflow(t *testing.T) {
	// An unbounded run of continuation bytes with the high bit set must
	// eventually be rejected rather than overflow silently.
	buf := []byte{31}
	for i := 0; i < 10; i++ {
		buf = append(buf, 0xff)
	}
	buf = append(buf, 0x7f)
	if _, _, err := decodeInt(buf, 5); err != ErrIntegerOverflow {
		t.Fatalf("got %v, want ErrIntegerOverflow", err)
	}
}

func TestAppendStringPlainRoundTrip(t *testing.T) {
	// A string whose Huffman form is not shorter (short runs of rare
	// bytes) should round-trip through the plain path.
	s := string([]byte{0, 1, 2, 3, 255, 254})
	buf := appendString(nil, s)
	got, n, err := decodeString(buf, 0)
	if err != nil {
		t.Fatalf("decodeString: %v", err)
	}
	if got != s || n != len(buf) {
		t.Fatalf("got %q (%d bytes), want %q (%d bytes)", got, n, s, len(buf))
	}
}

func TestAppendStringHuffmanRoundTrip(t *testing.T) {
	s := "www.example.com"
	buf := appendString(nil, s)
	if buf[0]&0x80 == 0 {
		t.Fatalf("expected Huffman bit set for %q", s)
	}
	got, n, err := decodeString(buf, 0)
	if err != nil {
		t.Fatalf("decodeString: %v", err)
	}
	if got != s || n != len(buf) {
		t.Fatalf("got %q (%d bytes), want %q (%d bytes)", got, n, s, len(buf))
	}
}

func TestDecodeStringMaxLen(t *testing.T) {
	buf := appendString(nil, "a sentence long enough to exceed a tiny limit")
	if _, _, err := decodeString(buf, 4); err == nil {
		t.Fatalf("expected length-limited decode to fail")
	}
}
