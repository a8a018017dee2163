package h2

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrefaceRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteClientPreface(&buf); err != nil {
		t.Fatal(err)
	}
	if err := ReadClientPreface(&buf); err != nil {
		t.Fatal(err)
	}
}

func TestPrefaceRejectsGarbage(t *testing.T) {
	r := strings.NewReader("GET / HTTP/1.1\r\nHost: example.com\r\n\r\n")
	err := ReadClientPreface(r)
	if err == nil {
		t.Fatalf("expected an error for a non-HTTP/2 preface")
	}
	if _, ok := err.(ConnectionError); !ok {
		t.Fatalf("got %T, want ConnectionError", err)
	}
}

func TestPrefaceRejectsTruncatedInput(t *testing.T) {
	err := ReadClientPreface(strings.NewReader("PRI * HTTP/2.0\r\n"))
	if err == nil {
		t.Fatalf("expected an error for a truncated preface")
	}
}
