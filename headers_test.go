package h2

import (
	"testing"

	"github.com/nilcore/h2/hpack"
)

func TestValidateHeaderBlockAcceptsWellFormedRequest(t *testing.T) {
	fields := []hpack.HeaderField{
		{Name: ":method", Value: "GET"},
		{Name: ":scheme", Value: "https"},
		{Name: ":authority", Value: "example.com"},
		{Name: ":path", Value: "/"},
		{Name: "accept-encoding", Value: "gzip"},
	}
	if err := ValidateHeaderBlock(1, fields, requestPseudoHeaders); err != nil {
		t.Fatal(err)
	}
}

func TestValidateHeaderBlockRejectsPseudoAfterRegular(t *testing.T) {
	fields := []hpack.HeaderField{
		{Name: ":method", Value: "GET"},
		{Name: "accept", Value: "*/*"},
		{Name: ":path", Value: "/"},
	}
	if err := ValidateHeaderBlock(1, fields, requestPseudoHeaders); err == nil {
		t.Fatalf("expected a StreamError for a pseudo-header after a regular field")
	}
}

func TestValidateHeaderBlockRejectsUnknownPseudoHeader(t *testing.T) {
	fields := []hpack.HeaderField{{Name: ":status", Value: "200"}}
	if err := ValidateHeaderBlock(1, fields, requestPseudoHeaders); err == nil {
		t.Fatalf("expected a StreamError for a response pseudo-header on a request")
	}
}

func TestValidateHeaderBlockRejectsDuplicatePseudoHeader(t *testing.T) {
	fields := []hpack.HeaderField{
		{Name: ":method", Value: "GET"},
		{Name: ":method", Value: "POST"},
	}
	if err := ValidateHeaderBlock(1, fields, requestPseudoHeaders); err == nil {
		t.Fatalf("expected a StreamError for a duplicate pseudo-header")
	}
}

func TestValidateHeaderBlockRejectsConnectionSpecificField(t *testing.T) {
	fields := []hpack.HeaderField{
		{Name: ":method", Value: "GET"},
		{Name: "connection", Value: "keep-alive"},
	}
	if err := ValidateHeaderBlock(1, fields, requestPseudoHeaders); err == nil {
		t.Fatalf("expected a StreamError for a connection-specific header field")
	}
}

func TestValidateHeaderBlockAllowsTeTrailersOnly(t *testing.T) {
	ok := []hpack.HeaderField{
		{Name: ":method", Value: "GET"},
		{Name: "te", Value: "trailers"},
	}
	if err := ValidateHeaderBlock(1, ok, requestPseudoHeaders); err != nil {
		t.Fatal(err)
	}
	bad := []hpack.HeaderField{
		{Name: ":method", Value: "GET"},
		{Name: "te", Value: "gzip"},
	}
	if err := ValidateHeaderBlock(1, bad, requestPseudoHeaders); err == nil {
		t.Fatalf(`expected a StreamError for "te" other than "trailers"`)
	}
}

func TestValidateHeaderBlockRejectsUppercaseName(t *testing.T) {
	fields := []hpack.HeaderField{
		{Name: ":method", Value: "GET"},
		{Name: "Accept", Value: "*/*"},
	}
	if err := ValidateHeaderBlock(1, fields, requestPseudoHeaders); err == nil {
		t.Fatalf("expected a StreamError for an uppercase header field name")
	}
}

func TestPseudoHeaderExtractionHelpers(t *testing.T) {
	fields := []hpack.HeaderField{
		{Name: ":method", Value: "POST"},
		{Name: ":scheme", Value: "https"},
		{Name: ":authority", Value: "example.com"},
		{Name: ":path", Value: "/upload"},
	}
	if RequestMethod(fields) != "POST" || RequestScheme(fields) != "https" ||
		RequestAuthority(fields) != "example.com" || RequestPath(fields) != "/upload" {
		t.Fatalf("got %+v", fields)
	}
	if RequestMethod(nil) != "" {
		t.Fatalf("expected empty string for a missing pseudo-header")
	}

	response := []hpack.HeaderField{{Name: ":status", Value: "404"}}
	if ResponseStatus(response) != "404" {
		t.Fatalf("got %q", ResponseStatus(response))
	}
}
