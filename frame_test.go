package h2

import (
	"bytes"
	"testing"
)

func TestFrameHeaderRoundTrip(t *testing.T) {
	fr := NewFramer(nil, nil)
	var buf bytes.Buffer
	fr.w = &buf
	if err := fr.WritePing(false, [8]byte{1, 2, 3, 4, 5, 6, 7, 8}); err != nil {
		t.Fatal(err)
	}
	fr.r = &buf
	f, err := fr.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	pf, ok := f.(*PingFrame)
	if !ok {
		t.Fatalf("got %T, want *PingFrame", f)
	}
	if pf.Data != [8]byte{1, 2, 3, 4, 5, 6, 7, 8} {
		t.Fatalf("got %v", pf.Data)
	}
	if pf.IsAck() {
		t.Fatalf("expected non-ack ping")
	}
}

func TestFrameDataRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	fr := NewFramer(&buf, &buf)
	if err := fr.WriteData(3, true, []byte("hello world")); err != nil {
		t.Fatal(err)
	}
	f, err := fr.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	df, ok := f.(*DataFrame)
	if !ok {
		t.Fatalf("got %T, want *DataFrame", f)
	}
	if string(df.Data()) != "hello world" || !df.StreamEnded() || df.StreamID != 3 {
		t.Fatalf("got data=%q endStream=%v streamID=%d", df.Data(), df.StreamEnded(), df.StreamID)
	}
}

func TestFrameSettingsRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	fr := NewFramer(&buf, &buf)
	if err := fr.WriteSettings(
		Setting{ID: SettingInitialWindowSize, Val: 1 << 20},
		Setting{ID: SettingMaxFrameSize, Val: 1 << 16},
	); err != nil {
		t.Fatal(err)
	}
	f, err := fr.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	sf, ok := f.(*SettingsFrame)
	if !ok {
		t.Fatalf("got %T, want *SettingsFrame", f)
	}
	if v, ok := sf.Value(SettingInitialWindowSize); !ok || v != 1<<20 {
		t.Fatalf("got (%d,%v)", v, ok)
	}
	if v, ok := sf.Value(SettingMaxFrameSize); !ok || v != 1<<16 {
		t.Fatalf("got (%d,%v)", v, ok)
	}
	if sf.IsAck() {
		t.Fatalf("expected non-ack settings")
	}
}

func TestFrameSettingsAckMustBeEmpty(t *testing.T) {
	_, err := parseSettingsFrame(FrameHeader{Flags: FlagSettingsAck, Length: 6}, make([]byte, 6))
	if err == nil {
		t.Fatalf("expected error for non-empty SETTINGS ack")
	}
}

func TestFrameHeadersAndContinuationReassembly(t *testing.T) {
	var buf bytes.Buffer
	fr := NewFramer(&buf, &buf)
	block := bytes.Repeat([]byte{0x88}, 40) // arbitrary bytes, framing doesn't inspect HPACK content
	fr.SetMaxWriteFrameSize(16)
	if err := fr.WriteHeaders(HeadersFrameParam{
		StreamID:      1,
		BlockFragment: block[:16],
		EndHeaders:    false,
	}); err != nil {
		t.Fatal(err)
	}
	if err := fr.WriteContinuation(1, false, block[16:32]); err != nil {
		t.Fatal(err)
	}
	if err := fr.WriteContinuation(1, true, block[32:]); err != nil {
		t.Fatal(err)
	}

	f, err := fr.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	hf := f.(*HeadersFrame)
	reassembled, err := fr.ReadHeaderBlock(hf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(reassembled, block) {
		t.Fatalf("reassembled %d bytes, want %d", len(reassembled), len(block))
	}
}

func TestFrameContinuationWrongStreamRejected(t *testing.T) {
	var buf bytes.Buffer
	fr := NewFramer(&buf, &buf)
	if err := fr.WriteHeaders(HeadersFrameParam{StreamID: 1, BlockFragment: []byte{1}, EndHeaders: false}); err != nil {
		t.Fatal(err)
	}
	if err := fr.WriteContinuation(3, true, []byte{2}); err != nil {
		t.Fatal(err)
	}
	f, err := fr.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fr.ReadHeaderBlock(f.(*HeadersFrame)); err == nil {
		t.Fatalf("expected error for CONTINUATION on the wrong stream")
	}
}

func TestFrameGoAwayRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	fr := NewFramer(&buf, &buf)
	if err := fr.WriteGoAway(41, ErrCodeProtocol, []byte("bad request line")); err != nil {
		t.Fatal(err)
	}
	f, err := fr.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	gf := f.(*GoAwayFrame)
	if gf.LastStreamID != 41 || gf.ErrCode != ErrCodeProtocol || string(gf.DebugData()) != "bad request line" {
		t.Fatalf("got %+v", gf)
	}
}

func TestFrameZeroStreamIDRejectedForDataAndHeaders(t *testing.T) {
	if _, err := parseDataFrame(FrameHeader{StreamID: 0}, nil); err == nil {
		t.Fatalf("expected error for DATA on stream 0")
	}
	if _, err := parseHeadersFrame(FrameHeader{StreamID: 0}, nil); err == nil {
		t.Fatalf("expected error for HEADERS on stream 0")
	}
}

func TestFramePushPromiseRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	fr := NewFramer(&buf, &buf)
	if err := fr.WritePushPromise(PushPromiseParam{
		StreamID:      1,
		PromiseID:     2,
		BlockFragment: []byte{0x88},
		EndHeaders:    true,
	}); err != nil {
		t.Fatal(err)
	}
	f, err := fr.ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	pp, ok := f.(*PushPromiseFrame)
	if !ok {
		t.Fatalf("got %T, want *PushPromiseFrame", f)
	}
	if pp.StreamID != 1 || pp.PromiseID != 2 || !pp.HeadersEnded() {
		t.Fatalf("got %+v", pp)
	}
}

func TestFramePushPromiseRejectsInvalidPromiseID(t *testing.T) {
	payload := func(id uint32) []byte {
		b := make([]byte, 4)
		b[0] = byte(id >> 24)
		b[1] = byte(id >> 16)
		b[2] = byte(id >> 8)
		b[3] = byte(id)
		return b
	}
	if _, err := parsePushPromiseFrame(FrameHeader{StreamID: 1}, payload(0)); err == nil {
		t.Fatalf("expected error for a zero promised stream ID")
	}
	if _, err := parsePushPromiseFrame(FrameHeader{StreamID: 1}, payload(3)); err == nil {
		t.Fatalf("expected error for an odd (client-parity) promised stream ID")
	}
	if _, err := parsePushPromiseFrame(FrameHeader{StreamID: 1}, payload(4)); err != nil {
		t.Fatalf("unexpected error for a valid even promised stream ID: %v", err)
	}
}
