package h2

// Settings is the RFC 7540 §6.5.2 parameter set, either side's view of
// what the other has advertised (or what we intend to advertise).
type Settings struct {
	HeaderTableSize      uint32
	EnablePush           bool
	MaxConcurrentStreams uint32 // 0 means "unbounded" (the spec default)
	InitialWindowSize    uint32
	MaxFrameSize         uint32
	MaxHeaderListSize    uint32 // 0 means "unbounded"
}

// DefaultSettings returns the RFC 7540 §6.5.2 initial values, in effect
// for both endpoints until a SETTINGS frame changes them.
func DefaultSettings() Settings {
	return Settings{
		HeaderTableSize:      4096,
		EnablePush:           true,
		MaxConcurrentStreams: 0,
		InitialWindowSize:    65535,
		MaxFrameSize:         MaxFrameSize,
		MaxHeaderListSize:    0,
	}
}

// applySetting folds one (id, value) pair from a SETTINGS frame into s,
// returning a ConnectionError for any value RFC 7540 §6.5.2 declares
// invalid outright. Unknown identifiers are ignored per §6.5.2's "An
// endpoint that receives a SETTINGS frame with any unknown or
// unsupported identifier MUST ignore that setting."
func (s *Settings) applySetting(id SettingID, val uint32) error {
	switch id {
	case SettingHeaderTableSize:
		s.HeaderTableSize = val
	case SettingEnablePush:
		if val > 1 {
			return ConnectionError{Code: ErrCodeProtocol, Reason: "SETTINGS_ENABLE_PUSH must be 0 or 1"}
		}
		s.EnablePush = val == 1
	case SettingMaxConcurrentStreams:
		s.MaxConcurrentStreams = val
	case SettingInitialWindowSize:
		if val > 1<<31-1 {
			return ConnectionError{Code: ErrCodeFlowControl, Reason: "SETTINGS_INITIAL_WINDOW_SIZE exceeds 2^31-1"}
		}
		s.InitialWindowSize = val
	case SettingMaxFrameSize:
		if val < MaxFrameSize || val > maxFrameSizeLimit {
			return ConnectionError{Code: ErrCodeProtocol, Reason: "SETTINGS_MAX_FRAME_SIZE out of [2^14, 2^24-1]"}
		}
		s.MaxFrameSize = val
	case SettingMaxHeaderListSize:
		s.MaxHeaderListSize = val
	}
	return nil
}

// pendingSettings is one SETTINGS frame this endpoint has sent and is
// still waiting to see acknowledged. The connection orchestrator pops one
// per SETTINGS ack and only then applies its HeaderTableSize to the HPACK
// decoder. The other values take effect in Conn.local as soon as the
// frame is written; they are not held back until the ack.
type pendingSettings struct {
	values Settings
}
