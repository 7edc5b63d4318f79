package event

// EventSchemaVersion is stamped on every event built by the New*Event constructors
const EventSchemaVersion = "1.0"

// MetadataKeyEntryPoint names the script entry point an event relates to
const MetadataKeyEntryPoint = "entry_point"

const (
	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %v"

	ErrMsgNilPayload      = "event has no payload"
	ErrMsgDecodePayload   = "decode %T payload: %w"
	ErrMsgVersionMismatch = "event %s has schema version %s, expected %s"
)
