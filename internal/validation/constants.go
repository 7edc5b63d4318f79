package validation

// Log message constants
const (
	LogMsgAttributeViolation = "Suspicious weapon attribute"
)

// Schema validation messages
const (
	ErrMsgLoadSchema       = "failed to load schema %s: %w"
	ErrMsgParseSchema      = "failed to parse schema JSON"
	ErrMsgParseDocument    = "failed to parse JSON data"
	ErrMsgSchemaValidation = "schema validation failed"
)
