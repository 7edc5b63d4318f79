package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DecodePayload converts an event payload to T. Payloads published on the
// MemoryBus already have type T; anything else (maps decoded from JSON, older
// payload structs) is converted through a JSON round trip.
func DecodePayload[T any](input any) (T, error) {
	var result T
	if v, ok := input.(T); ok {
		return v, nil
	}
	if input == nil {
		return result, errors.New(ErrMsgNilPayload)
	}
	data, err := json.Marshal(input)
	if err != nil {
		return result, fmt.Errorf(ErrMsgDecodePayload, result, err)
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf(ErrMsgDecodePayload, result, err)
	}
	return result, nil
}

// Payload decodes evt's payload to T and checks the event carries the
// expected schema version.
func Payload[T any](evt Event) (T, error) {
	if evt.Version != "" && evt.Version != EventSchemaVersion {
		var zero T
		return zero, fmt.Errorf(ErrMsgVersionMismatch, evt.Type, evt.Version, EventSchemaVersion)
	}
	return DecodePayload[T](evt.Payload)
}
