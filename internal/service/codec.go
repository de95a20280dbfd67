package service

import (
	"encoding/json"
	"fmt"
)

// Codec is the Connect codec for the rental service. Messages are plain Go
// structs, so both handlers and clients must be configured with it.
var Codec jsonCodec

// jsonCodec marshals messages with encoding/json under the "json" name,
// replacing Connect's default protobuf JSON codec.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", msg, err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", msg, err)
	}
	return nil
}
