package codec

import (
	"encoding/json"
	"fmt"
)

// JSON encodes values with encoding/json.
type JSON struct{}

// NewJSON returns the JSON codec, the default of the keychain store.
func NewJSON() JSON {
	return JSON{}
}

// Encode implements [Codec].
func (JSON) Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}
	return data, nil
}

// Decode implements [Codec].
func (JSON) Decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	return nil
}
