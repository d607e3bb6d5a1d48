// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Proto encodes proto.Message values in the binary wire format.
type Proto struct {
	Marshal   proto.MarshalOptions
	Unmarshal proto.UnmarshalOptions
}

// NewProto returns a binary protobuf codec with deterministic output.
func NewProto() Proto {
	return Proto{Marshal: proto.MarshalOptions{Deterministic: true}}
}

// Encode implements [Codec].
func (c Proto) Encode(v any) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("proto encode %T: %w", v, ErrNotProtoMessage)
	}

	data, err := c.Marshal.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("proto encode: %w", err)
	}
	return data, nil
}

// Decode implements [Codec]. v must be a pointer to a generated message.
func (c Proto) Decode(data []byte, v any) error {
	m, ok := v.(proto.Message)
	if !ok {
		return fmt.Errorf("proto decode %T: %w", v, ErrNotProtoMessage)
	}

	if err := c.Unmarshal.Unmarshal(data, m); err != nil {
		return fmt.Errorf("proto decode: %w", err)
	}
	return nil
}

// ProtoJSON encodes proto.Message values in the canonical JSON mapping.
type ProtoJSON struct {
	Marshal   protojson.MarshalOptions
	Unmarshal protojson.UnmarshalOptions
}

// NewProtoJSON returns a protojson codec that tolerates unknown fields on
// decode, so items written by newer schemas stay readable.
func NewProtoJSON() ProtoJSON {
	return ProtoJSON{Unmarshal: protojson.UnmarshalOptions{DiscardUnknown: true}}
}

// Encode implements [Codec].
func (c ProtoJSON) Encode(v any) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("protojson encode %T: %w", v, ErrNotProtoMessage)
	}

	data, err := c.Marshal.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("protojson encode: %w", err)
	}
	return data, nil
}

// Decode implements [Codec].
func (c ProtoJSON) Decode(data []byte, v any) error {
	m, ok := v.(proto.Message)
	if !ok {
		return fmt.Errorf("protojson decode %T: %w", v, ErrNotProtoMessage)
	}

	if err := c.Unmarshal.Unmarshal(data, m); err != nil {
		return fmt.Errorf("protojson decode: %w", err)
	}
	return nil
}
