package codec

import "errors"

var (
	// ErrNotProtoMessage is returned by the protobuf codecs for values that
	// do not implement proto.Message.
	ErrNotProtoMessage = errors.New("value is not a proto.Message")
)
