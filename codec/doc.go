// Package codec provides the serialization capability injected into the
// keychain store: [JSON] for plain Go values and [Proto] / [ProtoJSON] for
// generated protobuf messages.
package codec
