// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package keychain

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-keychain-store/vault"
)

// Kind is the variant of an [Error]. The set is closed.
type Kind uint8

const (
	// KindItemNotFound: the vault has no matching item. Only explicit
	// lookups report it; reads return an absent value instead.
	KindItemNotFound Kind = iota + 1
	// KindUnexpectedStatus: the vault reported success with a payload of
	// the wrong shape.
	KindUnexpectedStatus
	// KindEncoding: the codec failed to serialize a value.
	KindEncoding
	// KindDecoding: the codec failed to deserialize a stored payload.
	KindDecoding
	// KindStringConversion: text is not valid UTF-8.
	KindStringConversion
	// KindUnhandled: any other vault status.
	KindUnhandled
)

var kindNames = map[Kind]string{
	KindItemNotFound:     "item not found",
	KindUnexpectedStatus: "unexpected status",
	KindEncoding:         "encoding error",
	KindDecoding:         "decoding error",
	KindStringConversion: "string conversion error",
	KindUnhandled:        "unhandled error",
}

var kindLabels = map[Kind]string{
	KindItemNotFound:     "item_not_found",
	KindUnexpectedStatus: "unexpected_status",
	KindEncoding:         "encoding_error",
	KindDecoding:         "decoding_error",
	KindStringConversion: "string_conversion_error",
	KindUnhandled:        "unhandled_error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error is the single error type returned by [Store]. Callers switch on
// Kind, or match a sentinel with errors.Is:
//
//	if errors.Is(err, keychain.ErrDecoding) { ... }
type Error struct {
	Kind Kind
	// Status is the raw vault status for ItemNotFound, UnexpectedStatus and
	// Unhandled errors.
	Status vault.Status
	// Message is the vault's diagnostic for Unhandled errors.
	Message string
	// Err is the codec or context cause, if any.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnexpectedStatus:
		return fmt.Sprintf("keychain: unexpected status %d", int32(e.Status))
	case KindEncoding, KindDecoding:
		if e.Err != nil {
			return "keychain: " + e.Kind.String() + ": " + e.Err.Error()
		}
	case KindUnhandled:
		return fmt.Sprintf("keychain: unhandled error: %s (status %d)", e.Message, int32(e.Status))
	}
	return "keychain: " + e.Kind.String()
}

// Unwrap exposes the codec or context cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrItemNotFound     = &Error{Kind: KindItemNotFound}
	ErrUnexpectedStatus = &Error{Kind: KindUnexpectedStatus}
	ErrEncoding         = &Error{Kind: KindEncoding}
	ErrDecoding         = &Error{Kind: KindDecoding}
	ErrStringConversion = &Error{Kind: KindStringConversion}
	ErrUnhandled        = &Error{Kind: KindUnhandled}
)

// unknownErrorMessage is used when the vault has no description of a status.
const unknownErrorMessage = "Unknown error"

// mapStatus converts a non-success vault status into an *Error.
func mapStatus(v vault.Vault, st vault.Status) error {
	switch st {
	case vault.StatusSuccess:
		return nil
	case vault.StatusItemNotFound:
		return &Error{Kind: KindItemNotFound, Status: st}
	}

	msg, ok := v.DescribeStatus(st)
	if !ok || msg == "" {
		msg = unknownErrorMessage
	}
	return &Error{Kind: KindUnhandled, Status: st, Message: msg}
}

// wrapCodecError wraps a raw codec failure as kind. Errors that already are
// an *Error pass through unchanged.
func wrapCodecError(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	var kerr *Error
	if errors.As(err, &kerr) {
		return err
	}
	return &Error{Kind: kind, Err: err}
}

// wrapContextError turns a context error that escaped the retry loop into
// an Unhandled error carrying the cancellation status.
func wrapContextError(err error) error {
	var kerr *Error
	if err == nil || errors.As(err, &kerr) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		msg, _ := vault.DescribeStatus(vault.StatusUserCanceled)
		return &Error{Kind: KindUnhandled, Status: vault.StatusUserCanceled, Message: msg, Err: err}
	}
	return &Error{Kind: KindUnhandled, Message: err.Error(), Err: err}
}

// errorLabel is the metrics label of err.
func errorLabel(err error) string {
	var kerr *Error
	if errors.As(err, &kerr) {
		if label, ok := kindLabels[kerr.Kind]; ok {
			return label
		}
	}
	return "error"
}
