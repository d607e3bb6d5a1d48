// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import "strconv"

// Status is a vault-native result code. Values mirror the platform
// keychain's OSStatus codes so a native binding can pass them through.
type Status int32

const (
	StatusSuccess               Status = 0
	StatusUnimplemented         Status = -4
	StatusIO                    Status = -36
	StatusParam                 Status = -50
	StatusUserCanceled          Status = -128
	StatusNotAvailable          Status = -25291
	StatusAuthFailed            Status = -25293
	StatusDuplicateItem         Status = -25299
	StatusItemNotFound          Status = -25300
	StatusInteractionNotAllowed Status = -25308
	StatusDecode                Status = -26275
	StatusMissingEntitlement    Status = -34018
)

var statusMessages = map[Status]string{
	StatusSuccess:               "No error.",
	StatusUnimplemented:         "Function or operation not implemented.",
	StatusIO:                    "I/O error.",
	StatusParam:                 "One or more parameters passed to a function were not valid.",
	StatusUserCanceled:          "User canceled the operation.",
	StatusNotAvailable:          "No keychain is available.",
	StatusAuthFailed:            "The user name or passphrase you entered is not correct.",
	StatusDuplicateItem:         "The specified item already exists in the keychain.",
	StatusItemNotFound:          "The specified item could not be found in the keychain.",
	StatusInteractionNotAllowed: "User interaction is not allowed.",
	StatusDecode:                "Unable to decode the provided data.",
	StatusMissingEntitlement:    "A required entitlement isn't present.",
}

// DescribeStatus returns the human-readable message for a known status.
// ok is false for codes this package does not know.
func DescribeStatus(s Status) (msg string, ok bool) {
	msg, ok = statusMessages[s]
	return msg, ok
}

// String returns the message for known codes and the numeric code otherwise.
func (s Status) String() string {
	if msg, ok := statusMessages[s]; ok {
		return msg
	}
	return "OSStatus " + strconv.Itoa(int(s))
}

// statusFromExitCode recovers a status from a process exit code. Keychain
// command line tools exit with the low byte of the failing OSStatus.
func statusFromExitCode(code int) Status {
	if code == 0 {
		return StatusSuccess
	}
	for s := range statusMessages {
		if s != StatusSuccess && int(uint32(s)&0xff) == code {
			return s
		}
	}
	return StatusIO
}
