// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"strings"
)

// Accessibility is the vault accessibility class of a stored item. It
// controls when the item's data may be read back. The string values are the
// platform keychain's short attribute codes, so they can be handed to a
// native vault unchanged.
type Accessibility string

const (
	// AccessibleWhenUnlocked makes the item readable only while the device
	// is unlocked. This is the default.
	AccessibleWhenUnlocked Accessibility = "ak"

	// AccessibleWhenUnlockedThisDeviceOnly is AccessibleWhenUnlocked, but the
	// item never migrates to another device through backups.
	AccessibleWhenUnlockedThisDeviceOnly Accessibility = "aku"

	// AccessibleAfterFirstUnlock makes the item readable after the first
	// unlock following a restart, until the next restart.
	AccessibleAfterFirstUnlock Accessibility = "ck"

	// AccessibleAfterFirstUnlockThisDeviceOnly is AccessibleAfterFirstUnlock
	// without migration to other devices.
	AccessibleAfterFirstUnlockThisDeviceOnly Accessibility = "cku"

	// AccessibleWhenPasscodeSetThisDeviceOnly makes the item readable only
	// while unlocked and only if a device passcode is set.
	AccessibleWhenPasscodeSetThisDeviceOnly Accessibility = "akpu"
)

// accessibilityNames maps configuration names to accessibility classes.
var accessibilityNames = map[string]Accessibility{
	"when_unlocked":                       AccessibleWhenUnlocked,
	"when_unlocked_this_device_only":      AccessibleWhenUnlockedThisDeviceOnly,
	"after_first_unlock":                  AccessibleAfterFirstUnlock,
	"after_first_unlock_this_device_only": AccessibleAfterFirstUnlockThisDeviceOnly,
	"when_passcode_set_this_device_only":  AccessibleWhenPasscodeSetThisDeviceOnly,
}

// ParseAccessibility converts a configuration name such as "when_unlocked"
// (case-insensitive) or a raw attribute code such as "ak" into an
// [Accessibility]. An empty string yields [AccessibleWhenUnlocked].
func ParseAccessibility(s string) (Accessibility, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return AccessibleWhenUnlocked, nil
	}

	if a, ok := accessibilityNames[name]; ok {
		return a, nil
	}

	if a := Accessibility(name); a.Valid() {
		return a, nil
	}

	return "", fmt.Errorf("unknown accessibility %q", s)
}

// Valid reports whether a is one of the known accessibility classes.
func (a Accessibility) Valid() bool {
	switch a {
	case AccessibleWhenUnlocked,
		AccessibleWhenUnlockedThisDeviceOnly,
		AccessibleAfterFirstUnlock,
		AccessibleAfterFirstUnlockThisDeviceOnly,
		AccessibleWhenPasscodeSetThisDeviceOnly:
		return true
	}
	return false
}

// AccessPolicy describes when a written secret is accessible and whether the
// vault should synchronize it across the user's devices.
//
// AccessPolicy is a plain value: copy it freely, never mutate a shared one.
type AccessPolicy struct {
	// Accessibility is requested on insert. Zero means [AccessibleWhenUnlocked].
	Accessibility Accessibility `json:"accessibility"`

	// Synchronizable asks the vault to mirror the item to the user's other
	// devices. When true the synchronizable attribute is attached to every
	// write, read and delete query; when false it is omitted.
	Synchronizable bool `json:"synchronizable"`
}

// DefaultAccessPolicy returns the policy used when none is configured:
// accessible while unlocked, not synchronized.
func DefaultAccessPolicy() AccessPolicy {
	return AccessPolicy{
		Accessibility:  AccessibleWhenUnlocked,
		Synchronizable: false,
	}
}

// EffectiveAccessibility returns the policy's accessibility, falling back to
// [AccessibleWhenUnlocked] for the zero value.
func (p AccessPolicy) EffectiveAccessibility() Accessibility {
	if p.Accessibility == "" {
		return AccessibleWhenUnlocked
	}
	return p.Accessibility
}
