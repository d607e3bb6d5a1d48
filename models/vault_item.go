package models

import "time"

// VaultItem is a single generic-password item as persisted by the bundled
// vault backends (memory, file and SQL). Identity is the tuple
// (Class, Service, Account, AccessGroup, Synchronizable).
type VaultItem struct {
	// ItemID is a backend-assigned persistent reference (UUID v7).
	ItemID string `json:"item_id"`

	// Class is the item class, always "genp" for generic passwords.
	Class string `json:"class"`

	// Service is the namespace the item belongs to.
	Service string `json:"service"`

	// Account is the caller-supplied lookup key.
	Account string `json:"account"`

	// AccessGroup is the sharing group, empty when not set.
	AccessGroup string `json:"access_group,omitempty"`

	// Accessible is the accessibility class requested at insert time.
	Accessible Accessibility `json:"accessible"`

	// Synchronizable marks items mirrored across devices.
	Synchronizable bool `json:"synchronizable"`

	// Data is the opaque secret payload.
	Data []byte `json:"data"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
