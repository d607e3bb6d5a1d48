// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package query

import "github.com/MKhiriev/go-keychain-store/models"

// Attribute is the name of a vault query attribute. Values mirror the
// platform keychain's attribute keys.
type Attribute string

const (
	// AttrClass selects the item class. Value type: [Class].
	AttrClass Attribute = "class"
	// AttrService is the namespace. Value type: string.
	AttrService Attribute = "svce"
	// AttrAccount is the per-secret lookup key. Value type: string.
	AttrAccount Attribute = "acct"
	// AttrAccessGroup is the cross-application sharing group. Value type: string.
	AttrAccessGroup Attribute = "agrp"
	// AttrAccessible is the accessibility class. Value type: [models.Accessibility].
	AttrAccessible Attribute = "pdmn"
	// AttrSynchronizable filters or marks synced items. Value type: bool or
	// [SynchronizableAny].
	AttrSynchronizable Attribute = "sync"
	// ValueData carries the secret payload. Value type: []byte.
	ValueData Attribute = "v_Data"
	// ReturnData asks a fetch to return the payload. Value type: bool.
	ReturnData Attribute = "r_Data"
	// MatchLimit bounds the number of matches. Value type: [Limit].
	MatchLimit Attribute = "m_Limit"
)

// Class is an item class.
type Class string

// ClassGenericPassword is the only item class the store writes.
const ClassGenericPassword Class = "genp"

// Limit is a match limit value.
type Limit string

const (
	MatchLimitOne Limit = "m_LimitOne"
	MatchLimitAll Limit = "m_LimitAll"
)

// syncAny is the type of [SynchronizableAny].
type syncAny struct{}

// SynchronizableAny as the value of [AttrSynchronizable] matches synced and
// unsynced items alike. It is only meaningful for lookups and deletes.
var SynchronizableAny = syncAny{}

// Descriptor is a vault query: attribute name to value. Descriptors are built
// fresh for every operation and never persisted.
type Descriptor map[Attribute]any

// Clone returns a shallow copy of d.
func (d Descriptor) Clone() Descriptor {
	out := make(Descriptor, len(d)+2)
	for k, v := range d {
		out[k] = v
	}
	return out
}

// With returns a copy of d with attr set to value. d is left untouched.
func (d Descriptor) With(attr Attribute, value any) Descriptor {
	out := d.Clone()
	out[attr] = value
	return out
}

// Has reports whether attr is present.
func (d Descriptor) Has(attr Attribute) bool {
	_, ok := d[attr]
	return ok
}

// StringValue returns the string value of attr. ok is false when the attribute
// is missing or not a string.
func (d Descriptor) StringValue(attr Attribute) (string, bool) {
	s, ok := d[attr].(string)
	return s, ok
}

// Bytes returns the []byte value of attr.
func (d Descriptor) Bytes(attr Attribute) ([]byte, bool) {
	b, ok := d[attr].([]byte)
	return b, ok
}

// Class returns the item class, if set.
func (d Descriptor) Class() (Class, bool) {
	c, ok := d[AttrClass].(Class)
	return c, ok
}

// Accessible returns the accessibility class, if set.
func (d Descriptor) Accessible() (models.Accessibility, bool) {
	a, ok := d[AttrAccessible].(models.Accessibility)
	return a, ok
}

// SyncFilter describes how a descriptor constrains the synchronizable
// attribute.
type SyncFilter int

const (
	// SyncOnlyLocal matches non-synchronizable items. It is the filter of a
	// descriptor without [AttrSynchronizable].
	SyncOnlyLocal SyncFilter = iota
	// SyncOnlySynced matches synchronizable items.
	SyncOnlySynced
	// SyncAny matches both.
	SyncAny
)

// Sync returns the synchronizable filter of d. ok is false when the
// attribute holds a value of an unsupported type.
func (d Descriptor) Sync() (filter SyncFilter, ok bool) {
	v, present := d[AttrSynchronizable]
	if !present {
		return SyncOnlyLocal, true
	}

	switch val := v.(type) {
	case bool:
		if val {
			return SyncOnlySynced, true
		}
		return SyncOnlyLocal, true
	case syncAny:
		return SyncAny, true
	}

	return SyncOnlyLocal, false
}
