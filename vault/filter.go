package vault

import (
	"time"

	"github.com/MKhiriev/go-keychain-store/models"
	"github.com/MKhiriev/go-keychain-store/query"
)

// itemFilter is the backend-neutral form of a lookup descriptor. Nil string
// pointers mean "attribute not constrained".
type itemFilter struct {
	class       query.Class
	service     *string
	account     *string
	accessGroup *string
	sync        query.SyncFilter
}

// parseFilter validates q and extracts the attributes the bundled backends
// understand. Only generic passwords are supported.
func parseFilter(q query.Descriptor) (itemFilter, Status) {
	class, ok := q.Class()
	if !ok {
		return itemFilter{}, StatusParam
	}
	if class != query.ClassGenericPassword {
		return itemFilter{}, StatusUnimplemented
	}

	f := itemFilter{class: class}

	for attr, dst := range map[query.Attribute]**string{
		query.AttrService:     &f.service,
		query.AttrAccount:     &f.account,
		query.AttrAccessGroup: &f.accessGroup,
	} {
		if !q.Has(attr) {
			continue
		}
		s, ok := q.StringValue(attr)
		if !ok {
			return itemFilter{}, StatusParam
		}
		*dst = &s
	}

	sync, ok := q.Sync()
	if !ok {
		return itemFilter{}, StatusParam
	}
	f.sync = sync

	return f, StatusSuccess
}

func (f itemFilter) matches(it *models.VaultItem) bool {
	if it.Class != string(f.class) {
		return false
	}
	if f.service != nil && it.Service != *f.service {
		return false
	}
	if f.account != nil && it.Account != *f.account {
		return false
	}
	if f.accessGroup != nil && it.AccessGroup != *f.accessGroup {
		return false
	}

	switch f.sync {
	case query.SyncOnlyLocal:
		return !it.Synchronizable
	case query.SyncOnlySynced:
		return it.Synchronizable
	}
	return true
}

// newItem builds the item an Insert call describes. The descriptor must
// carry the value data and must not use SynchronizableAny.
func newItem(q query.Descriptor, id string, now time.Time) (*models.VaultItem, Status) {
	f, st := parseFilter(q)
	if st != StatusSuccess {
		return nil, st
	}
	if f.sync == query.SyncAny {
		return nil, StatusParam
	}

	data, ok := q.Bytes(query.ValueData)
	if !ok {
		return nil, StatusParam
	}

	accessible := models.AccessibleWhenUnlocked
	if q.Has(query.AttrAccessible) {
		a, ok := q.Accessible()
		if !ok || !a.Valid() {
			return nil, StatusParam
		}
		accessible = a
	}

	it := &models.VaultItem{
		ItemID:         id,
		Class:          string(f.class),
		Accessible:     accessible,
		Synchronizable: f.sync == query.SyncOnlySynced,
		Data:           cloneBytes(data),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if f.service != nil {
		it.Service = *f.service
	}
	if f.account != nil {
		it.Account = *f.account
	}
	if f.accessGroup != nil {
		it.AccessGroup = *f.accessGroup
	}

	return it, StatusSuccess
}

// updateData extracts the new payload from Update attributes.
func updateData(attrs query.Descriptor) ([]byte, Status) {
	data, ok := attrs.Bytes(query.ValueData)
	if !ok {
		return nil, StatusParam
	}
	return cloneBytes(data), StatusSuccess
}

// cloneBytes copies b into a fresh, never-nil slice so an empty secret stays
// distinguishable from a missing column.
func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
