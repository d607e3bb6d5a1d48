// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/MKhiriev/go-keychain-store/internal/logger"
	"github.com/MKhiriev/go-keychain-store/models"
	"github.com/MKhiriev/go-keychain-store/query"
)

// memoryVault keeps items in a map guarded by a RWMutex. With a non-empty
// path every mutation is flushed to a JSON state file (0600) and the file is
// loaded on construction.
type memoryVault struct {
	path     string
	inMemory bool
	logger   *logger.Logger

	mu    sync.RWMutex
	items map[string]*models.VaultItem
	now   func() time.Time
}

type memoryPersistedState struct {
	Items []*models.VaultItem `json:"items"`
}

// NewMemoryVault returns a process-local [Vault]. An empty path, ":memory:"
// or "memory" keeps everything in memory; any other path is used as the JSON
// state file of the "file" backend.
func NewMemoryVault(path string, log *logger.Logger) (Vault, error) {
	if log == nil {
		log = logger.Nop()
	}

	v := &memoryVault{
		path:     path,
		inMemory: path == "" || path == ":memory:" || path == "memory",
		logger:   log,
		items:    make(map[string]*models.VaultItem),
		now:      time.Now,
	}
	if err := v.load(); err != nil {
		return nil, err
	}
	return v, nil
}

func itemKey(it *models.VaultItem) string {
	return it.Class + "\x00" + it.Service + "\x00" + it.Account + "\x00" +
		it.AccessGroup + "\x00" + strconv.FormatBool(it.Synchronizable)
}

// Probe implements [Vault].
func (v *memoryVault) Probe(_ context.Context, q query.Descriptor) Status {
	_, st := v.first(q, false)
	return st
}

// Fetch implements [Vault].
func (v *memoryVault) Fetch(_ context.Context, q query.Descriptor) (any, Status) {
	data, st := v.first(q, true)
	if st != StatusSuccess {
		return nil, st
	}
	return data, StatusSuccess
}

// Insert implements [Vault].
func (v *memoryVault) Insert(_ context.Context, q query.Descriptor) Status {
	it, st := newItem(q, newItemID(), v.now())
	if st != StatusSuccess {
		return st
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	key := itemKey(it)
	if _, exists := v.items[key]; exists {
		return StatusDuplicateItem
	}
	v.items[key] = it

	if err := v.persist(); err != nil {
		delete(v.items, key)
		v.logger.Err(err).Str("func", "memoryVault.Insert").Msg("failed to persist vault state")
		return StatusIO
	}
	return StatusSuccess
}

// Update implements [Vault].
func (v *memoryVault) Update(_ context.Context, q query.Descriptor, attrs query.Descriptor) Status {
	f, st := parseFilter(q)
	if st != StatusSuccess {
		return st
	}
	data, st := updateData(attrs)
	if st != StatusSuccess {
		return st
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	type prev struct {
		data      []byte
		updatedAt time.Time
	}
	touched := make(map[*models.VaultItem]prev)
	now := v.now()
	for _, it := range v.items {
		if !f.matches(it) {
			continue
		}
		touched[it] = prev{data: it.Data, updatedAt: it.UpdatedAt}
		it.Data = cloneBytes(data)
		it.UpdatedAt = now
	}
	if len(touched) == 0 {
		return StatusItemNotFound
	}

	if err := v.persist(); err != nil {
		for it, p := range touched {
			it.Data, it.UpdatedAt = p.data, p.updatedAt
		}
		v.logger.Err(err).Str("func", "memoryVault.Update").Msg("failed to persist vault state")
		return StatusIO
	}
	return StatusSuccess
}

// Delete implements [Vault].
func (v *memoryVault) Delete(_ context.Context, q query.Descriptor) Status {
	f, st := parseFilter(q)
	if st != StatusSuccess {
		return st
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	removed := make(map[string]*models.VaultItem)
	for key, it := range v.items {
		if f.matches(it) {
			removed[key] = it
			delete(v.items, key)
		}
	}
	if len(removed) == 0 {
		return StatusItemNotFound
	}

	if err := v.persist(); err != nil {
		for key, it := range removed {
			v.items[key] = it
		}
		v.logger.Err(err).Str("func", "memoryVault.Delete").Msg("failed to persist vault state")
		return StatusIO
	}
	return StatusSuccess
}

// DescribeStatus implements [Vault].
func (v *memoryVault) DescribeStatus(s Status) (string, bool) {
	return DescribeStatus(s)
}

// first finds the matching item with the smallest key so repeated lookups
// are deterministic. With withData it returns a copy of the payload taken
// under the read lock; items are mutated in place by Update.
func (v *memoryVault) first(q query.Descriptor, withData bool) ([]byte, Status) {
	f, st := parseFilter(q)
	if st != StatusSuccess {
		return nil, st
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	var keys []string
	for key, it := range v.items {
		if f.matches(it) {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil, StatusItemNotFound
	}

	if !withData {
		return nil, StatusSuccess
	}

	slices.Sort(keys)
	return cloneBytes(v.items[keys[0]].Data), StatusSuccess
}

func (v *memoryVault) load() error {
	if v.inMemory {
		return nil
	}

	data, err := os.ReadFile(v.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read vault state file: %w", err)
	}

	var st memoryPersistedState
	if err = json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("decode vault state file: %w", err)
	}

	for _, it := range st.Items {
		if it == nil {
			continue
		}
		if it.Data == nil {
			it.Data = []byte{}
		}
		v.items[itemKey(it)] = it
	}

	return nil
}

// persist must be called with v.mu held for writing.
func (v *memoryVault) persist() error {
	if v.inMemory {
		return nil
	}

	dir := filepath.Dir(v.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create vault state dir: %w", err)
		}
	}

	keys := make([]string, 0, len(v.items))
	for key := range v.items {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	state := memoryPersistedState{Items: make([]*models.VaultItem, 0, len(keys))}
	for _, key := range keys {
		state.Items = append(state.Items, v.items[key])
	}

	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode vault state: %w", err)
	}

	tmp := v.path + ".tmp"
	if err = os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write vault state file: %w", err)
	}
	if err = os.Rename(tmp, v.path); err != nil {
		return fmt.Errorf("replace vault state file: %w", err)
	}

	return nil
}
