// Package config provides configuration loading, merging, and validation
// for a keychain store.
//
// Configuration is assembled from the following sources (later sources
// override earlier non-zero fields):
//  1. Environment variables (KEYCHAIN_*, STORAGE_*, CONFIG)
//  2. JSON config file
//
// The main entry points are [GetStructuredConfig], [GetPrefixedConfig] and
// [LoadFile].
package config
