// Package vault defines the contract of the secure credential store behind
// the keychain facade, together with the backends shipped with the module:
//
//   - [NewMemoryVault]: process-local map, optionally persisted to a JSON
//     state file (the "memory" and "file" backends);
//   - [NewSQLVault]: a vault_items table in SQLite, PostgreSQL or MySQL;
//   - [NewSecurityCLIVault]: the macOS login keychain through the
//     `security` command line tool. Secrets pass through its argument list
//     and are visible to other local users while it runs.
//
// Backends report results as [Status] codes that mirror the platform
// keychain's OSStatus values. Driver and process errors are logged and
// translated to the closest status; they never cross the interface.
package vault
