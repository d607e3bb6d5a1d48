// Package keychain is a typed key-value facade over a secure credential
// store.
//
// A [Store] is scoped to one namespace (service name plus optional access
// group) and stores small secrets as bytes, UTF-8 strings or codec-encoded
// values under string keys:
//
//	s := keychain.New(v, query.NewGenericPassword("com.example.app", ""))
//	if err := s.WriteString(ctx, "token123", "session"); err != nil { ... }
//	tok, found, err := s.ReadString(ctx, "session")
//
// Reads report a missing key as found == false, never as an error, and
// removing a missing key succeeds. Every failure is an [Error] whose Kind
// tells serialization problems (encoding, decoding, string conversion)
// apart from vault failures.
//
// The vault has no atomic upsert. A write probes for the key and then
// issues exactly one update or insert, so two writers racing on a new key
// can see a duplicate-item failure; [WithInsertRaceRetry] retries once.
//
// [Open] builds a store and its backend from KEYCHAIN_* and STORAGE_*
// environment variables or a JSON file.
package keychain
