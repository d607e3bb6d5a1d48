package vault

import (
	"context"

	"github.com/MKhiriev/go-keychain-store/query"
)

//go:generate mockgen -source=interfaces.go -destination=../internal/mock/vault_mock.go -package=mock

// Vault is the secure credential store the keychain facade talks to. It
// speaks in descriptors and native status codes only; mapping statuses to
// caller-facing errors is the facade's job.
//
// Implementations must be safe for concurrent use. None of them offers an
// atomic insert-or-update: Insert fails on an existing identity and Update
// fails on a missing one.
type Vault interface {
	// Probe checks whether at least one item matches q without returning
	// data. Returns StatusSuccess, StatusItemNotFound or another status.
	Probe(ctx context.Context, q query.Descriptor) Status

	// Fetch returns the payload of at most one item matching q. The payload
	// is a []byte for well-behaved backends.
	Fetch(ctx context.Context, q query.Descriptor) (any, Status)

	// Insert creates an item from q, which carries the identity attributes,
	// the accessibility and the value data. Returns StatusDuplicateItem when
	// an item with the same identity exists.
	Insert(ctx context.Context, q query.Descriptor) Status

	// Update applies attrs (currently only the value data) to every item
	// matching q. Returns StatusItemNotFound when nothing matches.
	Update(ctx context.Context, q query.Descriptor, attrs query.Descriptor) Status

	// Delete removes every item matching q. Returns StatusItemNotFound when
	// nothing matches.
	Delete(ctx context.Context, q query.Descriptor) Status

	// DescribeStatus returns a best-effort diagnostic for s.
	DescribeStatus(s Status) (string, bool)
}
