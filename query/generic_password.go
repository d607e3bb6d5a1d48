package query

// Queryable is implemented by every item family that can produce its base
// lookup descriptor.
type Queryable interface {
	Query() Descriptor
}

// GenericPassword is the namespace of a family of generic-password items.
type GenericPassword struct {
	// Service identifies the application or service owning the items.
	Service string

	// AccessGroup optionally shares items between applications. Empty means
	// the vault's default group.
	AccessGroup string

	// Restricted marks execution environments (simulators, sandboxes) whose
	// vault rejects the access group attribute. When set, AccessGroup is
	// never put on the wire.
	Restricted bool
}

// NewGenericPassword returns the namespace for service with an optional
// access group.
func NewGenericPassword(service, accessGroup string) GenericPassword {
	return GenericPassword{Service: service, AccessGroup: accessGroup}
}

// Query implements [Queryable]. The result depends only on the namespace,
// never on the account.
func (g GenericPassword) Query() Descriptor {
	q := Descriptor{
		AttrClass:   ClassGenericPassword,
		AttrService: g.Service,
	}

	if !g.Restricted && g.AccessGroup != "" {
		q[AttrAccessGroup] = g.AccessGroup
	}

	return q
}

// ForAccount returns a copy of base addressing the single item stored under
// account.
func ForAccount(base Descriptor, account string) Descriptor {
	return base.With(AttrAccount, account)
}
