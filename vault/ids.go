package vault

import "github.com/google/uuid"

// newItemID returns a time-ordered item reference, falling back to a random
// UUID when the v7 generator fails.
func newItemID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
