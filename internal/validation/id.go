package validation

import (
	"fmt"

	"github.com/google/uuid"
)

// InvalidIDError reports a malformed entity identifier. The raw value is
// carried so callers can echo it back to the client.
type InvalidIDError struct {
	Raw string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid id format: %q", e.Raw)
}

// ParseID checks that a client-supplied identifier matches the store's
// canonical UUID encoding and returns it normalized to the lowercase
// hex-and-dashes form. It never fails for a missing value, only a malformed
// one; presence checks are the caller's job. No side effects.
func ParseID(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", &InvalidIDError{Raw: raw}
	}
	return id.String(), nil
}

// IsValidID reports whether raw is a well-formed entity id.
func IsValidID(raw string) bool {
	_, err := ParseID(raw)
	return err == nil
}
