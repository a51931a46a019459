package shared

import "github.com/google/uuid"

// OptionalID parses a query parameter id. Blank or malformed input yields nil;
// callers validate the format at the binding layer.
func OptionalID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
