package device

import (
	"fmt"
	"strings"
)

// validateCreateRequest checks the required fields of a create or replace
// payload. All offending fields are reported in a single ErrValidation so
// the caller sees the complete list at once.
func validateCreateRequest(req CreateDeviceRequest) error {
	var missing []string
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(req.Brand) == "" {
		missing = append(missing, "brand")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: required fields missing or blank: %s",
			ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// resolveState parses an optional state token, falling back to the default
// lifecycle state when the token is absent.
func resolveState(value *string) (State, error) {
	if value == nil {
		return DefaultState, nil
	}
	return ParseState(*value)
}
