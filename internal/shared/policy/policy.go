// Package policy holds the rules every resource module applies before a
// write: text ceilings and ownership.
package policy

import (
	"fmt"
	"unicode/utf8"

	"capstone_backend/platform/apperr"
)

// MaxTextLength is the ceiling for free text fields, in Unicode code points.
const MaxTextLength = 255

// CheckLength rejects values longer than MaxTextLength code points.
func CheckLength(field, value string) error {
	if n := utf8.RuneCountInString(value); n > MaxTextLength {
		return apperr.Validation(fmt.Sprintf("%s must be at most %d characters", field, MaxTextLength)).
			WithReason(apperr.ReasonFieldTooLong).
			WithDetails(map[string]int{"length": n, "max": MaxTextLength})
	}
	return nil
}

// CheckLengthPtr is CheckLength for optional fields.
func CheckLengthPtr(field string, value *string) error {
	if value == nil {
		return nil
	}
	return CheckLength(field, *value)
}

// RequireOwner fails with 403 unless caller owns the resource.
func RequireOwner(ownerID, callerID, message string) error {
	if ownerID == "" || ownerID != callerID {
		return apperr.Forbidden(message).WithReason(apperr.ReasonNotOwner)
	}
	return nil
}
