package openbanking

import (
	"errors"
	"fmt"
)

// Provider error codes that the core distinguishes. Every other code is
// opaque: logged by callers, never special-cased.
const (
	// CodeItemLoginRequired means the stored credential no longer authorizes
	// data access and the user must re-link the item.
	CodeItemLoginRequired = "ITEM_LOGIN_REQUIRED"
)

// Error is a provider-reported API error.
type Error struct {
	Code      string
	Type      string
	Message   string
	RequestID string
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider error %s (%s): %s", e.Code, e.Type, e.Message)
}

// IsReauthRequired reports whether err indicates the credential is dead and
// the item needs re-authentication by the user.
func IsReauthRequired(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Code == CodeItemLoginRequired
}
