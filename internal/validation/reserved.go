package validation

import (
	"fmt"
	"strings"
)

// reservedUsernames are names that collide with routes or impersonate the
// platform. They are rejected at registration and profile update.
var reservedUsernames = map[string]struct{}{
	"admin":      {},
	"api":        {},
	"auth":       {},
	"categories": {},
	"feed":       {},
	"health":     {},
	"ideahub":    {},
	"login":      {},
	"me":         {},
	"metrics":    {},
	"moderation": {},
	"posts":      {},
	"profiles":   {},
	"responses":  {},
	"root":       {},
	"settings":   {},
	"signup":     {},
	"support":    {},
	"system":     {},
	"threads":    {},
	"users":      {},
}

// ReservedUsername reports whether the name is reserved, case-insensitively.
func ReservedUsername(username string) bool {
	_, exists := reservedUsernames[strings.ToLower(username)]
	return exists
}

// ValidateUsernameAvailable runs the format checks and rejects reserved names.
func ValidateUsernameAvailable(username string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	if ReservedUsername(username) {
		return fmt.Errorf("username is reserved")
	}
	return nil
}
