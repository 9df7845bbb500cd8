package domain

import "strings"

// Identity is the verified claim extracted from a bearer credential.
type Identity struct {
	Email string
}

// NormalizeEmail canonicalizes an email so it can be compared as a natural key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
